package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/farxc/project-cockpit/internal/config"
	"github.com/farxc/project-cockpit/internal/db"
	"github.com/farxc/project-cockpit/internal/importer"
	"github.com/farxc/project-cockpit/internal/store"
)

var (
	dataDir     string
	withMonitor bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Rebuild the store from the exports in the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if dataDir != "" {
			app.cfg.Import.DataDir = dataDir
		}
		return app.runImport(cmd)
	},
}

func init() {
	importCmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "directory holding the exports (overrides import.data_dir)")
	importCmd.Flags().BoolVar(&withMonitor, "monitor", false, "log memory usage while importing")
}

func (a *application) runImport(cmd *cobra.Command) error {
	ctx := cmd.Context()
	start := time.Now()

	a.log.Info(component, "Starting import: dataDir=%s driver=%s", a.cfg.Import.DataDir, a.cfg.Store.Driver)

	var monitor *MemoryMonitor
	if withMonitor {
		monitor = NewMonitor()
		monitor.Start(500*time.Millisecond, a.log)
	}

	// The store is rebuilt from scratch; a stale file must never mix with fresh tables.
	if a.cfg.Store.Driver == config.DriverSQLite {
		if err := db.RemoveFile(a.cfg.Store.Path); err != nil {
			a.log.Fatal(component, "Cannot reset store, aborting import: path=%s error=%v", a.cfg.Store.Path, err)
		}
	}

	conn, err := a.openStore()
	if err != nil {
		return err
	}
	defer conn.Close()

	enc, err := ianaindex.IANA.Encoding(a.cfg.Import.CSVEncoding)
	if err != nil {
		return fmt.Errorf("unknown csv encoding %s: %w", a.cfg.Import.CSVEncoding, err)
	}

	im := importer.New(store.NewStorage(conn), a.log, importer.WithEncoding(enc))

	if a.cfg.Store.Driver == config.DriverPostgres {
		if err := im.DropTables(ctx); err != nil {
			a.log.Fatal(component, "Cannot reset store, aborting import: error=%v", err)
		}
	}

	report, err := im.Run(ctx, a.cfg.Import.DataDir)
	if err != nil {
		a.log.Error(component, "Import aborted: error=%v", err)
		return err
	}

	for _, f := range report.Files {
		if f.Status == store.StatusFailed {
			a.log.Warn(component, "File not loaded: file=%s error=%v", f.File, f.Err)
		}
	}

	if monitor != nil {
		stats := monitor.Stop()
		a.log.Info(component, "Monitor summary: peakGoroutines=%d peakMemoryMB=%d", stats.PeakGoroutines, stats.PeakMemoryMB)
	}

	a.log.Info(component, "Import complete: runID=%s tables=%v duration=%s",
		report.RunID, report.Tables(), time.Since(start).Round(time.Millisecond))
	return nil
}
