package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/farxc/project-cockpit/internal/config"
	"github.com/farxc/project-cockpit/internal/reconcile"
	"github.com/farxc/project-cockpit/internal/store"
)

var (
	outputFormat string
	csvSection   string
	obligations  string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the main projects present in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeStore, err := app.engine("")
		if err != nil {
			return err
		}
		defer closeStore()

		keys, err := engine.Projects(cmd.Context())
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <project>",
	Short: "Reconcile budget, actuals and obligations for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := reconcile.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		engine, closeStore, err := app.engine(obligations)
		if err != nil {
			return err
		}
		defer closeStore()

		res, err := engine.Reconcile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if res.Empty() {
			app.log.Info(component, "No data for project: project=%s", args[0])
		}

		return reconcile.Write(cmd.OutOrStdout(), res, format, reconcile.Section(csvSection))
	},
}

func init() {
	reconcileCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format: json, yaml or csv")
	reconcileCmd.Flags().StringVar(&csvSection, "section", string(reconcile.SectionElements), "csv table: elements or orders")
	reconcileCmd.Flags().StringVar(&obligations, "obligations", "", "obligations table (default: reconcile.obligations_table)")
}

// engine opens the store read-side and builds a reconciliation engine.
func (a *application) engine(obligationsTable string) (*reconcile.Engine, func(), error) {
	if obligationsTable == "" {
		obligationsTable = a.cfg.Reconcile.ObligationsTable
	}
	sources, err := reconcile.DefaultSources().WithObligations(obligationsTable)
	if err != nil {
		return nil, nil, err
	}

	if a.cfg.Store.Driver == config.DriverSQLite {
		if _, err := os.Stat(a.cfg.Store.Path); err != nil {
			return nil, nil, fmt.Errorf("store %s not available, run import first: %w", a.cfg.Store.Path, err)
		}
	}

	conn, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}

	storage := store.NewStorage(conn)
	return reconcile.New(storage.Ledger, sources, a.log), func() { conn.Close() }, nil
}
