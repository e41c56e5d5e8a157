package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/farxc/project-cockpit/internal/config"
	"github.com/farxc/project-cockpit/internal/db"
	"github.com/farxc/project-cockpit/internal/logger"
)

const component = "ETL"

type application struct {
	cfg *config.Config
	log *logger.Logger
}

var (
	app = &application{}

	configFile string
	logLevel   string
	storePath  string
)

var rootCmd = &cobra.Command{
	Use:   "etl",
	Short: "Import ERP exports and reconcile project budgets",
	Long: `etl loads the cost, obligation and contract exports of the ERP system into
the relational store and reconciles budget against actuals and obligations
per project.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if storePath != "" {
			cfg.Store.Path = storePath
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		app.cfg = cfg
		app.log = logger.New(cfg.LogLevel(), cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&storePath, "db", "", "SQLite store file (overrides store.path)")

	rootCmd.AddCommand(importCmd, projectsCmd, reconcileCmd)
}

func (a *application) dbConfig() db.Config {
	addr := a.cfg.Store.Path
	if a.cfg.Store.Driver == config.DriverPostgres {
		addr = a.cfg.Store.DSN
	}
	return db.Config{
		Driver:       a.cfg.Store.Driver,
		Addr:         addr,
		MaxOpenConns: a.cfg.Store.MaxOpenConns,
		MaxIdleConns: a.cfg.Store.MaxIdleConns,
		MaxIdleTime:  a.cfg.Store.MaxIdleTime,
	}
}

func (a *application) openStore() (*sqlx.DB, error) {
	conn, err := db.New(a.dbConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	a.log.Debug(component, "Store opened: driver=%s", a.cfg.Store.Driver)
	return conn, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
