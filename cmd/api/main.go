package main

import (
	"log"

	"github.com/farxc/project-cockpit/internal/config"
	"github.com/farxc/project-cockpit/internal/db"
	"github.com/farxc/project-cockpit/internal/logger"
	"github.com/farxc/project-cockpit/internal/reconcile"
	"github.com/farxc/project-cockpit/internal/store"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}

	appLogger := logger.New(cfg.LogLevel(), cfg.Log.Format)

	addr := cfg.Store.Path
	if cfg.Store.Driver == config.DriverPostgres {
		addr = cfg.Store.DSN
	}

	conn, err := db.New(db.Config{
		Driver:       cfg.Store.Driver,
		Addr:         addr,
		MaxOpenConns: cfg.Store.MaxOpenConns,
		MaxIdleConns: cfg.Store.MaxIdleConns,
		MaxIdleTime:  cfg.Store.MaxIdleTime,
	})
	if err != nil {
		appLogger.Fatal(component, "Failed to open store: error=%v", err)
	}
	defer conn.Close()
	appLogger.Info(component, "Database connection pool established: driver=%s", cfg.Store.Driver)

	sources, err := reconcile.DefaultSources().WithObligations(cfg.Reconcile.ObligationsTable)
	if err != nil {
		appLogger.Fatal(component, "Invalid reconcile configuration: error=%v", err)
	}

	storage := store.NewStorage(conn)

	app := &application{
		config: serverConfig{addr: cfg.API.Addr},
		db:     conn,
		store:  storage,
		engine: reconcile.New(storage.Ledger, sources, appLogger),
		log:    appLogger,
	}

	mux := app.mount()

	if err := app.run(mux); err != nil {
		appLogger.Fatal(component, "Server stopped: error=%v", err)
	}
}
