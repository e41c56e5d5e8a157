package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"github.com/farxc/project-cockpit/internal/logger"
	"github.com/farxc/project-cockpit/internal/reconcile"
	"github.com/farxc/project-cockpit/internal/store"
)

const component = "API"

type application struct {
	config serverConfig
	db     *sqlx.DB
	store  *store.Storage
	engine *reconcile.Engine
	log    *logger.Logger
}

type serverConfig struct {
	addr string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", app.handleGetProjects)
			r.Get("/{key}/reconciliation", app.handleGetReconciliation)
		})
		r.Route("/imports", func(r chi.Router) {
			r.Get("/latest", app.handleGetLatestImport)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.log.Info(component, "Server started: addr=%s", app.config.addr)
	return srv.ListenAndServe()
}
