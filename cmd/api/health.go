package main

import (
	"context"
	"net/http"
	"time"
)

// @Summary		Health check
// @Description	returns the status of the service and its store
// @Tags			Health
// @Produce		json
// @Success		200	{object}	map[string]string
// @Failure		503	{object}	map[string]string
// @Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	data := map[string]string{
		"status":  "available",
		"store":   "ok",
		"version": "0.1.0",
	}
	status := http.StatusOK

	if err := app.db.PingContext(ctx); err != nil {
		app.log.Warn(component, "Store ping failed: error=%v", err)
		data["status"] = "degraded"
		data["store"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if err := writeJSON(w, status, data); err != nil {
		writeJSONError(w, r, http.StatusInternalServerError, err.Error())
	}
}
