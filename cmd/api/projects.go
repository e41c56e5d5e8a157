package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/farxc/project-cockpit/internal/reconcile"
	"github.com/farxc/project-cockpit/internal/response"
)

type GetProjectsResponse = response.APIResponse[[]string]
type GetReconciliationResponse = response.APIResponse[*reconcile.Result]

// @Summary		List projects
// @Description	Lists the main-project keys found in the actuals and obligations tables.
// @Tags			Projects
// @Produce		json
// @Success		200	{object}	GetProjectsResponse		"Successfully listed projects"
// @Failure		500	{object}	response.ErrorResponse	"Failed to list projects"
// @Router			/projects [get]
func (app *application) handleGetProjects(w http.ResponseWriter, r *http.Request) {
	keys, err := app.engine.Projects(r.Context())
	if err != nil {
		app.log.Error(component, "Failed to list projects: error=%v", err)
		writeJSONError(w, r, http.StatusInternalServerError, "failed to list projects: "+err.Error())
		return
	}

	response := &GetProjectsResponse{
		Success: true,
		Data:    keys,
		Message: "Successfully listed projects",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, r, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Reconcile a project
// @Description	Budget against actuals and obligations for one main project: summary, per-element table and per-order matrix.
// @Tags			Projects
// @Produce		json
// @Param			key			path		string						true	"Main project key, e.g. G.011803001"
// @Param			obligations	query		string						false	"Obligations table"	Enums(obligo_cji5, obligo_banf, obligo_bestell)
// @Success		200			{object}	GetReconciliationResponse	"Successfully reconciled project"
// @Failure		400			{object}	response.ErrorResponse		"Invalid project key or obligations table"
// @Failure		500			{object}	response.ErrorResponse		"Failed to reconcile project"
// @Router			/projects/{key}/reconciliation [get]
func (app *application) handleGetReconciliation(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		writeJSONError(w, r, http.StatusBadRequest, "missing project key")
		return
	}

	engine := app.engine
	if table := r.URL.Query().Get("obligations"); table != "" {
		variant, err := engine.WithObligations(table)
		if err != nil {
			writeJSONError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		engine = variant
	}

	res, err := engine.Reconcile(r.Context(), key)
	if err != nil {
		app.log.Error(component, "Failed to reconcile project: project=%s error=%v", key, err)
		writeJSONError(w, r, http.StatusInternalServerError, "failed to reconcile project: "+err.Error())
		return
	}

	message := "Successfully reconciled project"
	if res.Empty() {
		message = "No data for project"
	}

	response := &GetReconciliationResponse{
		Success:  true,
		Data:     res,
		Message:  message,
		Warnings: res.Warnings,
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, r, http.StatusInternalServerError, "failed to write response")
	}
}
