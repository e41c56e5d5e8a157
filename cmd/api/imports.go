package main

import (
	"net/http"

	"github.com/farxc/project-cockpit/internal/response"
	"github.com/farxc/project-cockpit/internal/store"
)

type GetLatestImportResponse = response.APIResponse[[]store.ImportLogEntry]

// @Summary		Latest import run
// @Description	Per-file outcome of the import run that built the current store.
// @Tags			Imports
// @Produce		json
// @Success		200	{object}	GetLatestImportResponse	"Successfully retrieved latest import"
// @Failure		500	{object}	response.ErrorResponse	"Failed to read import log"
// @Router			/imports/latest [get]
func (app *application) handleGetLatestImport(w http.ResponseWriter, r *http.Request) {
	entries, err := app.store.ImportLog.Latest(r.Context())
	if err != nil {
		writeJSONError(w, r, http.StatusInternalServerError, "failed to read import log: "+err.Error())
		return
	}
	if entries == nil {
		entries = []store.ImportLogEntry{}
	}

	response := &GetLatestImportResponse{
		Success: true,
		Data:    entries,
		Message: "Successfully retrieved latest import",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, r, http.StatusInternalServerError, "failed to write response")
	}
}
