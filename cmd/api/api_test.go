package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farxc/project-cockpit/internal/db"
	"github.com/farxc/project-cockpit/internal/logger"
	"github.com/farxc/project-cockpit/internal/reconcile"
	"github.com/farxc/project-cockpit/internal/store"
)

func newTestApp(t *testing.T) *application {
	t.Helper()
	ctx := context.Background()

	conn, err := db.New(db.Config{Driver: "sqlite", Addr: filepath.Join(t.TempDir(), "store.db"), MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	storage := store.NewStorage(conn)
	require.NoError(t, storage.Tables.Replace(ctx, &store.Table{
		Name: "ist_kosten",
		Columns: []store.Column{
			{Name: "objekt"}, {Name: "einkaufsbeleg"}, {Name: "bezeichnung"},
			{Name: "wert/bwähr", Type: store.RealColumn}, {Name: "periode"}, {Name: "hauptprojekt"},
		},
		Rows: [][]any{{"G.011803001.02", "4500001", "Beton", 2500.0, "1", "G.011803001"}},
	}))
	require.NoError(t, storage.Tables.Replace(ctx, &store.Table{
		Name: "obligo_banf",
		Columns: []store.Column{
			{Name: "objekt"}, {Name: "nr_referenzbeleg"}, {Name: "bezeichnung"}, {Name: "wert/bwähr", Type: store.RealColumn},
		},
		Rows: [][]any{{"G.011803001.02", "0100001", "Anforderung", 1500.0}},
	}))
	require.NoError(t, storage.Tables.Replace(ctx, &store.Table{
		Name:    "vertraege_uebersicht",
		Columns: []store.Column{{Name: "planungelement"}, {Name: "betrag", Type: store.RealColumn}},
		Rows:    [][]any{{"PE G.011803001.02", 10000.0}},
	}))
	require.NoError(t, storage.ImportLog.Record(ctx, []store.ImportLogEntry{
		{RunID: "run-1", Seq: 1, FileName: "CJI3.xlsx", TableName: "ist_kosten", Status: store.StatusImported, RowCount: 1, ImportedAt: "2026-01-01T00:00:00Z"},
	}))

	l := logger.New(logger.LevelError, "text")
	l.SetOutput(&bytes.Buffer{})

	return &application{
		db:     conn,
		store:  storage,
		engine: reconcile.New(storage.Ledger, reconcile.DefaultSources(), l),
		log:    l,
	}
}

func get(t *testing.T, app *application, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	app.mount().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestApp(t), "/v1/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"available"`)
}

func TestGetProjects(t *testing.T) {
	rec := get(t, newTestApp(t), "/v1/projects")
	require.Equal(t, http.StatusOK, rec.Code)

	var body GetProjectsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"G.011803001"}, body.Data)
}

func TestGetReconciliation(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/v1/projects/G.011803001/reconciliation")
	require.Equal(t, http.StatusOK, rec.Code)

	var body GetReconciliationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Data)
	assert.Equal(t, 2500.0, body.Data.Summary.TotalActual)
	assert.Equal(t, 0.0, body.Data.Summary.TotalObligated)
	assert.Contains(t, body.Warnings, "table obligo_cji5 not found")

	rec = get(t, app, "/v1/projects/G.011803001/reconciliation?obligations=obligo_banf")
	require.Equal(t, http.StatusOK, rec.Code)
	body = GetReconciliationResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1500.0, body.Data.Summary.TotalObligated)
	assert.Equal(t, 6000.0, body.Data.Summary.Available)
	assert.Equal(t, reconcile.StatusOK, body.Data.Summary.Status)
	assert.Equal(t, "obligo_banf", body.Data.ObligationsTable)
}

func TestGetReconciliationNoData(t *testing.T) {
	rec := get(t, newTestApp(t), "/v1/projects/X.000000000/reconciliation")
	require.Equal(t, http.StatusOK, rec.Code)

	var body GetReconciliationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No data for project", body.Message)
	assert.Equal(t, 0.0, body.Data.Summary.Available)
}

func TestGetReconciliationBadObligations(t *testing.T) {
	rec := get(t, newTestApp(t), "/v1/projects/G.011803001/reconciliation?obligations=users")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown obligations table")
}

func TestGetLatestImport(t *testing.T) {
	rec := get(t, newTestApp(t), "/v1/imports/latest")
	require.Equal(t, http.StatusOK, rec.Code)

	var body GetLatestImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "CJI3.xlsx", body.Data[0].FileName)
}
