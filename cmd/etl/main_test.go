package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		dataDir, outputFormat, csvSection, obligations = "", "json", "elements", ""
		configFile, logLevel, storePath = "", "", ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestImportThenReconcile(t *testing.T) {
	t.Chdir(t.TempDir())

	data := t.TempDir()
	writeWorkbook(t, filepath.Join(data, "CJI3.xlsx"), [][]any{
		{"Objekt", "Einkaufsbeleg", "Bezeichnung", "Wert/BWähr", "Periode"},
		{"G.011803001.02.03", "4500001", "Beton", "1.200,00", 1},
	})
	writeWorkbook(t, filepath.Join(data, "CJI5.xlsx"), [][]any{
		{"Objekt", "Nr. Referenzbeleg", "Wert/BWähr"},
		{"G.011803001.02.03", "4500001", 300},
	})
	dbPath := filepath.Join(t.TempDir(), "store.db")

	_, err := execute(t, "import", "--db", dbPath, "--data-dir", data, "--log-level", "error")
	require.NoError(t, err)
	assert.FileExists(t, dbPath)

	out, err := execute(t, "projects", "--db", dbPath, "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "G.011803001\n", out)

	out, err = execute(t, "reconcile", "G.011803001", "--db", dbPath, "--log-level", "error", "--format", "csv", "--section", "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "4500001,Beton,1200.00,1200.00,300.00,1500.00")
}

func TestReconcileRejectsUnknownObligationsTable(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "reconcile", "G", "--db", filepath.Join(t.TempDir(), "x.db"), "--obligations", "ist_kosten")
	assert.Error(t, err)
}

func TestReconcileWithoutStore(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "reconcile", "G", "--db", filepath.Join(t.TempDir(), "missing.db"), "--log-level", "error")
	assert.Error(t, err)
}
