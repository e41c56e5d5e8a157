package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farxc/project-cockpit/internal/psp"
	"github.com/farxc/project-cockpit/internal/store"
)

func columnNames(t *store.Table) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func columnIndex(t *store.Table, name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func TestBuildTable(t *testing.T) {
	records := [][]string{
		{" Objekt ", "Einkaufsbeleg", "Bezeichnung", "Wert/BWähr", "Periode"},
		{"G.011803001.02.03", "4500001", "Beton", "1.000,50", "1"},
		{"G.011803001.05", "", "Stahl", "250.25", "2"},
		{"", "", "", "", ""},
		{"", "nan", "Ohne Objekt", "abc"},
	}

	tbl, stats, err := buildTable(Mapping{Table: "ist_kosten"}, records)
	require.NoError(t, err)

	assert.Equal(t, "ist_kosten", tbl.Name)
	assert.Equal(t, []string{"objekt", "einkaufsbeleg", "bezeichnung", "wert/bwähr", "periode", "hauptprojekt"}, columnNames(tbl))
	assert.Equal(t, store.RealColumn, tbl.Columns[3].Type)
	assert.Equal(t, store.TextColumn, tbl.Columns[0].Type)
	assert.Equal(t, []string{"wert/bwähr"}, stats.FinancialColumns)
	assert.Equal(t, 3, stats.Rows)
	require.Len(t, tbl.Rows, 3)

	assert.Equal(t, []any{"G.011803001.02.03", "4500001", "Beton", 1000.50, "1", "G.011803001"}, tbl.Rows[0])
	assert.Nil(t, tbl.Rows[1][1])
	assert.Equal(t, 250.25, tbl.Rows[1][3])

	// Short row padded, unparseable amount zeroed, missing code gets the sentinel.
	assert.Nil(t, tbl.Rows[2][0])
	assert.Nil(t, tbl.Rows[2][1])
	assert.Equal(t, 0.0, tbl.Rows[2][3])
	assert.Nil(t, tbl.Rows[2][4])
	assert.Equal(t, psp.Unknown, tbl.Rows[2][5])
}

func TestBuildTableHeaderOffset(t *testing.T) {
	records := [][]string{
		{"Vertragsübersicht Stand 01.03."},
		{"Planungelement", "Bezeichnung", "Betrag"},
		{"PE G.011803001.02", "Rohbau", "8.000,00"},
	}

	tbl, _, err := buildTable(Mapping{Table: "vertraege_uebersicht", HeaderRow: 1}, records)
	require.NoError(t, err)
	assert.Equal(t, []string{"planungelement", "bezeichnung", "betrag"}, columnNames(tbl))
	assert.Equal(t, -1, columnIndex(tbl, "hauptprojekt"))
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, 8000.0, tbl.Rows[0][2])
}

func TestBuildTableHeaderOutOfRange(t *testing.T) {
	_, _, err := buildTable(Mapping{Table: "plausi_ref", HeaderRow: 7}, [][]string{{"a"}, {"b"}})
	assert.ErrorIs(t, err, ErrHeaderOutOfRange)
}

func TestBuildTableHeaderOnly(t *testing.T) {
	tbl, _, err := buildTable(Mapping{Table: "obligo_cji5"}, [][]string{{"Objekt", "Wert/BWähr"}})
	require.NoError(t, err)
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, []string{"objekt", "wert/bwähr", "hauptprojekt"}, columnNames(tbl))
	assert.Equal(t, store.RealColumn, tbl.Columns[1].Type)
}

func TestCanonicalHeaders(t *testing.T) {
	got := canonicalHeaders([]string{"Wert", "", "Wert", "Nr. Beleg"}, 5)
	assert.Equal(t, []string{"wert", "unnamed:_1", "wert1", "nr_beleg", "unnamed:_4"}, got)
}

func TestIrregularCodesCounted(t *testing.T) {
	records := [][]string{
		{"Objekt", "Wert"},
		{"G.011803001.01", "1"},
		{"G.01.803001.02", "2"},
	}
	tbl, stats, err := buildTable(Mapping{Table: "ist_kosten"}, records)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.IrregularCodes)
	assert.Equal(t, "G.01.803001", tbl.Rows[1][2])
}
