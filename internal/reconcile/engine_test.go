package reconcile

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farxc/project-cockpit/internal/db"
	"github.com/farxc/project-cockpit/internal/logger"
	"github.com/farxc/project-cockpit/internal/store"
)

type fakeLedger struct {
	postings map[string]*store.PostingSet
	budget   *store.BudgetSet
	codes    map[string][]string
	err      error
	keys     []string
}

func (f *fakeLedger) Postings(_ context.Context, src store.PostingSource, key string) (*store.PostingSet, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	if set, ok := f.postings[src.Table]; ok {
		return set, nil
	}
	return &store.PostingSet{TableMissing: true}, nil
}

func (f *fakeLedger) Budget(context.Context, store.BudgetSource, string) (*store.BudgetSet, error) {
	if f.budget == nil {
		return &store.BudgetSet{TableMissing: true}, nil
	}
	return f.budget, nil
}

func (f *fakeLedger) ProjectCodes(_ context.Context, table, _ string) ([]string, error) {
	return f.codes[table], nil
}

func quietLogger() *logger.Logger {
	l := logger.New(logger.LevelDebug, "text")
	l.SetOutput(&bytes.Buffer{})
	return l
}

func TestReconcile(t *testing.T) {
	ledger := &fakeLedger{
		postings: map[string]*store.PostingSet{
			"ist_kosten": {Rows: []store.Posting{
				posting("G.011803001.02", "4500001", "Beton", "1", 2000),
				posting("G.011803001.05", "", "", "2", 500),
			}},
			"obligo_cji5": {Rows: []store.Posting{
				posting("G.011803001.02", "4500001", "", "", 1500),
			}, Missing: []string{"bezeichnung"}},
		},
		budget: &store.BudgetSet{Rows: []store.BudgetLine{
			{Element: "PE G.011803001.02", Amount: 6000},
			{Element: "PE G.011803001.05", Amount: 4000},
		}},
	}

	res, err := New(ledger, DefaultSources(), quietLogger()).Reconcile(context.Background(), "G.011803001")
	require.NoError(t, err)

	assert.Equal(t, "G.011803001", res.ProjectKey)
	assert.Equal(t, "obligo_cji5", res.ObligationsTable)
	assert.Equal(t, Summary{TotalActual: 2500, TotalObligated: 1500, TotalBudget: 10000, Available: 6000, Status: StatusOK}, res.Summary)
	require.Len(t, res.Elements, 2)
	assert.Equal(t, 3500.0, res.Elements[0].TotalEffort)
	assert.InDelta(t, 35.0, *res.Elements[0].UtilizationPct, 1e-9)
	require.Len(t, res.Orders.Rows, 2)
	assert.Equal(t, 3500.0, res.Orders.Rows[0].OrderValue)
	assert.True(t, res.Orders.Rows[1].NoOrder)
	assert.Len(t, res.Budget, 2)
	assert.Equal(t, []string{"column obligo_cji5.bezeichnung not found"}, res.Warnings)
	assert.Equal(t, []string{"G.011803001", "G.011803001"}, ledger.keys)
}

func TestReconcileNoData(t *testing.T) {
	res, err := New(&fakeLedger{}, DefaultSources(), quietLogger()).Reconcile(context.Background(), "G.000000000")
	require.NoError(t, err)

	assert.True(t, res.Empty())
	assert.Equal(t, Summary{Status: StatusOK}, res.Summary)
	assert.NotNil(t, res.Elements)
	assert.NotNil(t, res.Orders.Rows)
	assert.Len(t, res.Warnings, 3)
}

func TestReconcileLedgerError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(&fakeLedger{err: boom}, DefaultSources(), quietLogger()).Reconcile(context.Background(), "G")
	assert.ErrorIs(t, err, boom)
}

func TestProjects(t *testing.T) {
	ledger := &fakeLedger{codes: map[string][]string{
		"ist_kosten":  {"G.011803001.02", "G.011803001.05", "P.220000417.01"},
		"obligo_cji5": {"G.011803001.02", "A.000000001.01", "  "},
	}}

	keys, err := New(ledger, DefaultSources(), quietLogger()).Projects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A.000000001", "G.011803001", "P.220000417"}, keys)
}

func TestWithObligations(t *testing.T) {
	e := New(&fakeLedger{}, DefaultSources(), quietLogger())

	banf, err := e.WithObligations("obligo_banf")
	require.NoError(t, err)
	assert.Equal(t, "obligo_banf", banf.Sources().Obligations.Table)
	assert.Equal(t, "obligo_cji5", e.Sources().Obligations.Table)

	_, err = e.WithObligations("ist_kosten; DROP TABLE x")
	assert.Error(t, err)
}

func TestReconcileAgainstStore(t *testing.T) {
	ctx := context.Background()
	conn, err := db.New(db.Config{Driver: "sqlite", Addr: filepath.Join(t.TempDir(), "store.db"), MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	defer conn.Close()
	storage := store.NewStorage(conn)

	require.NoError(t, storage.Tables.Replace(ctx, &store.Table{
		Name: "ist_kosten",
		Columns: []store.Column{
			{Name: "objekt"}, {Name: "einkaufsbeleg"}, {Name: "bezeichnung"},
			{Name: "wert/bwähr", Type: store.RealColumn}, {Name: "periode"}, {Name: "hauptprojekt"},
		},
		Rows: [][]any{
			{"G.011803001.02.03", "4500001", "Beton", 100.0, "1", "G.011803001"},
			{"G.011803001.02.04", "4500001", "Beton", 200.0, "2", "G.011803001"},
			{"G.099999999.01", "4500002", "Fremd", 999.0, "1", "G.099999999"},
		},
	}))
	require.NoError(t, storage.Tables.Replace(ctx, &store.Table{
		Name: "obligo_cji5",
		Columns: []store.Column{
			{Name: "objekt"}, {Name: "nr_referenzbeleg"}, {Name: "wert/bwähr", Type: store.RealColumn}, {Name: "hauptprojekt"},
		},
		Rows: [][]any{
			{"G.011803001.02.03", "4500001", 50.0, "G.011803001"},
			{"G.011803001.07", nil, 300.0, "G.011803001"},
		},
	}))
	require.NoError(t, storage.Tables.Replace(ctx, &store.Table{
		Name: "vertraege_uebersicht",
		Columns: []store.Column{
			{Name: "planungelement"}, {Name: "projektnummer"}, {Name: "bezeichnung"}, {Name: "betrag", Type: store.RealColumn},
		},
		Rows: [][]any{
			{"PE G.011803001.02", nil, "Rohbau", 500.0},
			{nil, "G.011803001", "Reserve", 100.0},
			{"PE G.099999999.01", nil, "Fremd", 5000.0},
		},
	}))

	engine := New(storage.Ledger, DefaultSources(), quietLogger())

	res, err := engine.Reconcile(ctx, "G.011803001")
	require.NoError(t, err)
	assert.Equal(t, 300.0, res.Summary.TotalActual)
	assert.Equal(t, 350.0, res.Summary.TotalObligated)
	assert.Equal(t, 600.0, res.Summary.TotalBudget)
	assert.Equal(t, -50.0, res.Summary.Available)
	assert.Equal(t, StatusOverBudget, res.Summary.Status)
	assert.Len(t, res.Elements, 3)
	assert.Equal(t, []string{"column obligo_cji5.bezeichnung not found"}, res.Warnings)

	require.Len(t, res.Orders.Rows, 2)
	assert.Equal(t, "4500001", res.Orders.Rows[0].OrderRef)
	assert.Equal(t, "Beton", res.Orders.Rows[0].Description)
	assert.Equal(t, 350.0, res.Orders.Rows[0].OrderValue)
	assert.Equal(t, NoOrder, res.Orders.Rows[1].OrderRef)
	assert.Equal(t, NoDescription, res.Orders.Rows[1].Description)

	projects, err := engine.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"G.011803001", "G.099999999"}, projects)
}
