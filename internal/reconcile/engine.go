package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/farxc/project-cockpit/internal/logger"
	"github.com/farxc/project-cockpit/internal/psp"
	"github.com/farxc/project-cockpit/internal/store"
)

const component = "Reconciler"

// Ledger is the read side of the store the engine depends on.
type Ledger interface {
	Postings(ctx context.Context, src store.PostingSource, projectKey string) (*store.PostingSet, error)
	Budget(ctx context.Context, src store.BudgetSource, projectKey string) (*store.BudgetSet, error)
	ProjectCodes(ctx context.Context, table, column string) ([]string, error)
}

type Engine struct {
	ledger  Ledger
	sources Sources
	log     *logger.Logger
}

func New(ledger Ledger, sources Sources, log *logger.Logger) *Engine {
	return &Engine{ledger: ledger, sources: sources, log: log}
}

// Sources returns the tables the engine reads.
func (e *Engine) Sources() Sources {
	return e.sources
}

// WithObligations returns an engine reading obligations from another variant table.
func (e *Engine) WithObligations(table string) (*Engine, error) {
	src, err := e.sources.WithObligations(table)
	if err != nil {
		return nil, err
	}
	return &Engine{ledger: e.ledger, sources: src, log: e.log}, nil
}

/*
Reconcile loads actuals, obligations and budget lines for projectKey and
aggregates them into the project summary, the per-element table and the
per-order matrix. Missing tables or columns degrade to empty branches and are
reported in Result.Warnings.
*/
func (e *Engine) Reconcile(ctx context.Context, projectKey string) (*Result, error) {
	res := &Result{
		ProjectKey:       projectKey,
		ObligationsTable: e.sources.Obligations.Table,
		Elements:         []Element{},
		Orders:           OrderMatrix{Periods: []string{}, Rows: []OrderRow{}},
		Budget:           []store.BudgetLine{},
	}

	actuals, err := e.ledger.Postings(ctx, e.sources.Actuals, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load actuals: %w", err)
	}
	res.warn(e.sources.Actuals.Table, actuals.TableMissing, actuals.Missing)

	obligations, err := e.ledger.Postings(ctx, e.sources.Obligations, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load obligations: %w", err)
	}
	res.warn(e.sources.Obligations.Table, obligations.TableMissing, obligations.Missing)

	budget, err := e.ledger.Budget(ctx, e.sources.Budget, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}
	res.warn(e.sources.Budget.Table, budget.TableMissing, budget.Missing)
	if budget.Rows != nil {
		res.Budget = budget.Rows
	}

	totalBudget := decimal.Zero
	for _, b := range budget.Rows {
		totalBudget = totalBudget.Add(decimal.NewFromFloat(b.Amount))
	}

	res.Summary = NewSummary(totalBudget, sum(actuals.Rows), sum(obligations.Rows))
	res.Elements = PerElement(actuals.Rows, obligations.Rows, res.Summary.TotalBudget)
	res.Orders = PerOrder(actuals.Rows, obligations.Rows)

	for _, w := range res.Warnings {
		e.log.Debug(component, "Degraded source: project=%s %s", projectKey, w)
	}
	e.log.Debug(component, "Reconciled project: project=%s actuals=%d obligations=%d budgetLines=%d status=%s",
		projectKey, len(actuals.Rows), len(obligations.Rows), len(budget.Rows), res.Summary.Status)

	return res, nil
}

// Projects lists the main-project keys found in the actuals and
// obligations tables, sorted.
func (e *Engine) Projects(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	for _, src := range []store.PostingSource{e.sources.Actuals, e.sources.Obligations} {
		codes, err := e.ledger.ProjectCodes(ctx, src.Table, src.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to list projects from %s: %w", src.Table, err)
		}
		for _, c := range codes {
			if key := psp.MainProject(c); key != psp.Unknown {
				seen[key] = true
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *Result) warn(table string, tableMissing bool, missing []string) {
	if tableMissing {
		r.Warnings = append(r.Warnings, fmt.Sprintf("table %s not found", table))
		return
	}
	for _, col := range missing {
		r.Warnings = append(r.Warnings, fmt.Sprintf("column %s.%s not found", table, col))
	}
}

func sum(rows []store.Posting) decimal.Decimal {
	total := decimal.Zero
	for _, p := range rows {
		total = total.Add(decimal.NewFromFloat(p.Amount))
	}
	return total
}
