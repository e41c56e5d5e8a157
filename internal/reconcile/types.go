package reconcile

import (
	"github.com/farxc/project-cockpit/internal/store"
)

// Status classifies a project's remaining budget.
type Status string

const (
	StatusOK         Status = "OK"
	StatusOverBudget Status = "over-budget"
)

// Classification buckets an element's budget utilization.
type Classification string

const (
	ClassNormal     Classification = "normal"
	ClassWarning    Classification = "warning"
	ClassOverBudget Classification = "over-budget"
)

const (
	// NoOrder collects postings without a usable order reference.
	NoOrder = "Sonstiges / Ohne Bestellung"
	// NoDescription labels orders that carry no text on either side.
	NoDescription = "Ohne Bezeichnung"
)

type Summary struct {
	TotalActual    float64 `json:"total_actual" yaml:"total_actual"`
	TotalObligated float64 `json:"total_obligated" yaml:"total_obligated"`
	TotalBudget    float64 `json:"total_budget" yaml:"total_budget"`
	Available      float64 `json:"available" yaml:"available"`
	Status         Status  `json:"status" yaml:"status"`
}

// Element is the reconciliation of one object code.
type Element struct {
	ObjectCode     string         `json:"object_code" yaml:"object_code"`
	Area           string         `json:"area" yaml:"area"`
	ActualSum      float64        `json:"actual_sum" yaml:"actual_sum"`
	ObligatedSum   float64        `json:"obligated_sum" yaml:"obligated_sum"`
	TotalEffort    float64        `json:"total_effort" yaml:"total_effort"`
	UtilizationPct *float64       `json:"utilization_pct,omitempty" yaml:"utilization_pct,omitempty"`
	Classification Classification `json:"classification,omitempty" yaml:"classification,omitempty"`
}

// OrderRow is one line of the order matrix. Periods holds the actuals per
// accounting period; postings without a period only count towards SumActual.
type OrderRow struct {
	OrderRef            string             `json:"order_ref" yaml:"order_ref"`
	NoOrder             bool               `json:"no_order" yaml:"no_order"`
	Description         string             `json:"description" yaml:"description"`
	Periods             map[string]float64 `json:"periods" yaml:"periods"`
	SumActual           float64            `json:"sum_actual" yaml:"sum_actual"`
	RemainingObligation float64            `json:"remaining_obligation" yaml:"remaining_obligation"`
	OrderValue          float64            `json:"order_value" yaml:"order_value"`
}

type OrderMatrix struct {
	Periods []string   `json:"periods" yaml:"periods"`
	Rows    []OrderRow `json:"rows" yaml:"rows"`
}

// Result is everything the dashboard needs for one project.
type Result struct {
	ProjectKey       string             `json:"project_key" yaml:"project_key"`
	ObligationsTable string             `json:"obligations_table" yaml:"obligations_table"`
	Summary          Summary            `json:"summary" yaml:"summary"`
	Elements         []Element          `json:"elements" yaml:"elements"`
	Orders           OrderMatrix        `json:"orders" yaml:"orders"`
	Budget           []store.BudgetLine `json:"budget" yaml:"budget"`
	Warnings         []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Empty reports whether no source contributed any row.
func (r *Result) Empty() bool {
	return len(r.Elements) == 0 && len(r.Orders.Rows) == 0 && len(r.Budget) == 0
}
