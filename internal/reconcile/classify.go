package reconcile

import "github.com/shopspring/decimal"

const (
	warningThreshold    = 80.0
	overBudgetThreshold = 100.0
)

// Classify buckets a utilization percentage: above 100 is over budget,
// above 80 up to 100 is a warning, anything else is normal.
func Classify(pct float64) Classification {
	switch {
	case pct > overBudgetThreshold:
		return ClassOverBudget
	case pct > warningThreshold:
		return ClassWarning
	default:
		return ClassNormal
	}
}

// Utilization returns effort as a percentage of budget. ok is false when
// the budget is zero.
func Utilization(effort, budget float64) (pct float64, ok bool) {
	if budget == 0 {
		return 0, false
	}
	return effort / budget * 100, true
}

// NewSummary derives availability from the three totals.
func NewSummary(budget, actual, obligated decimal.Decimal) Summary {
	available := budget.Sub(actual.Add(obligated))
	s := Summary{
		TotalActual:    actual.InexactFloat64(),
		TotalObligated: obligated.InexactFloat64(),
		TotalBudget:    budget.InexactFloat64(),
		Available:      available.InexactFloat64(),
		Status:         StatusOK,
	}
	if available.IsNegative() {
		s.Status = StatusOverBudget
	}
	return s
}
