package reconcile

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/farxc/project-cockpit/internal/psp"
	"github.com/farxc/project-cockpit/internal/store"
)

// PerElement sums actuals and obligations per object code and outer-joins
// the two sides; a code missing on one side counts zero there. Utilization
// is computed against totalBudget unless it is zero.
func PerElement(actuals, obligations []store.Posting, totalBudget float64) []Element {
	actual := map[string]decimal.Decimal{}
	obligated := map[string]decimal.Decimal{}
	for _, p := range actuals {
		actual[p.ObjectCode] = actual[p.ObjectCode].Add(decimal.NewFromFloat(p.Amount))
	}
	for _, p := range obligations {
		obligated[p.ObjectCode] = obligated[p.ObjectCode].Add(decimal.NewFromFloat(p.Amount))
	}

	codes := make([]string, 0, len(actual)+len(obligated))
	for c := range actual {
		codes = append(codes, c)
	}
	for c := range obligated {
		if _, ok := actual[c]; !ok {
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)

	elements := make([]Element, 0, len(codes))
	for _, c := range codes {
		a, o := actual[c], obligated[c]
		el := Element{
			ObjectCode:   c,
			Area:         psp.Area(c),
			ActualSum:    a.InexactFloat64(),
			ObligatedSum: o.InexactFloat64(),
			TotalEffort:  a.Add(o).InexactFloat64(),
		}
		if pct, ok := Utilization(el.TotalEffort, totalBudget); ok {
			el.UtilizationPct = &pct
			el.Classification = Classify(pct)
		}
		elements = append(elements, el)
	}
	return elements
}

type orderAcc struct {
	noOrder     bool
	description string
	total       decimal.Decimal
	periods     map[string]decimal.Decimal
}

/*
PerOrder builds the order matrix: actuals pivoted by period per order
reference, outer-joined with the obligation sums per order reference. Blank
references, "nan" and "None" all land in the NoOrder bucket, which sorts
after every real reference.

The description is the first-seen actuals text for the order, in import row
order. Blank cells are stored as NULL and arrive here as "", so they count as
absent and are skipped, the same way a missing value is. When the actuals
carry no text the first-seen obligation text is used, then NoDescription.
*/
func PerOrder(actuals, obligations []store.Posting) OrderMatrix {
	actual := map[string]*orderAcc{}
	obligated := map[string]*orderAcc{}
	periodSet := map[string]bool{}

	accumulate := func(m map[string]*orderAcc, p store.Posting) *orderAcc {
		key, none := orderKey(p.OrderRef)
		acc, ok := m[key]
		if !ok {
			acc = &orderAcc{noOrder: none, periods: map[string]decimal.Decimal{}}
			m[key] = acc
		}
		acc.noOrder = acc.noOrder || none || key == NoOrder
		amount := decimal.NewFromFloat(p.Amount)
		acc.total = acc.total.Add(amount)
		if acc.description == "" {
			acc.description = strings.TrimSpace(p.Description)
		}
		return acc
	}

	for _, p := range actuals {
		acc := accumulate(actual, p)
		if period := strings.TrimSpace(p.Period); period != "" {
			periodSet[period] = true
			acc.periods[period] = acc.periods[period].Add(decimal.NewFromFloat(p.Amount))
		}
	}
	for _, p := range obligations {
		accumulate(obligated, p)
	}

	periods := make([]string, 0, len(periodSet))
	for p := range periodSet {
		periods = append(periods, p)
	}
	sortPeriods(periods)

	keys := make([]string, 0, len(actual)+len(obligated))
	for k := range actual {
		keys = append(keys, k)
	}
	for k := range obligated {
		if _, ok := actual[k]; !ok {
			keys = append(keys, k)
		}
	}

	rows := make([]OrderRow, 0, len(keys))
	for _, k := range keys {
		a, o := actual[k], obligated[k]
		row := OrderRow{OrderRef: k, Periods: make(map[string]float64, len(periods))}
		for _, p := range periods {
			row.Periods[p] = 0
		}

		sumActual, remaining := decimal.Zero, decimal.Zero
		if a != nil {
			row.NoOrder = a.noOrder
			row.Description = a.description
			sumActual = a.total
			for p, v := range a.periods {
				row.Periods[p] = v.InexactFloat64()
			}
		}
		if o != nil {
			row.NoOrder = row.NoOrder || o.noOrder
			if row.Description == "" {
				row.Description = o.description
			}
			remaining = o.total
		}
		if row.Description == "" {
			row.Description = NoDescription
		}

		row.SumActual = sumActual.InexactFloat64()
		row.RemainingObligation = remaining.InexactFloat64()
		row.OrderValue = sumActual.Add(remaining).InexactFloat64()
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].NoOrder != rows[j].NoOrder {
			return !rows[i].NoOrder
		}
		return rows[i].OrderRef < rows[j].OrderRef
	})

	return OrderMatrix{Periods: periods, Rows: rows}
}

func orderKey(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	switch ref {
	case "", "nan", "NaN", "None":
		return NoOrder, true
	}
	return ref, false
}

// sortPeriods orders purely numeric periods by value, followed by all
// other labels alphabetically.
func sortPeriods(periods []string) {
	sort.Slice(periods, func(i, j int) bool {
		a, aNum := periodNumber(periods[i])
		b, bNum := periodNumber(periods[j])
		switch {
		case aNum && bNum:
			if a != b {
				return a < b
			}
			return periods[i] < periods[j]
		case aNum != bNum:
			return aNum
		default:
			return periods[i] < periods[j]
		}
	})
}

func periodNumber(s string) (uint64, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}
