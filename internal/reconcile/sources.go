package reconcile

import (
	"fmt"

	"github.com/farxc/project-cockpit/internal/store"
)

// Sources names the tables and columns the engine reads.
type Sources struct {
	Actuals     store.PostingSource
	Obligations store.PostingSource
	Budget      store.BudgetSource
}

// ObligationTables are the obligation exports that share the CJI5 layout.
var ObligationTables = []string{"obligo_cji5", "obligo_banf", "obligo_bestell"}

func DefaultSources() Sources {
	return Sources{
		Actuals: store.PostingSource{
			Table:       "ist_kosten",
			Code:        "objekt",
			Project:     "hauptprojekt",
			Order:       "einkaufsbeleg",
			Description: "bezeichnung",
			Period:      "periode",
			Amount:      "wert/bwähr",
		},
		Obligations: obligationSource("obligo_cji5"),
		Budget: store.BudgetSource{
			Table:       "vertraege_uebersicht",
			Amount:      "betrag",
			Description: "bezeichnung",
			Match:       []string{"planungelement", "projektnummer"},
		},
	}
}

// WithObligations returns a copy of s reading obligations from table, which
// must be one of ObligationTables.
func (s Sources) WithObligations(table string) (Sources, error) {
	for _, t := range ObligationTables {
		if t == table {
			s.Obligations = obligationSource(table)
			return s, nil
		}
	}
	return s, fmt.Errorf("unknown obligations table %q", table)
}

func obligationSource(table string) store.PostingSource {
	return store.PostingSource{
		Table:       table,
		Code:        "objekt",
		Project:     "hauptprojekt",
		Order:       "nr_referenzbeleg",
		Description: "bezeichnung",
		Amount:      "wert/bwähr",
	}
}
