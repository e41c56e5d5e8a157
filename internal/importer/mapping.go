package importer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Mapping routes files whose name contains Pattern to a canonical table.
// HeaderRow is the zero-based row holding the column headers.
type Mapping struct {
	Pattern   string
	Table     string
	HeaderRow int
}

// DefaultMappings lists the known export layouts. Order matters: a file is
// routed to the first pattern it contains.
var DefaultMappings = []Mapping{
	{Pattern: "CJI3", Table: "ist_kosten"},
	{Pattern: "CJI5", Table: "obligo_cji5"},
	{Pattern: "CNB1", Table: "obligo_banf"},
	{Pattern: "CNB2", Table: "obligo_bestell"},
	{Pattern: "LV-Übersicht", Table: "vertraege_uebersicht", HeaderRow: 1},
	{Pattern: "LV_Kontierung_Aufwand", Table: "vertraege_aufwand"},
	{Pattern: "LV_Kontierung_Projekt", Table: "vertraege_projekt"},
	{Pattern: "CON_per", Table: "journal_con"},
	{Pattern: "SOBJ_per", Table: "journal_sobj"},
	{Pattern: "Plausi-Check", Table: "plausi_ref", HeaderRow: 7},
}

// Match returns the first mapping whose pattern occurs in name, ignoring
// case and Unicode normalization form.
func Match(mappings []Mapping, name string) (Mapping, bool) {
	folded := fold(name)
	for _, m := range mappings {
		if strings.Contains(folded, fold(m.Pattern)) {
			return m, true
		}
	}
	return Mapping{}, false
}

// TableNames returns the distinct destination tables of mappings.
func TableNames(mappings []Mapping) []string {
	seen := make(map[string]bool, len(mappings))
	names := make([]string, 0, len(mappings))
	for _, m := range mappings {
		if !seen[m.Table] {
			seen[m.Table] = true
			names = append(names, m.Table)
		}
	}
	return names
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
