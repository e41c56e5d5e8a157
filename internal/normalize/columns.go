package normalize

import "strings"

// FinancialKeywords mark columns whose values are amounts.
var FinancialKeywords = []string{"wert", "betrag", "kosten", "obligo", "budget", "auftragswert"}

// ColumnName canonicalizes a header: trim, spaces to underscores, drop
// periods, lowercase.
func ColumnName(header string) string {
	name := strings.TrimSpace(header)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ".", "")
	return strings.ToLower(name)
}

// IsFinancial reports whether a canonical column name holds amounts.
func IsFinancial(column string) bool {
	for _, kw := range FinancialKeywords {
		if strings.Contains(column, kw) {
			return true
		}
	}
	return false
}
