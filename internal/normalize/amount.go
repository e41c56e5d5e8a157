// Package normalize turns raw spreadsheet cells and headers into their
// canonical stored form.
package normalize

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount converts a raw cell value into a float.
//
// Empty or missing values are 0. Numeric values are used as-is. Strings
// containing a comma are read in German notation ("1.000,50"): periods are
// thousands separators and the comma is the decimal mark. Other strings are
// parsed as plain dot-decimal numbers. Anything unparseable yields 0.
func Amount(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case decimal.Decimal:
		return v.InexactFloat64()
	case string:
		return AmountString(v)
	case *string:
		if v == nil {
			return 0
		}
		return AmountString(*v)
	default:
		return 0
	}
}

// AmountString is Amount for text cells.
func AmountString(s string) float64 {
	d, ok := ParseDecimal(s)
	if !ok {
		return 0
	}
	return d.InexactFloat64()
}

// ParseDecimal applies the same rules as Amount but reports whether the
// text held a number at all.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
