package reconcile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Section selects the table written in CSV format.
type Section string

const (
	SectionElements Section = "elements"
	SectionOrders   Section = "orders"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q (want json, yaml or csv)", s)
}

// Write renders res. JSON and YAML contain the whole result; CSV contains
// the chosen section only.
func Write(w io.Writer, res *Result, format Format, section Section) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		if section == SectionOrders {
			return writeOrdersCSV(w, res.Orders)
		}
		return writeElementsCSV(w, res.Elements)
	}
	return fmt.Errorf("unsupported format %q", format)
}

type elementRecord struct {
	ObjectCode     string `csv:"objekt"`
	Area           string `csv:"bereich"`
	ActualSum      string `csv:"ist"`
	ObligatedSum   string `csv:"obligo"`
	TotalEffort    string `csv:"gesamtaufwand"`
	UtilizationPct string `csv:"auslastung_pct"`
	Classification string `csv:"einstufung"`
}

func writeElementsCSV(w io.Writer, elements []Element) error {
	records := make([]*elementRecord, len(elements))
	for i, el := range elements {
		rec := &elementRecord{
			ObjectCode:     el.ObjectCode,
			Area:           el.Area,
			ActualSum:      formatAmount(el.ActualSum),
			ObligatedSum:   formatAmount(el.ObligatedSum),
			TotalEffort:    formatAmount(el.TotalEffort),
			Classification: string(el.Classification),
		}
		if el.UtilizationPct != nil {
			rec.UtilizationPct = formatAmount(*el.UtilizationPct)
		}
		records[i] = rec
	}
	return gocsv.Marshal(records, w)
}

// The period columns vary per project, so the order matrix is written
// with a plain csv.Writer.
func writeOrdersCSV(w io.Writer, m OrderMatrix) error {
	cw := csv.NewWriter(w)

	header := append([]string{"bestellung", "text"}, m.Periods...)
	header = append(header, "summe_ist", "rest_obligo", "auftragswert")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range m.Rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, row.OrderRef, row.Description)
		for _, p := range m.Periods {
			rec = append(rec, formatAmount(row.Periods[p]))
		}
		rec = append(rec, formatAmount(row.SumActual), formatAmount(row.RemainingObligation), formatAmount(row.OrderValue))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
