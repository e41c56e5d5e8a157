package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/farxc/project-cockpit/internal/normalize"
	"github.com/farxc/project-cockpit/internal/psp"
	"github.com/farxc/project-cockpit/internal/store"
)

const (
	codeColumn    = "objekt"
	projectColumn = "hauptprojekt"
)

// missingValues are read as absent cells, like the spreadsheet tooling the
// exports are usually opened with.
var missingValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

type frameStats struct {
	Rows             int
	FinancialColumns []string
	// Codes where the segment rule and the prefix rule disagree.
	IrregularCodes int
}

// buildTable turns raw sheet records into the canonical table for m.
func buildTable(m Mapping, records [][]string) (*store.Table, *frameStats, error) {
	if len(records) <= m.HeaderRow {
		return nil, nil, fmt.Errorf("%w: row %d of %d", ErrHeaderOutOfRange, m.HeaderRow+1, len(records))
	}

	header := records[m.HeaderRow]
	body := dropBlankRows(records[m.HeaderRow+1:])

	width := len(header)
	for _, row := range body {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, nil, fmt.Errorf("%w: header row %d is empty", ErrHeaderOutOfRange, m.HeaderRow+1)
	}

	names := canonicalHeaders(header, width)
	stats := &frameStats{}

	if len(body) == 0 {
		return emptyTable(m.Table, names, stats), stats, nil
	}

	padded := make([][]string, 0, len(body)+1)
	padded = append(padded, names)
	for _, row := range body {
		padded = append(padded, pad(row, width))
	}

	df := dataframe.LoadRecords(padded,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return nil, nil, fmt.Errorf("failed to load frame: %w", df.Err)
	}

	for _, name := range names {
		if !normalize.IsFinancial(name) {
			continue
		}
		col := df.Col(name)
		values := make([]float64, col.Len())
		for i := range values {
			if e := col.Elem(i); !e.IsNA() {
				values[i] = normalize.AmountString(e.String())
			}
		}
		df = df.Mutate(series.New(values, series.Float, name))
		stats.FinancialColumns = append(stats.FinancialColumns, name)
	}

	if contains(names, codeColumn) {
		col := df.Col(codeColumn)
		projects := make([]string, col.Len())
		for i := range projects {
			e := col.Elem(i)
			if e.IsNA() {
				projects[i] = psp.Unknown
				continue
			}
			code := e.String()
			projects[i] = psp.MainProject(code)
			if !psp.Consistent(code) {
				stats.IrregularCodes++
			}
		}
		df = df.Mutate(series.New(projects, series.String, projectColumn))
	}

	if df.Err != nil {
		return nil, nil, fmt.Errorf("failed to transform frame: %w", df.Err)
	}

	stats.Rows = df.Nrow()
	return frameToTable(m.Table, df), stats, nil
}

func frameToTable(name string, df dataframe.DataFrame) *store.Table {
	cols := df.Names()
	types := df.Types()

	t := &store.Table{Name: name, Columns: make([]store.Column, len(cols))}
	for j, c := range cols {
		t.Columns[j] = store.Column{Name: c, Type: store.TextColumn}
		if types[j] == series.Float {
			t.Columns[j].Type = store.RealColumn
		}
	}

	t.Rows = make([][]any, df.Nrow())
	for i := range t.Rows {
		row := make([]any, len(cols))
		for j := range cols {
			e := df.Elem(i, j)
			switch {
			case types[j] == series.Float:
				row[j] = normalize.Amount(e.Float())
			case e.IsNA():
				row[j] = nil
			default:
				row[j] = e.String()
			}
		}
		t.Rows[i] = row
	}
	return t
}

func emptyTable(name string, names []string, stats *frameStats) *store.Table {
	t := &store.Table{Name: name}
	for _, n := range names {
		c := store.Column{Name: n, Type: store.TextColumn}
		if normalize.IsFinancial(n) {
			c.Type = store.RealColumn
			stats.FinancialColumns = append(stats.FinancialColumns, n)
		}
		t.Columns = append(t.Columns, c)
	}
	if contains(names, codeColumn) && !contains(names, projectColumn) {
		t.Columns = append(t.Columns, store.Column{Name: projectColumn, Type: store.TextColumn})
	}
	return t
}

// canonicalHeaders canonicalizes every header cell. Blank headers become
// "unnamed:_<index>" and repeated names get a numeric suffix.
func canonicalHeaders(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		raw := ""
		if i < len(header) {
			raw = header[i]
		}
		name := normalize.ColumnName(raw)
		if name == "" {
			name = normalize.ColumnName("Unnamed: " + strconv.Itoa(i))
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = name + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func pad(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
