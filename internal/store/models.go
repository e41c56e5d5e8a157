package store

import "strings"

// ColumnType is the storage type of a canonical column.
type ColumnType int

const (
	TextColumn ColumnType = iota
	RealColumn
)

func (c ColumnType) sqlType() string {
	if c == RealColumn {
		return "DOUBLE PRECISION"
	}
	return "TEXT"
}

// RowColumn holds the 1-based source row of every imported record.
const RowColumn = "import_row"

type Column struct {
	Name string
	Type ColumnType
}

// Table is a fully materialized canonical table ready to be loaded.
// Text cells are string or nil, real cells are float64.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

type TableSchema struct {
	Name    string
	Columns []string
}

func (s *TableSchema) Has(column string) bool {
	for _, c := range s.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// PostingSource names the columns of an actuals or obligations table.
// Empty optional fields are read as blank.
type PostingSource struct {
	Table       string
	Code        string
	Project     string
	Order       string
	Description string
	Period      string
	Amount      string
}

type Posting struct {
	ObjectCode  string  `db:"object_code" json:"object_code"`
	OrderRef    string  `db:"order_ref" json:"order_ref"`
	Description string  `db:"description" json:"description"`
	Period      string  `db:"period" json:"period"`
	Amount      float64 `db:"amount" json:"amount"`
}

// PostingSet is the result of a posting query. Missing lists the requested
// columns the table does not have; TableMissing is set when the table
// itself is absent.
type PostingSet struct {
	Rows         []Posting
	Missing      []string
	TableMissing bool
}

// BudgetSource names the columns of the contract budget table. Match lists
// the columns searched for the project key as a substring.
type BudgetSource struct {
	Table       string
	Amount      string
	Description string
	Match       []string
}

type BudgetLine struct {
	Element     string  `db:"element" json:"element"`
	Description string  `db:"description" json:"description"`
	Amount      float64 `db:"amount" json:"amount"`
}

type BudgetSet struct {
	Rows         []BudgetLine
	Missing      []string
	TableMissing bool
}

type ImportStatus string

const (
	StatusImported ImportStatus = "imported"
	StatusFailed   ImportStatus = "failed"
	StatusSkipped  ImportStatus = "skipped"
)

type ImportLogEntry struct {
	RunID      string       `db:"run_id" json:"run_id"`
	Seq        int          `db:"seq" json:"seq"`
	FileName   string       `db:"file_name" json:"file_name"`
	TableName  string       `db:"table_name" json:"table_name,omitempty"`
	Status     ImportStatus `db:"status" json:"status"`
	RowCount   int          `db:"row_count" json:"row_count"`
	Message    string       `db:"message" json:"message,omitempty"`
	ImportedAt string       `db:"imported_at" json:"imported_at"`
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
