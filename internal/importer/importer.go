package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"

	"github.com/farxc/project-cockpit/internal/logger"
	"github.com/farxc/project-cockpit/internal/store"
)

const component = "Importer"

type Importer struct {
	storage  *store.Storage
	log      *logger.Logger
	mappings []Mapping
	encoding encoding.Encoding
	now      func() time.Time
}

type Option func(*Importer)

// WithEncoding sets the single-byte encoding of CSV exports.
func WithEncoding(enc encoding.Encoding) Option {
	return func(im *Importer) { im.encoding = enc }
}

func WithMappings(m []Mapping) Option {
	return func(im *Importer) { im.mappings = m }
}

func New(storage *store.Storage, log *logger.Logger, opts ...Option) *Importer {
	im := &Importer{
		storage:  storage,
		log:      log,
		mappings: DefaultMappings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Mappings returns the file routing table in use.
func (im *Importer) Mappings() []Mapping {
	return im.mappings
}

/*
Run imports every supported file in dir, in file name order. Each file is
read, normalized and swapped into its table before the next one starts. A
file that fails is logged and recorded; the run continues with the rest.
The returned error is reserved for conditions that stop the whole run (an
unreadable directory or a cancelled context).
*/
func (im *Importer) Run(ctx context.Context, dir string) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	report := &Report{RunID: uuid.NewString(), StartedAt: im.now()}
	im.log.Info(component, "Starting import: runID=%s dir=%s files=%d", report.RunID, dir, len(entries))

	loaded := map[string]string{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !Supported(name) {
			im.log.Warn(component, "Unsupported file extension, skipping: file=%s", name)
			report.Files = append(report.Files, FileResult{File: name, Status: store.StatusSkipped, Message: "unsupported extension"})
			continue
		}
		if strings.HasPrefix(name, "~$") {
			report.Files = append(report.Files, FileResult{File: name, Status: store.StatusSkipped, Message: "office lock file"})
			continue
		}

		m, ok := Match(im.mappings, name)
		if !ok {
			im.log.Warn(component, "No mapping for file, skipping: file=%s", name)
			report.Files = append(report.Files, FileResult{File: name, Status: store.StatusSkipped, Err: fmt.Errorf("%w: %s", ErrNoMapping, name)})
			continue
		}

		result := im.importFile(ctx, filepath.Join(dir, name), m)
		if result.Status == store.StatusImported {
			if prev, dup := loaded[m.Table]; dup {
				im.log.Warn(component, "Table replaced by later file: table=%s previous=%s file=%s", m.Table, prev, name)
			}
			loaded[m.Table] = name
		}
		report.Files = append(report.Files, result)
	}

	report.FinishedAt = im.now()

	if err := im.storage.ImportLog.Record(ctx, report.logEntries()); err != nil {
		im.log.Warn(component, "Failed to record import log: runID=%s error=%v", report.RunID, err)
	}

	im.log.Info(component, "Import finished: runID=%s imported=%d failed=%d skipped=%d elapsed=%s",
		report.RunID, report.Count(store.StatusImported), report.Count(store.StatusFailed),
		report.Count(store.StatusSkipped), report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))

	return report, nil
}

func (im *Importer) importFile(ctx context.Context, path string, m Mapping) FileResult {
	name := filepath.Base(path)
	result := FileResult{File: name, Table: m.Table}

	fail := func(stage string, err error) FileResult {
		result.Status = store.StatusFailed
		result.Err = &FileError{File: name, Table: m.Table, Stage: stage, Err: err}
		im.log.Error(component, "Import failed: file=%s table=%s stage=%s error=%v", name, m.Table, stage, err)
		return result
	}

	im.log.Debug(component, "Reading file: file=%s table=%s headerRow=%d", name, m.Table, m.HeaderRow)

	records, err := readRecords(path, im.encoding)
	if err != nil {
		return fail("read", err)
	}

	table, stats, err := buildTable(m, records)
	if err != nil {
		return fail("transform", err)
	}
	if stats.IrregularCodes > 0 {
		im.log.Warn(component, "Object codes not matching the segment rule: file=%s count=%d", name, stats.IrregularCodes)
	}

	if err := im.storage.Tables.Replace(ctx, table); err != nil {
		return fail("load", err)
	}

	result.Status = store.StatusImported
	result.Rows = len(table.Rows)
	im.log.Info(component, "Imported file: file=%s table=%s rows=%d financialColumns=%v",
		name, m.Table, result.Rows, stats.FinancialColumns)
	return result
}

// DropTables removes every canonical table and the import log. It is the
// pre-run reset for server backends, where there is no store file to delete.
func (im *Importer) DropTables(ctx context.Context) error {
	names := append(TableNames(im.mappings), store.ImportLogTable)
	if err := im.storage.Tables.Drop(ctx, names...); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return nil
}
