package importer

import (
	"time"

	"github.com/farxc/project-cockpit/internal/store"
)

// FileResult is the outcome for one file of an import run.
type FileResult struct {
	File    string
	Table   string
	Status  store.ImportStatus
	Rows    int
	Message string
	Err     error
}

type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Files      []FileResult
}

func (r *Report) Count(status store.ImportStatus) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// Tables returns the tables loaded during the run, in load order.
func (r *Report) Tables() []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range r.Files {
		if f.Status == store.StatusImported && !seen[f.Table] {
			seen[f.Table] = true
			out = append(out, f.Table)
		}
	}
	return out
}

func (r *Report) logEntries() []store.ImportLogEntry {
	at := r.FinishedAt.UTC().Format(time.RFC3339Nano)
	entries := make([]store.ImportLogEntry, len(r.Files))
	for i, f := range r.Files {
		msg := f.Message
		if f.Err != nil {
			msg = f.Err.Error()
		}
		entries[i] = store.ImportLogEntry{
			RunID:      r.RunID,
			Seq:        i + 1,
			FileName:   f.File,
			TableName:  f.Table,
			Status:     f.Status,
			RowCount:   f.Rows,
			Message:    msg,
			ImportedAt: at,
		}
	}
	return entries
}
