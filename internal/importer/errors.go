package importer

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrHeaderOutOfRange  = errors.New("header row beyond end of sheet")
	ErrNoMapping         = errors.New("no mapping for file")
)

// FileError describes why a single input file could not be loaded.
type FileError struct {
	File  string
	Table string
	Stage string
	Err   error
}

func (e *FileError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("%s: %s: %v", e.File, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s -> %s: %s: %v", e.File, e.Table, e.Stage, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
