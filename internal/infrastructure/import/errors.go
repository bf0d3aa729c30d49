package sheetimport

import (
	"errors"
	"fmt"
	"strings"
)

// Codes reported for an unreadable upload
const (
	ErrCodeImportInvalidFile = "IMPORT_INVALID_FILE"
	ErrCodeImportEmptyFile   = "IMPORT_EMPTY_FILE"
)

// Warning codes. The cell is replaced by its field default and the import
// carries on.
const (
	WarnInvalidNumber = "IMPORT_INVALID_NUMBER"
	WarnInvalidDate   = "IMPORT_INVALID_DATE"
	WarnInvalidBool   = "IMPORT_INVALID_BOOL"
)

var (
	ErrInvalidFile = errors.New("file is not a readable workbook or backup document")
	ErrEmptyFile   = errors.New("file is empty")
)

const maxKeptWarnings = 100

// CellWarning is one cell that could not be coerced. Row is 1-based and
// counts data rows, so the header row is not row 1.
type CellWarning struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (w CellWarning) String() string {
	return fmt.Sprintf("%s[%d].%s: %s (%q)", w.Sheet, w.Row, w.Column, w.Message, w.Value)
}

// Warnings keeps the first few cell warnings of an import and counts the rest.
type Warnings struct {
	kept  []CellWarning
	limit int
	total int
}

func newWarnings(limit int) *Warnings {
	return &Warnings{limit: limit}
}

func (w *Warnings) add(cw CellWarning) {
	w.total++
	if len(w.kept) < w.limit {
		w.kept = append(w.kept, cw)
	}
}

// List returns the kept warnings, never nil so it encodes as [].
func (w *Warnings) List() []CellWarning {
	if w.kept == nil {
		return []CellWarning{}
	}
	return w.kept
}

// Total counts every warning, kept or not
func (w *Warnings) Total() int { return w.total }

// Empty reports whether the import was clean
func (w *Warnings) Empty() bool { return w.total == 0 }

// ByCode counts the kept warnings per code
func (w *Warnings) ByCode() map[string]int {
	out := make(map[string]int, 3)
	for _, cw := range w.kept {
		out[cw.Code]++
	}
	return out
}

func (w *Warnings) String() string {
	if w.Empty() {
		return "clean import"
	}
	lines := make([]string, 0, len(w.kept)+1)
	lines = append(lines, fmt.Sprintf("%d cell warning(s), %d listed", w.total, len(w.kept)))
	for _, cw := range w.kept {
		lines = append(lines, "  "+cw.String())
	}
	return strings.Join(lines, "\n")
}
