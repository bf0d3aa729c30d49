package sheetimport

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// foldKey normalises a header or sheet name for case-insensitive matching.
// Vietnamese text arrives both precomposed and decomposed, so NFC comes first.
func foldKey(s string) string {
	return folder.String(norm.NFC.String(strings.TrimSpace(s)))
}

// Row is one data row keyed by its header cells
type Row struct {
	// Index is the 1-based position in the source, header excluded
	Index  int
	cells  map[string]string
	folded map[string]string
}

// NewRow pairs headers with values. Missing trailing values are treated as
// empty. Values are kept as written; a cell holding only whitespace counts
// as empty.
func NewRow(index int, headers, values []string) Row {
	r := Row{
		Index:  index,
		cells:  make(map[string]string, len(headers)),
		folded: make(map[string]string, len(headers)),
	}
	for i, h := range headers {
		if h == "" {
			continue
		}
		v := ""
		if i < len(values) {
			v = values[i]
		}
		r.set(h, v)
	}
	return r
}

func (r Row) set(header, value string) {
	header = norm.NFC.String(strings.TrimSpace(header))
	if _, exists := r.cells[header]; !exists {
		r.cells[header] = value
	}
	key := foldKey(header)
	if existing, exists := r.folded[key]; !exists || isEmpty(existing) {
		r.folded[key] = value
	}
}

// IsBlank reports whether every cell is empty
func (r Row) IsBlank() bool {
	for _, v := range r.cells {
		if !isEmpty(v) {
			return false
		}
	}
	return true
}

// Lookup returns the first non-empty cell among the aliases. Each alias is
// tried as an exact header first and then case-folded.
func (r Row) Lookup(aliases []string) (string, bool) {
	for _, alias := range aliases {
		if v := r.cells[norm.NFC.String(alias)]; !isEmpty(v) {
			return v, true
		}
		if v := r.folded[foldKey(alias)]; !isEmpty(v) {
			return v, true
		}
	}
	return "", false
}

func isEmpty(v string) bool {
	return strings.TrimSpace(v) == ""
}

// MatchSheet returns the first name containing any alias after folding
func MatchSheet(names []string, aliases []string) (string, bool) {
	for _, name := range names {
		folded := foldKey(name)
		for _, alias := range aliases {
			if strings.Contains(folded, foldKey(alias)) {
				return name, true
			}
		}
	}
	return "", false
}
