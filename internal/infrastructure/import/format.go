package sheetimport

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format is a backup file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// DetectFormat picks the format from the content, falling back to the file extension
func DetectFormat(fileName string, head []byte) (Format, bool) {
	trimmed := bytes.TrimLeft(head, " \t\r\n\xef\xbb\xbf")
	switch {
	case bytes.HasPrefix(trimmed, []byte("PK")):
		return FormatXLSX, true
	case bytes.HasPrefix(trimmed, []byte("{")):
		return FormatJSON, true
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx":
		return FormatXLSX, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Read detects the format of a backup file and reads its rows
func Read(fileName string, r io.Reader) (*Source, Format, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, "", ErrEmptyFile
	}
	format, ok := DetectFormat(fileName, body)
	if !ok {
		return nil, "", ErrInvalidFile
	}
	var src *Source
	if format == FormatJSON {
		src, err = ReadJSON(bytes.NewReader(body))
	} else {
		src, err = ReadWorkbook(bytes.NewReader(body))
	}
	return src, format, err
}
