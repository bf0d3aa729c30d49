package sheetimport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/simpro/backend/internal/domain/catalog"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/inventory"
	"github.com/simpro/backend/internal/domain/partner"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/domain/trade"
)

// ReadJSON decodes a JSON backup document. Records are read as loosely as
// worksheet rows, so keys follow the same aliases and defaults.
func ReadJSON(r io.Reader) (*Source, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyFile
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc map[string]json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	src := newSource()
	for _, sheet := range Sheets {
		raw, ok := lookupKey(doc, sheet)
		if !ok {
			continue
		}
		var records []map[string]any
		recDec := json.NewDecoder(bytes.NewReader(raw))
		recDec.UseNumber()
		if err := recDec.Decode(&records); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, sheet.JSONKey, err)
		}
		src.Sheets[sheet.Entity] = sheet.JSONKey
		for i, rec := range records {
			headers := make([]string, 0, len(rec))
			values := make([]string, 0, len(rec))
			for k, v := range rec {
				headers = append(headers, k)
				values = append(values, cellString(v))
			}
			src.Rows[sheet.Entity] = append(src.Rows[sheet.Entity], NewRow(i+1, headers, values))
		}
	}
	return src, nil
}

func lookupKey(doc map[string]json.RawMessage, sheet Sheet) (json.RawMessage, bool) {
	if raw, ok := doc[sheet.JSONKey]; ok {
		return raw, true
	}
	want := foldKey(sheet.JSONKey)
	for k, raw := range doc {
		if foldKey(k) == want {
			return raw, true
		}
	}
	return nil, false
}

// WriteJSON encodes the dataset as a JSON backup document
func WriteJSON(w io.Writer, data snapshot.Dataset) error {
	out := data.Clone()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nonNil(out)); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// nonNil makes empty collections encode as [] rather than null
func nonNil(d snapshot.Dataset) snapshot.Dataset {
	if d.SimTypes == nil {
		d.SimTypes = []catalog.SimType{}
	}
	if d.Packages == nil {
		d.Packages = []inventory.SimPackage{}
	}
	if d.Orders == nil {
		d.Orders = []trade.SaleOrder{}
	}
	if d.Transactions == nil {
		d.Transactions = []finance.Transaction{}
	}
	if d.Customers == nil {
		d.Customers = []partner.Customer{}
	}
	if d.DueDateLogs == nil {
		d.DueDateLogs = []trade.DueDateLog{}
	}
	return d
}

// cellString renders a decoded JSON value the way a worksheet cell would hold it
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
