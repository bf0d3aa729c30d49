package sheetimport

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/snapshot"
)

// BackupFileName returns the export file name for the given day
func BackupFileName(day time.Time) string {
	return "SIM_PRO_BACKUP_" + shared.FormatDate(day) + ".xlsx"
}

// ReadWorkbook locates one sheet per collection and reads its rows.
// The first row of a sheet is its header; blank rows are skipped.
func ReadWorkbook(r io.Reader) (*Source, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	if len(body) == 0 {
		return nil, ErrEmptyFile
	}

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	src := newSource()
	for _, sheet := range Sheets {
		name, ok := MatchSheet(names, sheet.Aliases)
		if !ok {
			continue
		}
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		src.Sheets[sheet.Entity] = name
		if len(rows) < 2 {
			continue
		}
		headers := rows[0]
		for i, values := range rows[1:] {
			row := NewRow(i+1, headers, values)
			if row.IsBlank() {
				continue
			}
			src.Rows[sheet.Entity] = append(src.Rows[sheet.Entity], row)
		}
	}
	return src, nil
}

// WriteWorkbook writes one sheet per collection with canonical headers
func WriteWorkbook(w io.Writer, data snapshot.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Title); err != nil {
				return fmt.Errorf("name sheet %s: %w", sheet.Title, err)
			}
		} else if _, err := f.NewSheet(sheet.Title); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.Title, err)
		}

		if err := writeRow(f, sheet.Title, 1, headerCells(sheet)); err != nil {
			return err
		}
		for j, cells := range sheetRows(sheet.Entity, data) {
			if err := writeRow(f, sheet.Title, j+2, cells); err != nil {
				return err
			}
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func headerCells(sheet Sheet) []any {
	cells := make([]any, len(sheet.Fields))
	for i, h := range sheet.Headers() {
		cells[i] = h
	}
	return cells
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// sheetRows renders records in the column order of the sheet's Fields
func sheetRows(entity snapshot.Entity, data snapshot.Dataset) [][]any {
	var rows [][]any
	switch entity {
	case snapshot.EntitySimType:
		for _, t := range data.SimTypes {
			rows = append(rows, []any{t.ID, t.Name})
		}
	case snapshot.EntitySimPackage:
		for _, p := range data.Packages {
			rows = append(rows, []any{
				p.ID, p.Code, p.Name, p.SimTypeID, p.ImportDate,
				p.Quantity, p.TotalImportPrice.InexactFloat64(), p.DueDate,
			})
		}
	case snapshot.EntitySaleOrder:
		for _, o := range data.Orders {
			rows = append(rows, []any{
				o.ID, o.Code, o.Date, o.CustomerID, o.AgentName, string(o.SaleType),
				o.SimTypeID, o.SimPackageID, o.Quantity, o.SalePrice.InexactFloat64(),
				o.DueDate, o.DueDateChanges, o.Note, o.IsFinished,
			})
		}
	case snapshot.EntityTransaction:
		for _, tx := range data.Transactions {
			rows = append(rows, []any{
				tx.ID, tx.Code, tx.Date, string(tx.Type), tx.Category,
				tx.Amount.InexactFloat64(), string(tx.Method), tx.SaleOrderID, tx.SimPackageID, tx.Note,
			})
		}
	case snapshot.EntityCustomer:
		for _, c := range data.Customers {
			rows = append(rows, []any{c.ID, c.CID, c.Name, c.Phone, c.Email, c.Address, string(c.Type), c.Note})
		}
	case snapshot.EntityDueDateLog:
		for _, l := range data.DueDateLogs {
			rows = append(rows, []any{l.ID, l.OrderID, l.OldDate, l.NewDate, l.Reason, l.UpdatedAt})
		}
	}
	return rows
}
