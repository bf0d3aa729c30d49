package sheetimport

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/simpro/backend/internal/domain/shared"
)

var (
	errNotNumber = errors.New("not a number")
	errNotDate   = errors.New("not a date")
	errNotBool   = errors.New("not a boolean")
)

// Excel serials before 1900-03-01 hit the leap-year bug; anything past
// year 9999 is noise.
const (
	minExcelSerial = 61
	maxExcelSerial = 2958465
)

var numberCleaner = strings.NewReplacer(",", "", " ", "", "\u00a0", "")

// ParseDecimal parses a money or quantity cell. Thousand separators written
// as commas or spaces are ignored.
func ParseDecimal(s string) (decimal.Decimal, error) {
	cleaned := numberCleaner.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, errNotNumber
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, errNotNumber
	}
	return d, nil
}

// ParseInt parses a count, truncating any fractional part
func ParseInt(s string) (int64, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return 0, err
	}
	return d.IntPart(), nil
}

var dateLayouts = []string{
	shared.DateLayout,
	"02/01/2006",
	"2/1/2006",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate normalises a date cell to YYYY-MM-DD. Accepted inputs are Excel
// serial numbers, ISO dates, DD/MM/YYYY and RFC3339 timestamps.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errNotDate
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < minExcelSerial || serial > maxExcelSerial {
			return "", errNotDate
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return "", errNotDate
		}
		return shared.FormatDate(t), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return shared.FormatDate(t), nil
		}
	}
	return "", errNotDate
}

// ParseBool reads a paid or finished flag
func ParseBool(s string) (bool, error) {
	switch foldKey(s) {
	case "true", "1", "yes", "x", "đã thanh toán":
		return true, nil
	case "", "false", "0", "no", "chưa thanh toán":
		return false, nil
	}
	return false, errNotBool
}
