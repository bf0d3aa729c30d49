package sheetimport

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simpro/backend/internal/domain/catalog"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/inventory"
	"github.com/simpro/backend/internal/domain/partner"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/domain/trade"
)

// Defaults for cells that are missing or unreadable
const (
	DefaultSimTypeName  = "Không tên"
	DefaultAgentName    = "Khách lẻ"
	DefaultCustomerName = "Khách chưa tên"
)

// Source is a decoded file before it is turned into records: the rows of
// each collection that could be located.
type Source struct {
	// Sheets maps a collection to the sheet or JSON key it was read from
	Sheets map[snapshot.Entity]string
	Rows   map[snapshot.Entity][]Row
}

func newSource() *Source {
	return &Source{
		Sheets: make(map[snapshot.Entity]string),
		Rows:   make(map[snapshot.Entity][]Row),
	}
}

// Result is a decoded and re-keyed dataset with the warnings raised on the way
type Result struct {
	Data     snapshot.Dataset
	Sheets   map[snapshot.Entity]string
	Remapped int
	Warnings *Warnings
}

// Build turns rows into records. Missing cells take their defaults, today
// fills missing dates, and all identifiers go through one Rekeyer.
func Build(src *Source, today string) *Result {
	res := &Result{
		Sheets:   src.Sheets,
		Warnings: newWarnings(maxKeptWarnings),
	}

	for _, row := range src.Rows[snapshot.EntitySimType] {
		r := res.reader(simTypeSheet, src, row)
		res.Data.SimTypes = append(res.Data.SimTypes, catalog.SimType{
			BaseEntity: shared.BaseEntity{ID: r.id()},
			Name:       r.str(keyName, DefaultSimTypeName),
		})
	}

	for _, row := range src.Rows[snapshot.EntitySimPackage] {
		r := res.reader(packageSheet, src, row)
		id := r.id()
		res.Data.Packages = append(res.Data.Packages, inventory.SimPackage{
			BaseEntity:       shared.BaseEntity{ID: id},
			Code:             r.ref(keyCode, "BATCH-"+id),
			Name:             r.str(keyName, ""),
			SimTypeID:        r.ref(keySimTp, ""),
			ImportDate:       r.date("importDate", today),
			Quantity:         r.integer(keyQty, 0),
			TotalImportPrice: r.decimal("totalImportPrice"),
			DueDate:          r.date("dueDate", ""),
		})
	}

	for _, row := range src.Rows[snapshot.EntitySaleOrder] {
		r := res.reader(orderSheet, src, row)
		id := r.id()
		saleType := trade.SaleTypeRetail
		if strings.EqualFold(r.ref("saleType", ""), string(trade.SaleTypeWholesale)) {
			saleType = trade.SaleTypeWholesale
		}
		res.Data.Orders = append(res.Data.Orders, trade.SaleOrder{
			BaseEntity:     shared.BaseEntity{ID: id},
			Code:           r.ref(keyCode, "SO-"+id),
			Date:           r.date(keyDate, today),
			CustomerID:     r.ref("customerId", ""),
			AgentName:      r.str("agentName", DefaultAgentName),
			SaleType:       saleType,
			SimTypeID:      r.ref(keySimTp, ""),
			SimPackageID:   r.ref(keySimPk, ""),
			Quantity:       r.integer(keyQty, 1),
			SalePrice:      r.decimal("salePrice"),
			DueDate:        r.date("dueDate", ""),
			DueDateChanges: int(r.integer("dueDateChanges", 0)),
			Note:           r.str(keyNote, ""),
			IsFinished:     r.boolean("isFinished"),
		})
	}

	for _, row := range src.Rows[snapshot.EntityTransaction] {
		r := res.reader(transactionSheet, src, row)
		id := r.id()
		txType := finance.TransactionTypeIn
		if strings.EqualFold(r.ref(keyType, ""), string(finance.TransactionTypeOut)) {
			txType = finance.TransactionTypeOut
		}
		method := finance.PaymentMethod(strings.ToUpper(r.ref("method", "")))
		if !method.IsValid() {
			method = finance.PaymentMethodTransfer
		}
		res.Data.Transactions = append(res.Data.Transactions, finance.Transaction{
			BaseEntity:   shared.BaseEntity{ID: id},
			Code:         r.ref(keyCode, "TX-"+id),
			Date:         r.date(keyDate, today),
			Type:         txType,
			Category:     r.str("category", ""),
			Amount:       r.decimal("amount"),
			Method:       method,
			SaleOrderID:  r.ref("saleOrderId", ""),
			SimPackageID: r.ref(keySimPk, ""),
			Note:         r.str(keyNote, ""),
		})
	}

	for _, row := range src.Rows[snapshot.EntityCustomer] {
		r := res.reader(customerSheet, src, row)
		id := r.id()
		customerType := partner.CustomerTypeRetail
		if strings.EqualFold(r.ref(keyType, ""), string(partner.CustomerTypeWholesale)) {
			customerType = partner.CustomerTypeWholesale
		}
		res.Data.Customers = append(res.Data.Customers, partner.Customer{
			BaseEntity: shared.BaseEntity{ID: id},
			CID:        r.ref("cid", "KH-"+id),
			Name:       r.str(keyName, DefaultCustomerName),
			Phone:      r.str("phone", ""),
			Email:      r.str("email", ""),
			Address:    r.str("address", ""),
			Type:       customerType,
			Note:       r.str(keyNote, ""),
		})
	}

	for _, row := range src.Rows[snapshot.EntityDueDateLog] {
		r := res.reader(dueDateLogSheet, src, row)
		res.Data.DueDateLogs = append(res.Data.DueDateLogs, trade.DueDateLog{
			BaseEntity: shared.BaseEntity{ID: r.id()},
			OrderID:    r.ref("orderId", ""),
			OldDate:    r.date("oldDate", ""),
			NewDate:    r.date("newDate", ""),
			Reason:     r.str("reason", ""),
			UpdatedAt:  r.ref("updatedAt", ""),
		})
	}

	rekeyer := NewRekeyer()
	rekeyer.Apply(&res.Data)
	res.Remapped = rekeyer.Remapped()
	return res
}

func (res *Result) reader(sheet Sheet, src *Source, row Row) fieldReader {
	name := src.Sheets[sheet.Entity]
	if name == "" {
		name = sheet.Title
	}
	return fieldReader{sheet: sheet, sheetName: name, row: row, warnings: res.Warnings}
}

// fieldReader resolves the canonical fields of one row
type fieldReader struct {
	sheet     Sheet
	sheetName string
	row       Row
	warnings  *Warnings
}

func (r fieldReader) raw(key string) (string, bool) {
	f, ok := r.sheet.Field(key)
	if !ok {
		return "", false
	}
	return r.row.Lookup(f.Aliases)
}

func (r fieldReader) warn(key, code, message, value string) {
	r.warnings.add(CellWarning{
		Sheet:   r.sheetName,
		Row:     r.row.Index,
		Column:  key,
		Code:    code,
		Message: message,
		Value:   value,
	})
}

func (r fieldReader) id() string {
	if v, ok := r.raw(keyID); ok {
		return strings.TrimSpace(v)
	}
	return uuid.NewString()
}

// str returns free text exactly as the cell holds it
func (r fieldReader) str(key, def string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return def
}

// ref reads a code, reference or enum cell, where surrounding spaces are noise
func (r fieldReader) ref(key, def string) string {
	if v, ok := r.raw(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func (r fieldReader) decimal(key string) decimal.Decimal {
	v, ok := r.raw(key)
	if !ok {
		return decimal.Zero
	}
	d, err := ParseDecimal(v)
	if err != nil {
		r.warn(key, WarnInvalidNumber, "expected a number", v)
		return decimal.Zero
	}
	return d
}

func (r fieldReader) integer(key string, def int64) int64 {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	n, err := ParseInt(v)
	if err != nil {
		r.warn(key, WarnInvalidNumber, "expected a whole number", v)
		return def
	}
	return n
}

func (r fieldReader) date(key, def string) string {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	d, err := ParseDate(v)
	if err != nil {
		r.warn(key, WarnInvalidDate, "expected a date such as 2024-05-10 or 10/05/2024", v)
		return def
	}
	return d
}

func (r fieldReader) boolean(key string) bool {
	v, ok := r.raw(key)
	if !ok {
		return false
	}
	b, err := ParseBool(v)
	if err != nil {
		r.warn(key, WarnInvalidBool, "expected yes/no", v)
		return false
	}
	return b
}
