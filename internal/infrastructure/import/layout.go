// Package sheetimport reads and writes account backups as Excel workbooks
// or JSON documents. Column and sheet names are matched loosely so that
// hand-edited and older exports still restore.
package sheetimport

import "github.com/simpro/backend/internal/domain/snapshot"

// Field is one column of a sheet. Key is the canonical header written on
// export; Aliases are tried in order on import.
type Field struct {
	Key     string
	Aliases []string
}

// Sheet describes how one collection is laid out in a workbook
type Sheet struct {
	Entity  snapshot.Entity
	Title   string
	JSONKey string
	Aliases []string
	Fields  []Field
}

// Field returns the column with the given canonical key
func (s Sheet) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Headers returns the canonical column names in export order
func (s Sheet) Headers() []string {
	headers := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		headers[i] = f.Key
	}
	return headers
}

func field(key string, aliases ...string) Field {
	return Field{Key: key, Aliases: append([]string{key}, aliases...)}
}

// Canonical field keys shared by several sheets
const (
	keyID    = "id"
	keyCode  = "code"
	keyName  = "name"
	keyDate  = "date"
	keyType  = "type"
	keyNote  = "note"
	keyQty   = "quantity"
	keySimTp = "simTypeId"
	keySimPk = "simPackageId"
)

var simTypeSheet = Sheet{
	Entity:  snapshot.EntitySimType,
	Title:   "SimTypes",
	JSONKey: "simTypes",
	Aliases: []string{"SimTypes", "LoaiSim", "Sản phẩm"},
	Fields: []Field{
		field(keyID, "ID", "id_loai"),
		field(keyName, "Name", "tên", "Tên Loại"),
	},
}

var packageSheet = Sheet{
	Entity:  snapshot.EntitySimPackage,
	Title:   "Inventory",
	JSONKey: "packages",
	Aliases: []string{"Inventory", "Packages", "Kho", "Nhập hàng"},
	Fields: []Field{
		field(keyID, "ID"),
		field(keyCode, "Code", "Mã Lô"),
		field(keyName, "Name", "Tên sản phẩm"),
		field(keySimTp, "SimTypeID", "loai_id"),
		field("importDate", "ImportDate", "ngày nhập"),
		field(keyQty, "Quantity", "số lượng", "SL"),
		field("totalImportPrice", "TotalImportPrice", "tổng tiền", "Giá nhập"),
		field("dueDate", "DueDate", "Hạn trả"),
	},
}

var orderSheet = Sheet{
	Entity:  snapshot.EntitySaleOrder,
	Title:   "Orders",
	JSONKey: "orders",
	Aliases: []string{"Orders", "SaleOrders", "Đơn hàng", "Bán hàng"},
	Fields: []Field{
		field(keyID, "ID"),
		field(keyCode, "Code", "Mã đơn"),
		field(keyDate, "Date", "ngày bán"),
		field("customerId", "CustomerID"),
		field("agentName", "AgentName", "Khách hàng", "tên khách"),
		field("saleType", "SaleType"),
		field(keySimTp, "SimTypeID", "Sản phẩm ID"),
		field(keySimPk, "SimPackageID"),
		field(keyQty, "Quantity", "SL"),
		field("salePrice", "SalePrice", "Giá bán"),
		field("dueDate", "DueDate", "Hạn trả"),
		field("dueDateChanges", "Số lần gia hạn"),
		field(keyNote, "Ghi chú"),
		field("isFinished", "Đã thanh toán", "Trạng thái"),
	},
}

var transactionSheet = Sheet{
	Entity:  snapshot.EntityTransaction,
	Title:   "Transactions",
	JSONKey: "transactions",
	Aliases: []string{"Transactions", "CashFlow", "Sổ quỹ", "Giao dịch"},
	Fields: []Field{
		field(keyID, "ID"),
		field(keyCode, "Code", "Mã GD"),
		field(keyDate, "Date", "Ngày"),
		field(keyType, "Type"),
		field("category", "Category", "Danh mục"),
		field("amount", "Amount", "Số tiền"),
		field("method", "Method"),
		field("saleOrderId", "SaleOrderID"),
		field(keySimPk, "SimPackageID"),
		field(keyNote, "Ghi chú"),
	},
}

var customerSheet = Sheet{
	Entity:  snapshot.EntityCustomer,
	Title:   "Customers",
	JSONKey: "customers",
	Aliases: []string{"Customers", "CRM", "Khách hàng", "Đại lý"},
	Fields: []Field{
		field(keyID, "ID"),
		field("cid", "CID", "Mã KH"),
		field(keyName, "Name", "Họ tên"),
		field("phone", "Phone", "SĐT"),
		field("email", "Email"),
		field("address", "Địa chỉ"),
		field(keyType, "Type"),
		field(keyNote, "Ghi chú"),
	},
}

var dueDateLogSheet = Sheet{
	Entity:  snapshot.EntityDueDateLog,
	Title:   "HistoryLogs",
	JSONKey: "dueDateLogs",
	Aliases: []string{"HistoryLogs", "Logs", "Lịch sử gia hạn"},
	Fields: []Field{
		field(keyID, "ID"),
		field("orderId", "Mã đơn"),
		field("oldDate", "Hạn cũ"),
		field("newDate", "Hạn mới"),
		field("reason", "Lý do"),
		field("updatedAt", "Ngày tạo"),
	},
}

// Sheets lists every sheet in export order
var Sheets = []Sheet{simTypeSheet, packageSheet, orderSheet, transactionSheet, customerSheet, dueDateLogSheet}
