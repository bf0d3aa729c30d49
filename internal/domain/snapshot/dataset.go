// Package snapshot holds the account-scoped in-memory view of all records
// and the change events that keep it current.
package snapshot

import (
	"github.com/simpro/backend/internal/domain/catalog"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/inventory"
	"github.com/simpro/backend/internal/domain/partner"
	"github.com/simpro/backend/internal/domain/trade"
)

// Entity names a record collection
type Entity string

const (
	EntitySimType     Entity = "sim_types"
	EntitySimPackage  Entity = "sim_packages"
	EntitySaleOrder   Entity = "sale_orders"
	EntityTransaction Entity = "transactions"
	EntityCustomer    Entity = "customers"
	EntityDueDateLog  Entity = "due_date_logs"
)

// Entities lists every collection, parents before children
var Entities = []Entity{EntitySimType, EntityCustomer, EntitySimPackage, EntitySaleOrder, EntityTransaction, EntityDueDateLog}

// IsValid checks if the entity name is known
func (e Entity) IsValid() bool {
	for _, known := range Entities {
		if e == known {
			return true
		}
	}
	return false
}

// Dataset is the full set of records of one account. It is also the
// document shape of JSON backups.
type Dataset struct {
	SimTypes     []catalog.SimType      `json:"simTypes"`
	Packages     []inventory.SimPackage `json:"packages"`
	Orders       []trade.SaleOrder      `json:"orders"`
	Transactions []finance.Transaction  `json:"transactions"`
	Customers    []partner.Customer     `json:"customers"`
	DueDateLogs  []trade.DueDateLog     `json:"dueDateLogs"`
}

// Counts returns the number of records per collection
func (d *Dataset) Counts() map[Entity]int {
	return map[Entity]int{
		EntitySimType:     len(d.SimTypes),
		EntitySimPackage:  len(d.Packages),
		EntitySaleOrder:   len(d.Orders),
		EntityTransaction: len(d.Transactions),
		EntityCustomer:    len(d.Customers),
		EntityDueDateLog:  len(d.DueDateLogs),
	}
}

// IsEmpty reports whether the dataset has no records at all
func (d *Dataset) IsEmpty() bool {
	for _, n := range d.Counts() {
		if n > 0 {
			return false
		}
	}
	return true
}

// Clone copies every collection so the result shares no backing arrays with d
func (d *Dataset) Clone() Dataset {
	return Dataset{
		SimTypes:     append([]catalog.SimType(nil), d.SimTypes...),
		Packages:     append([]inventory.SimPackage(nil), d.Packages...),
		Orders:       append([]trade.SaleOrder(nil), d.Orders...),
		Transactions: append([]finance.Transaction(nil), d.Transactions...),
		Customers:    append([]partner.Customer(nil), d.Customers...),
		DueDateLogs:  append([]trade.DueDateLog(nil), d.DueDateLogs...),
	}
}
