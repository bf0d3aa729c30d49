package sheetimport

import (
	"github.com/google/uuid"

	"github.com/simpro/backend/internal/domain/snapshot"
)

// Rekeyer maps imported identifiers to UUIDs. Canonical UUIDs are kept;
// every other non-empty identifier is replaced by a fresh UUID, the same
// one wherever the identifier appears. Use one Rekeyer per import.
type Rekeyer struct {
	ids map[string]string
}

// NewRekeyer creates an empty Rekeyer
func NewRekeyer() *Rekeyer {
	return &Rekeyer{ids: make(map[string]string)}
}

// Key returns the UUID for an imported identifier. Empty stays empty.
func (r *Rekeyer) Key(id string) string {
	if id == "" {
		return ""
	}
	if len(id) == 36 {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	if mapped, ok := r.ids[id]; ok {
		return mapped
	}
	mapped := uuid.NewString()
	r.ids[id] = mapped
	return mapped
}

// Remapped returns how many distinct identifiers were replaced
func (r *Rekeyer) Remapped() int {
	return len(r.ids)
}

// Apply rewrites every id and reference in the dataset in place
func (r *Rekeyer) Apply(data *snapshot.Dataset) {
	for i := range data.SimTypes {
		t := &data.SimTypes[i]
		t.ID = r.Key(t.ID)
	}
	for i := range data.Packages {
		p := &data.Packages[i]
		p.ID = r.Key(p.ID)
		p.SimTypeID = r.Key(p.SimTypeID)
	}
	for i := range data.Orders {
		o := &data.Orders[i]
		o.ID = r.Key(o.ID)
		o.CustomerID = r.Key(o.CustomerID)
		o.SimTypeID = r.Key(o.SimTypeID)
		o.SimPackageID = r.Key(o.SimPackageID)
	}
	for i := range data.Transactions {
		tx := &data.Transactions[i]
		tx.ID = r.Key(tx.ID)
		tx.SaleOrderID = r.Key(tx.SaleOrderID)
		tx.SimPackageID = r.Key(tx.SimPackageID)
	}
	for i := range data.Customers {
		c := &data.Customers[i]
		c.ID = r.Key(c.ID)
	}
	for i := range data.DueDateLogs {
		l := &data.DueDateLogs[i]
		l.ID = r.Key(l.ID)
		l.OrderID = r.Key(l.OrderID)
	}
}
