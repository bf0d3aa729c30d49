package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/report"
	"github.com/simpro/backend/internal/domain/shared"
)

// ErrReloadRequired is returned by Apply for events that cannot be merged
// record by record and need a full reload from the store.
var ErrReloadRequired = errors.New("snapshot: full reload required")

// Snapshot is the latest locally known state of one account. It is a plain
// value: the aggregators read it, and only Apply changes it.
type Snapshot struct {
	AccountID uuid.UUID
	Data      Dataset
	LoadedAt  time.Time
}

// New wraps a dataset loaded from the store
func New(accountID uuid.UUID, data Dataset, loadedAt time.Time) *Snapshot {
	return &Snapshot{AccountID: accountID, Data: data, LoadedAt: loadedAt}
}

// Clone returns an independent copy
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{AccountID: s.AccountID, Data: s.Data.Clone(), LoadedAt: s.LoadedAt}
}

// Derived holds the output of the three chained aggregators
type Derived struct {
	Inventory []report.InventoryProductStat `json:"inventory"`
	Orders    []report.SaleOrderWithStats   `json:"orders"`
	Customers []report.CustomerWithStats    `json:"customers"`
}

// Derive runs the inventory, order and customer aggregators over the snapshot.
// now is the current instant in the business time zone.
func (s *Snapshot) Derive(now time.Time) Derived {
	d := &s.Data
	inv := report.BuildInventoryStats(d.SimTypes, d.Packages, d.Orders, d.Transactions)
	orders := report.BuildOrderStats(d.Orders, inv, d.Transactions, d.Customers, now)
	customers := report.BuildCustomerStats(d.Customers, orders)
	return Derived{Inventory: inv, Orders: orders, Customers: customers}
}

// Apply merges a change into the snapshot and reports whether anything changed.
// An insert for an id that is already present is a no-op, because the local
// write that produced it may have been applied before the notification arrived.
func (s *Snapshot) Apply(c Change) (bool, error) {
	if c.AccountID != s.AccountID {
		return false, fmt.Errorf("change for account %s applied to snapshot of %s", c.AccountID, s.AccountID)
	}
	if c.Op == OpReload {
		return false, ErrReloadRequired
	}

	d := &s.Data
	var (
		changed bool
		err     error
	)
	switch c.Entity {
	case EntitySimType:
		d.SimTypes, changed, err = merge(d.SimTypes, c)
	case EntitySimPackage:
		d.Packages, changed, err = merge(d.Packages, c)
	case EntitySaleOrder:
		d.Orders, changed, err = merge(d.Orders, c)
	case EntityTransaction:
		d.Transactions, changed, err = merge(d.Transactions, c)
	case EntityCustomer:
		d.Customers, changed, err = merge(d.Customers, c)
	case EntityDueDateLog:
		d.DueDateLogs, changed, err = merge(d.DueDateLogs, c)
	default:
		return false, fmt.Errorf("unknown entity %q", c.Entity)
	}
	return changed, err
}

type record[T any] interface {
	*T
	shared.Entity
}

func merge[T any, PT record[T]](items []T, c Change) ([]T, bool, error) {
	index := -1
	for i := range items {
		if PT(&items[i]).GetID() == c.ID {
			index = i
			break
		}
	}

	switch c.Op {
	case OpDelete:
		if index < 0 {
			return items, false, nil
		}
		out := make([]T, 0, len(items)-1)
		out = append(out, items[:index]...)
		return append(out, items[index+1:]...), true, nil

	case OpInsert, OpUpdate:
		if c.Op == OpInsert && index >= 0 {
			return items, false, nil
		}
		var rec T
		if err := json.Unmarshal(c.Record, &rec); err != nil {
			return items, false, fmt.Errorf("decode %s record %s: %w", c.Entity, c.ID, err)
		}
		// Records travel without the account id
		PT(&rec).SetAccountID(c.AccountID)
		if PT(&rec).GetID() == "" {
			return items, false, fmt.Errorf("%s record without id", c.Entity)
		}
		out := append([]T(nil), items...)
		if index >= 0 {
			out[index] = rec
		} else {
			out = append(out, rec)
		}
		return out, true, nil
	}
	return items, false, fmt.Errorf("unknown op %q", c.Op)
}
