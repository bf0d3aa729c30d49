package partner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	appsync "github.com/simpro/backend/internal/application/sync"
	"github.com/simpro/backend/internal/domain/partner"
	"github.com/simpro/backend/internal/domain/report"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/snapshot"
)

// ErrCustomerHasDebt is returned when deleting a customer who still owes money
var ErrCustomerHasDebt = shared.NewDomainError("CUSTOMER_HAS_DEBT", "Customer still has outstanding debt")

// SnapshotSource hands out the current snapshot of an account
type SnapshotSource interface {
	Snapshot(ctx context.Context, accountID uuid.UUID) (*snapshot.Snapshot, error)
}

// CustomerService handles customer records
type CustomerService struct {
	repo      partner.CustomerRepository
	snapshots SnapshotSource
	notifier  *appsync.Notifier
	loc       *time.Location
}

// NewCustomerService creates a new CustomerService. loc decides what "today"
// is when the outstanding debt of a customer is checked.
func NewCustomerService(repo partner.CustomerRepository, snapshots SnapshotSource, notifier *appsync.Notifier, loc *time.Location) *CustomerService {
	if loc == nil {
		loc = time.UTC
	}
	return &CustomerService{repo: repo, snapshots: snapshots, notifier: notifier, loc: loc}
}

// List returns every customer of the account
func (s *CustomerService) List(ctx context.Context, accountID uuid.UUID) ([]partner.Customer, error) {
	return s.repo.FindAll(ctx, accountID)
}

// Create adds a customer with a generated CID
func (s *CustomerService) Create(ctx context.Context, accountID uuid.UUID, req CustomerRequest) (*partner.Customer, error) {
	customer, err := partner.NewCustomer(accountID, details(req))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	s.notifier.Inserted(ctx, accountID, snapshot.EntityCustomer, customer.ID, customer)
	return customer, nil
}

// Update replaces the editable fields; the CID stays as generated
func (s *CustomerService) Update(ctx context.Context, accountID uuid.UUID, id string, req CustomerRequest) (*partner.Customer, error) {
	customer, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(details(req)); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	s.notifier.Updated(ctx, accountID, snapshot.EntityCustomer, customer.ID, customer)
	return customer, nil
}

// Delete removes a customer who owes nothing. The debt check runs before
// any store call.
func (s *CustomerService) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	snap, err := s.snapshots.Snapshot(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load account snapshot: %w", err)
	}
	for _, c := range snap.Derive(time.Now().In(s.loc)).Customers {
		if c.ID == id && c.CurrentDebt.IsPositive() {
			return ErrCustomerHasDebt
		}
	}

	if err := s.repo.Delete(ctx, accountID, id); err != nil {
		return err
	}
	s.notifier.Deleted(ctx, accountID, snapshot.EntityCustomer, id)
	return nil
}

// Stats returns one customer with the figures derived from their orders
func (s *CustomerService) Stats(ctx context.Context, accountID uuid.UUID, id string) (*report.CustomerWithStats, error) {
	snap, err := s.snapshots.Snapshot(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account snapshot: %w", err)
	}
	for _, c := range snap.Derive(time.Now().In(s.loc)).Customers {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func details(req CustomerRequest) partner.CustomerDetails {
	return partner.CustomerDetails{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Type:    partner.CustomerType(req.Type),
		Note:    req.Note,
	}
}
