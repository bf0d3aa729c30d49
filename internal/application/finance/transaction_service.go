package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appsync "github.com/simpro/backend/internal/application/sync"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/infrastructure/telemetry"
)

// TransactionMetrics counts recorded cash movements
type TransactionMetrics interface {
	RecordTransaction(ctx context.Context, accountID uuid.UUID, txType string, amount decimal.Decimal)
}

// TransactionService handles the cash ledger
type TransactionService struct {
	repo     finance.TransactionRepository
	notifier *appsync.Notifier
	metrics  TransactionMetrics
}

// NewTransactionService creates a new TransactionService. metrics may be nil.
func NewTransactionService(repo finance.TransactionRepository, notifier *appsync.Notifier, metrics TransactionMetrics) *TransactionService {
	return &TransactionService{repo: repo, notifier: notifier, metrics: metrics}
}

// List returns the ledger of the account
func (s *TransactionService) List(ctx context.Context, accountID uuid.UUID) ([]finance.Transaction, error) {
	return s.repo.FindAll(ctx, accountID)
}

// Create records a manual cash movement
func (s *TransactionService) Create(ctx context.Context, accountID uuid.UUID, req CreateTransactionRequest) (*finance.Transaction, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "create", telemetry.AttrAccountID, accountID)
	defer span.End()

	tx, err := finance.NewTransaction(accountID, finance.NewTransactionInput{
		Date:         req.Date,
		Type:         finance.TransactionType(req.Type),
		Category:     req.Category,
		Amount:       req.Amount,
		Method:       finance.PaymentMethod(req.Method),
		SaleOrderID:  req.SaleOrderID,
		SimPackageID: req.SimPackageID,
		Note:         req.Note,
	}, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.notifier.Inserted(ctx, accountID, snapshot.EntityTransaction, tx.ID, tx)
	if s.metrics != nil {
		s.metrics.RecordTransaction(ctx, accountID, string(tx.Type), tx.Amount)
	}
	return tx, nil
}

// Delete removes a ledger entry
func (s *TransactionService) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	if err := s.repo.Delete(ctx, accountID, id); err != nil {
		return err
	}
	s.notifier.Deleted(ctx, accountID, snapshot.EntityTransaction, id)
	return nil
}

// Balances returns IN minus OUT per payment method and overall
func (s *TransactionService) Balances(ctx context.Context, accountID uuid.UUID) (finance.Balances, error) {
	txs, err := s.repo.FindAll(ctx, accountID)
	if err != nil {
		return finance.Balances{}, err
	}
	return finance.ComputeBalances(txs), nil
}
