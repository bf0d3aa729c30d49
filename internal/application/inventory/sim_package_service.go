package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appsync "github.com/simpro/backend/internal/application/sync"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/inventory"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/infrastructure/logger"
	"github.com/simpro/backend/internal/infrastructure/telemetry"
)

// SimPackageService handles purchase batches and their automatic payments
type SimPackageService struct {
	packageRepo inventory.SimPackageRepository
	txRepo      finance.TransactionRepository
	notifier    *appsync.Notifier
}

// NewSimPackageService creates a new SimPackageService
func NewSimPackageService(
	packageRepo inventory.SimPackageRepository,
	txRepo finance.TransactionRepository,
	notifier *appsync.Notifier,
) *SimPackageService {
	return &SimPackageService{
		packageRepo: packageRepo,
		txRepo:      txRepo,
		notifier:    notifier,
	}
}

// List returns every batch of the account
func (s *SimPackageService) List(ctx context.Context, accountID uuid.UUID) ([]inventory.SimPackage, error) {
	return s.packageRepo.FindAll(ctx, accountID)
}

// Create stores a batch. When it is paid up front an OUT transaction for the
// full import price follows as a separate write; if that write fails the
// batch stays and the failure is returned as a warning.
func (s *SimPackageService) Create(ctx context.Context, accountID uuid.UUID, req CreateSimPackageRequest) (*SimPackageResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sim_package", "create", telemetry.AttrAccountID, accountID)
	defer span.End()

	method := inventory.PurchaseMethod(req.PaymentMethod)
	if method == "" {
		method = inventory.PurchaseMethodCash
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be CASH, TRANSFER or CREDIT")
	}

	now := time.Now()
	pkg, err := inventory.NewSimPackage(accountID, inventory.NewSimPackageInput{
		Code:             req.Code,
		Name:             req.Name,
		SimTypeID:        req.SimTypeID,
		ImportDate:       req.ImportDate,
		Quantity:         req.Quantity,
		TotalImportPrice: req.TotalImportPrice,
		DueDate:          req.DueDate,
	}, now)
	if err != nil {
		return nil, err
	}
	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create sim package: %w", err)
	}
	s.notifier.Inserted(ctx, accountID, snapshot.EntitySimPackage, pkg.ID, pkg)

	result := &SimPackageResult{Package: pkg}
	if !method.PaysUpfront() || pkg.TotalImportPrice.IsZero() {
		return result, nil
	}

	payment, err := finance.NewBatchPayment(accountID, pkg.ID, pkg.Code, pkg.ImportDate,
		pkg.TotalImportPrice, finance.PaymentMethod(method), now)
	if err == nil {
		err = s.txRepo.Create(ctx, payment)
	}
	if err != nil {
		logger.L(ctx).Error("Batch stored but its payment was not recorded",
			zap.String("package_id", pkg.ID),
			zap.Error(err),
		)
		result.Warnings = append(result.Warnings, fmt.Sprintf("payment not recorded: %v", err))
		return result, nil
	}
	s.notifier.Inserted(ctx, accountID, snapshot.EntityTransaction, payment.ID, payment)
	result.Payment = payment
	return result, nil
}

// Delete removes a batch. Orders and transactions that point at it keep the reference.
func (s *SimPackageService) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	if err := s.packageRepo.Delete(ctx, accountID, id); err != nil {
		return err
	}
	s.notifier.Deleted(ctx, accountID, snapshot.EntitySimPackage, id)
	return nil
}
