package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/inventory"
)

type MockSimPackageRepository struct {
	mock.Mock
}

func (m *MockSimPackageRepository) FindByID(ctx context.Context, accountID uuid.UUID, id string) (*inventory.SimPackage, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.SimPackage), args.Error(1)
}

func (m *MockSimPackageRepository) FindAll(ctx context.Context, accountID uuid.UUID) ([]inventory.SimPackage, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]inventory.SimPackage), args.Error(1)
}

func (m *MockSimPackageRepository) Create(ctx context.Context, pkg *inventory.SimPackage) error {
	return m.Called(ctx, pkg).Error(0)
}

func (m *MockSimPackageRepository) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	return m.Called(ctx, accountID, id).Error(0)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, accountID uuid.UUID, id string) (*finance.Transaction, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, accountID uuid.UUID) ([]finance.Transaction, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]finance.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *finance.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	return m.Called(ctx, accountID, id).Error(0)
}

func packageRequest(method string) CreateSimPackageRequest {
	return CreateSimPackageRequest{
		SimTypeID:        "type-1",
		ImportDate:       "2024-02-01",
		Quantity:         100,
		TotalImportPrice: decimal.NewFromInt(2_000_000),
		PaymentMethod:    method,
	}
}

func TestSimPackageService_Create_CashWritesPayment(t *testing.T) {
	pkgs, txs := new(MockSimPackageRepository), new(MockTransactionRepository)
	svc := NewSimPackageService(pkgs, txs, nil)
	accountID := uuid.New()

	pkgs.On("Create", mock.Anything, mock.AnythingOfType("*inventory.SimPackage")).Return(nil)
	txs.On("Create", mock.Anything, mock.MatchedBy(func(tx *finance.Transaction) bool {
		return tx.Type == finance.TransactionTypeOut &&
			tx.Category == finance.CategorySimPurchase &&
			tx.Amount.Equal(decimal.NewFromInt(2_000_000)) &&
			tx.Date == "2024-02-01"
	})).Return(nil)

	res, err := svc.Create(context.Background(), accountID, packageRequest(""))
	require.NoError(t, err)
	require.NotNil(t, res.Payment)
	assert.Equal(t, res.Package.ID, res.Payment.SimPackageID)
	assert.Equal(t, finance.PaymentMethodCash, res.Payment.Method)
	assert.NotEmpty(t, res.Package.Code)
	txs.AssertExpectations(t)
}

func TestSimPackageService_Create_CreditSkipsPayment(t *testing.T) {
	pkgs, txs := new(MockSimPackageRepository), new(MockTransactionRepository)
	svc := NewSimPackageService(pkgs, txs, nil)

	pkgs.On("Create", mock.Anything, mock.AnythingOfType("*inventory.SimPackage")).Return(nil)

	res, err := svc.Create(context.Background(), uuid.New(), packageRequest("CREDIT"))
	require.NoError(t, err)
	assert.Nil(t, res.Payment)
	txs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSimPackageService_Create_PaymentFailureIsWarning(t *testing.T) {
	pkgs, txs := new(MockSimPackageRepository), new(MockTransactionRepository)
	svc := NewSimPackageService(pkgs, txs, nil)

	pkgs.On("Create", mock.Anything, mock.AnythingOfType("*inventory.SimPackage")).Return(nil)
	txs.On("Create", mock.Anything, mock.Anything).Return(errors.New("ledger unavailable"))

	res, err := svc.Create(context.Background(), uuid.New(), packageRequest("TRANSFER"))
	require.NoError(t, err)
	assert.NotNil(t, res.Package)
	assert.Nil(t, res.Payment)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "ledger unavailable")
}

func TestSimPackageService_Create_Validation(t *testing.T) {
	pkgs, txs := new(MockSimPackageRepository), new(MockTransactionRepository)
	svc := NewSimPackageService(pkgs, txs, nil)

	req := packageRequest("CASH")
	req.Quantity = 0
	_, err := svc.Create(context.Background(), uuid.New(), req)
	require.Error(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), packageRequest("BARTER"))
	require.Error(t, err)

	pkgs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSimPackageService_Create_StoreFailure(t *testing.T) {
	pkgs, txs := new(MockSimPackageRepository), new(MockTransactionRepository)
	svc := NewSimPackageService(pkgs, txs, nil)

	pkgs.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.Create(context.Background(), uuid.New(), packageRequest("CASH"))
	require.Error(t, err)
	txs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
