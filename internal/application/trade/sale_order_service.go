package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appsync "github.com/simpro/backend/internal/application/sync"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/partner"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/domain/trade"
	"github.com/simpro/backend/internal/infrastructure/logger"
	"github.com/simpro/backend/internal/infrastructure/telemetry"
)

// OrderMetrics counts created orders
type OrderMetrics interface {
	RecordOrderCreated(ctx context.Context, accountID uuid.UUID, saleType string, total decimal.Decimal)
}

// SaleOrderService handles sale orders, their receipts and due-date extensions
type SaleOrderService struct {
	orderRepo    trade.SaleOrderRepository
	logRepo      trade.DueDateLogRepository
	customerRepo partner.CustomerRepository
	txRepo       finance.TransactionRepository
	notifier     *appsync.Notifier
	metrics      OrderMetrics
}

// NewSaleOrderService creates a new SaleOrderService. metrics may be nil.
func NewSaleOrderService(
	orderRepo trade.SaleOrderRepository,
	logRepo trade.DueDateLogRepository,
	customerRepo partner.CustomerRepository,
	txRepo finance.TransactionRepository,
	notifier *appsync.Notifier,
	metrics OrderMetrics,
) *SaleOrderService {
	return &SaleOrderService{
		orderRepo:    orderRepo,
		logRepo:      logRepo,
		customerRepo: customerRepo,
		txRepo:       txRepo,
		notifier:     notifier,
		metrics:      metrics,
	}
}

// List returns every order of the account
func (s *SaleOrderService) List(ctx context.Context, accountID uuid.UUID) ([]trade.SaleOrder, error) {
	return s.orderRepo.FindAll(ctx, accountID)
}

// Create stores an order. A wholesale order takes its agent name from the
// customer. A paid order gets an IN receipt for its total as a second write;
// if that write fails the order stays and the failure is returned as a warning.
func (s *SaleOrderService) Create(ctx context.Context, accountID uuid.UUID, req CreateSaleOrderRequest) (*SaleOrderResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale_order", "create", telemetry.AttrAccountID, accountID)
	defer span.End()

	in := trade.NewSaleOrderInput{
		Date:               req.Date,
		SaleType:           trade.SaleType(req.SaleType),
		CustomerID:         req.CustomerID,
		RetailCustomerInfo: req.RetailCustomerInfo,
		SimTypeID:          req.SimTypeID,
		SimPackageID:       req.SimPackageID,
		Quantity:           req.Quantity,
		SalePrice:          req.SalePrice,
		DueDate:            req.DueDate,
		Note:               req.Note,
		Paid:               req.IsPaid,
	}
	if in.SaleType == trade.SaleTypeWholesale && req.CustomerID != "" {
		customer, err := s.customerRepo.FindByID(ctx, accountID, req.CustomerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer does not exist")
			}
			return nil, fmt.Errorf("load customer: %w", err)
		}
		in.CustomerName = customer.Name
	}

	method := finance.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = finance.PaymentMethodCash
	}
	if req.IsPaid && !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be CASH, TRANSFER or COD")
	}

	now := time.Now()
	order, err := trade.NewSaleOrder(accountID, in, now)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create sale order: %w", err)
	}
	s.notifier.Inserted(ctx, accountID, snapshot.EntitySaleOrder, order.ID, order)
	if s.metrics != nil {
		s.metrics.RecordOrderCreated(ctx, accountID, string(order.SaleType), order.TotalAmount())
	}

	result := &SaleOrderResult{Order: order}
	if !req.IsPaid || order.TotalAmount().IsZero() {
		return result, nil
	}

	receipt, err := finance.NewOrderReceipt(accountID, order.ID, order.Code, order.Date,
		order.SaleType == trade.SaleTypeWholesale, order.TotalAmount(), method, now)
	if err == nil {
		err = s.txRepo.Create(ctx, receipt)
	}
	if err != nil {
		logger.L(ctx).Error("Order stored but its receipt was not recorded",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		result.Warnings = append(result.Warnings, fmt.Sprintf("receipt not recorded: %v", err))
		return result, nil
	}
	s.notifier.Inserted(ctx, accountID, snapshot.EntityTransaction, receipt.ID, receipt)
	result.Receipt = receipt
	return result, nil
}

// Delete removes an order. Its receipts and due-date logs are left in place.
func (s *SaleOrderService) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	if err := s.orderRepo.Delete(ctx, accountID, id); err != nil {
		return err
	}
	s.notifier.Deleted(ctx, accountID, snapshot.EntitySaleOrder, id)
	return nil
}

// ExtendDueDate moves the due date of an order. The order update and the log
// append are one store transaction.
func (s *SaleOrderService) ExtendDueDate(ctx context.Context, accountID uuid.UUID, orderID string, req ExtendDueDateRequest) (*ExtendDueDateResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale_order", "extend_due_date",
		telemetry.AttrAccountID, accountID,
		telemetry.AttrRecordID, orderID,
	)
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}
	log, err := order.ExtendDueDate(req.NewDate, req.Reason, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.ExtendDueDate(ctx, order, log); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("extend due date: %w", err)
	}

	s.notifier.Updated(ctx, accountID, snapshot.EntitySaleOrder, order.ID, order)
	s.notifier.Inserted(ctx, accountID, snapshot.EntityDueDateLog, log.ID, log)
	return &ExtendDueDateResult{Order: order, Log: log}, nil
}

// DueDateLogs returns the extension history of one order
func (s *SaleOrderService) DueDateLogs(ctx context.Context, accountID uuid.UUID, orderID string) ([]trade.DueDateLog, error) {
	if _, err := s.orderRepo.FindByID(ctx, accountID, orderID); err != nil {
		return nil, err
	}
	return s.logRepo.FindByOrder(ctx, accountID, orderID)
}
