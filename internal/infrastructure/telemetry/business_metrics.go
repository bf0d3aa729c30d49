package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MeterName names the meter used for business instruments
const MeterName = "simpro-backend/business"

// Metric attribute keys
var (
	AttrKeyAccountID = attribute.Key("account_id")
	AttrKeyEntity    = attribute.Key("entity")
	AttrKeySaleType  = attribute.Key("sale_type")
	AttrKeyTxType    = attribute.Key("tx_type")
	AttrKeyFormat    = attribute.Key("format")
	AttrKeyStatus    = attribute.Key("status")
	AttrKeyOp        = attribute.Key("op")
)

// RecordCounter reports how many records each collection holds across all accounts.
type RecordCounter interface {
	CountRecords(ctx context.Context) (map[string]int64, error)
}

// BusinessMetrics records sales, cash flow, restore and change feed activity.
type BusinessMetrics struct {
	ordersCreated     metric.Int64Counter
	saleAmount        metric.Float64Counter
	transactions      metric.Int64Counter
	transactionAmount metric.Float64Counter
	restoreRuns       metric.Int64Counter
	restoredRows      metric.Int64Counter
	changesPublished  metric.Int64Counter
	records           metric.Int64ObservableGauge
	registration      metric.Registration
	logger            *zap.Logger
}

// NewBusinessMetrics creates every instrument on meter. When counter is
// non-nil a gauge of stored records per collection is observed from it.
func NewBusinessMetrics(meter metric.Meter, counter RecordCounter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, errors.New("meter is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &BusinessMetrics{logger: logger}

	var err error
	if m.ordersCreated, err = meter.Int64Counter("simpro.sale_orders.created",
		metric.WithDescription("Sale orders created"), metric.WithUnit("{order}")); err != nil {
		return nil, fmt.Errorf("create orders counter: %w", err)
	}
	if m.saleAmount, err = meter.Float64Counter("simpro.sale_orders.amount",
		metric.WithDescription("Total value of created sale orders"), metric.WithUnit("{currency}")); err != nil {
		return nil, fmt.Errorf("create sale amount counter: %w", err)
	}
	if m.transactions, err = meter.Int64Counter("simpro.transactions.recorded",
		metric.WithDescription("Cash transactions recorded"), metric.WithUnit("{transaction}")); err != nil {
		return nil, fmt.Errorf("create transactions counter: %w", err)
	}
	if m.transactionAmount, err = meter.Float64Counter("simpro.transactions.amount",
		metric.WithDescription("Total value of cash transactions"), metric.WithUnit("{currency}")); err != nil {
		return nil, fmt.Errorf("create transaction amount counter: %w", err)
	}
	if m.restoreRuns, err = meter.Int64Counter("simpro.restore.runs",
		metric.WithDescription("Bulk restore runs by outcome"), metric.WithUnit("{run}")); err != nil {
		return nil, fmt.Errorf("create restore runs counter: %w", err)
	}
	if m.restoredRows, err = meter.Int64Counter("simpro.restore.rows",
		metric.WithDescription("Records written by bulk restore"), metric.WithUnit("{record}")); err != nil {
		return nil, fmt.Errorf("create restored rows counter: %w", err)
	}
	if m.changesPublished, err = meter.Int64Counter("simpro.changes.published",
		metric.WithDescription("Change events published to subscribers"), metric.WithUnit("{event}")); err != nil {
		return nil, fmt.Errorf("create changes counter: %w", err)
	}

	if counter != nil {
		if m.records, err = meter.Int64ObservableGauge("simpro.records",
			metric.WithDescription("Stored records per collection"), metric.WithUnit("{record}")); err != nil {
			return nil, fmt.Errorf("create records gauge: %w", err)
		}
		m.registration, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			counts, err := counter.CountRecords(ctx)
			if err != nil {
				m.logger.Warn("Failed to count records", zap.Error(err))
				return nil
			}
			for entity, n := range counts {
				o.ObserveInt64(m.records, n, metric.WithAttributes(AttrKeyEntity.String(entity)))
			}
			return nil
		}, m.records)
		if err != nil {
			return nil, fmt.Errorf("register records callback: %w", err)
		}
	}
	return m, nil
}

// RecordOrderCreated counts a new sale order and its total value
func (m *BusinessMetrics) RecordOrderCreated(ctx context.Context, accountID uuid.UUID, saleType string, total decimal.Decimal) {
	attrs := metric.WithAttributes(AttrKeyAccountID.String(accountID.String()), AttrKeySaleType.String(saleType))
	m.ordersCreated.Add(ctx, 1, attrs)
	m.saleAmount.Add(ctx, total.InexactFloat64(), attrs)
}

// RecordTransaction counts a cash movement
func (m *BusinessMetrics) RecordTransaction(ctx context.Context, accountID uuid.UUID, txType string, amount decimal.Decimal) {
	attrs := metric.WithAttributes(AttrKeyAccountID.String(accountID.String()), AttrKeyTxType.String(txType))
	m.transactions.Add(ctx, 1, attrs)
	m.transactionAmount.Add(ctx, amount.Abs().InexactFloat64(), attrs)
}

// RecordRestore counts a finished restore run and the rows it wrote
func (m *BusinessMetrics) RecordRestore(ctx context.Context, accountID uuid.UUID, format, status string, rows int) {
	account := AttrKeyAccountID.String(accountID.String())
	m.restoreRuns.Add(ctx, 1, metric.WithAttributes(account, AttrKeyFormat.String(format), AttrKeyStatus.String(status)))
	if rows > 0 {
		m.restoredRows.Add(ctx, int64(rows), metric.WithAttributes(account, AttrKeyFormat.String(format)))
	}
}

// RecordChangePublished counts one change event by operation
func (m *BusinessMetrics) RecordChangePublished(ctx context.Context, op string) {
	m.changesPublished.Add(ctx, 1, metric.WithAttributes(AttrKeyOp.String(op)))
}

// Stop unregisters the records gauge callback
func (m *BusinessMetrics) Stop() error {
	if m.registration == nil {
		return nil
	}
	err := m.registration.Unregister()
	m.registration = nil
	return err
}
