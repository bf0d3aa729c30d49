package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubCounter struct {
	counts map[string]int64
	err    error
}

func (s stubCounter) CountRecords(context.Context) (map[string]int64, error) {
	return s.counts, s.err
}

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestNewBusinessMetrics_RequiresMeter(t *testing.T) {
	_, err := NewBusinessMetrics(nil, nil, nil)
	assert.Error(t, err)
}

func TestBusinessMetrics_Counters(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewBusinessMetrics(provider.Meter(MeterName), nil, nil)
	require.NoError(t, err)

	ctx := context.Background()
	account := uuid.New()
	m.RecordOrderCreated(ctx, account, "WHOLESALE", decimal.NewFromInt(1500))
	m.RecordOrderCreated(ctx, account, "WHOLESALE", decimal.NewFromInt(500))
	m.RecordTransaction(ctx, account, "OUT", decimal.NewFromInt(-300))
	m.RecordRestore(ctx, account, "xlsx", "COMPLETED", 12)
	m.RecordChangePublished(ctx, "reload")

	data := collect(t, reader)

	orders := data["simpro.sale_orders.created"].(metricdata.Sum[int64])
	require.Len(t, orders.DataPoints, 1)
	assert.Equal(t, int64(2), orders.DataPoints[0].Value)

	amount := data["simpro.sale_orders.amount"].(metricdata.Sum[float64])
	assert.InDelta(t, 2000.0, amount.DataPoints[0].Value, 0.001)

	txAmount := data["simpro.transactions.amount"].(metricdata.Sum[float64])
	assert.InDelta(t, 300.0, txAmount.DataPoints[0].Value, 0.001)

	rows := data["simpro.restore.rows"].(metricdata.Sum[int64])
	assert.Equal(t, int64(12), rows.DataPoints[0].Value)

	changes := data["simpro.changes.published"].(metricdata.Sum[int64])
	assert.Equal(t, int64(1), changes.DataPoints[0].Value)
}

func TestBusinessMetrics_RecordsGauge(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewBusinessMetrics(provider.Meter(MeterName),
		stubCounter{counts: map[string]int64{"sim_types": 4, "sale_orders": 9}}, zap.NewNop())
	require.NoError(t, err)

	gauge := collect(t, reader)["simpro.records"].(metricdata.Gauge[int64])
	values := map[string]int64{}
	for _, dp := range gauge.DataPoints {
		entity, _ := dp.Attributes.Value(AttrKeyEntity)
		values[entity.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"sim_types": 4, "sale_orders": 9}, values)

	require.NoError(t, m.Stop())
	require.NoError(t, m.Stop())
	_, ok := collect(t, reader)["simpro.records"]
	assert.False(t, ok)
}

func TestBusinessMetrics_CounterErrorIsSwallowed(t *testing.T) {
	reader, provider := newTestMeter(t)
	_, err := NewBusinessMetrics(provider.Meter(MeterName), stubCounter{err: errors.New("db down")}, zap.NewNop())
	require.NoError(t, err)

	_, ok := collect(t, reader)["simpro.records"]
	assert.False(t, ok)
}

func TestGormRecordCounter(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, table := range []string{"sim_types", "customers", "sim_packages", "sale_orders", "transactions", "due_date_logs"} {
		require.NoError(t, db.Exec("CREATE TABLE "+table+" (id TEXT)").Error)
	}
	require.NoError(t, db.Exec("INSERT INTO sim_types (id) VALUES ('a'), ('b')").Error)

	counts, err := NewGormRecordCounter(db).CountRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["sim_types"])
	assert.Equal(t, int64(0), counts["due_date_logs"])
	assert.Len(t, counts, 6)
}
