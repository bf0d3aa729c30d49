package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold applies when DBTracingConfig leaves it unset
const DefaultSlowQueryThreshold = 200 * time.Millisecond

const queryStartKey = "telemetry:query_start"

// DBTracingConfig holds database tracing configuration.
type DBTracingConfig struct {
	Enabled         bool
	DBSystem        string // postgresql or sqlite
	LogFullSQL      bool   // include bound variables in span statements
	SlowQueryThresh time.Duration
}

// DBTracingPlugin registers otelgorm plus a callback pair that flags slow queries.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a plugin with defaults applied
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = DefaultSlowQueryThreshold
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Register installs the plugin on db. It does nothing when disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	registrations := []error{
		cb.Create().Before("gorm:create").Register("telemetry:before_create", p.before),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", p.before),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", p.before),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", p.before),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", p.before),
		cb.Create().After("gorm:create").Register("telemetry:after_create", p.after),
		cb.Query().After("gorm:query").Register("telemetry:after_query", p.after),
		cb.Update().After("gorm:update").Register("telemetry:after_update", p.after),
		cb.Delete().After("gorm:delete").Register("telemetry:after_delete", p.after),
		cb.Raw().After("gorm:raw").Register("telemetry:after_raw", p.after),
	}
	if err := errors.Join(registrations...); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.config.DBSystem),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
	value, ok := db.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	start, ok := value.(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed < p.config.SlowQueryThresh {
		return
	}

	if db.Statement.Context != nil {
		span := trace.SpanFromContext(db.Statement.Context)
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
		)
	}
	p.logger.Warn("Slow query",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", db.RowsAffected),
	)
}
