package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogsConfig enables shipping zap entries to the collector
type LogsConfig struct {
	Collector
	Enabled bool
}

// LoggerProvider owns the OTLP log pipeline that Bridge feeds.
type LoggerProvider struct {
	sdk   *sdklog.LoggerProvider
	scope string
}

func NewLoggerProvider(ctx context.Context, cfg LogsConfig, log *zap.Logger) (*LoggerProvider, error) {
	lp := &LoggerProvider{scope: cfg.ServiceName}
	if !cfg.Enabled {
		log.Info("Log export disabled")
		return lp, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("log exporter: %w", err)
	}
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}

	lp.sdk = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp.sdk)

	log.Info("Log export enabled", zap.String("collector", cfg.Endpoint))
	return lp, nil
}

func (lp *LoggerProvider) IsEnabled() bool {
	return lp != nil && lp.sdk != nil
}

// Shutdown ships the records still batched
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if !lp.IsEnabled() {
		return nil
	}
	return flush(ctx, "log", lp.sdk)
}

// Bridge tees base into the OTLP pipeline for entries at floor or above. With
// export disabled base is returned as is.
func (lp *LoggerProvider) Bridge(base *zap.Logger, floor zapcore.Level) *zap.Logger {
	if !lp.IsEnabled() {
		return base
	}
	exported := minLevelCore{
		Core: otelzap.NewCore(lp.scope, otelzap.WithLoggerProvider(lp.sdk)),
		min:  floor,
	}
	return base.WithOptions(zap.WrapCore(func(local zapcore.Core) zapcore.Core {
		return zapcore.NewTee(local, exported)
	}))
}

// minLevelCore puts a floor under the otelzap core, which accepts every level.
type minLevelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c minLevelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c minLevelCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if e.Level < c.min {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return minLevelCore{Core: c.Core.With(fields), min: c.min}
}
