package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowSQL = 200 * time.Millisecond

// SQLLogger sends GORM output to zap. Statement logs carry the request and
// account taken from ctx, so a slow replace can be traced to one back office.
type SQLLogger struct {
	base         *zap.Logger
	level        gormlogger.LogLevel
	slowAfter    time.Duration
	reportMisses bool
}

// SQLOption tunes an SQLLogger
type SQLOption func(*SQLLogger)

// SlowAfter flags statements running longer than d. Zero disables it.
func SlowAfter(d time.Duration) SQLOption {
	return func(l *SQLLogger) { l.slowAfter = d }
}

// ReportMissingRows logs gorm.ErrRecordNotFound as a failure. Lookups by ID
// miss routinely, so by default they are dropped.
func ReportMissingRows() SQLOption {
	return func(l *SQLLogger) { l.reportMisses = true }
}

func NewSQLLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...SQLOption) *SQLLogger {
	l := &SQLLogger{
		base:      base.Named("sql"),
		level:     level,
		slowAfter: defaultSlowSQL,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *SQLLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *SQLLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *SQLLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *SQLLogger) printf(ctx context.Context, need gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < need {
		return
	}
	if ce := l.base.Check(lvl, fmt.Sprintf(msg, data...)); ce != nil {
		ce.Write(scopeFields(ctx)...)
	}
}

// Trace logs one executed statement. Failures win over slowness, and plain
// statements are only written at Info.
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	took := time.Since(begin)

	switch {
	case err != nil:
		if l.level < gormlogger.Error || (!l.reportMisses && errors.Is(err, gormlogger.ErrRecordNotFound)) {
			return
		}
		l.base.Error("sql failed", append(statementFields(ctx, fc, took), zap.Error(err))...)
	case l.slowAfter > 0 && took > l.slowAfter:
		if l.level < gormlogger.Warn {
			return
		}
		l.base.Warn("slow sql", append(statementFields(ctx, fc, took), zap.Duration("threshold", l.slowAfter))...)
	case l.level >= gormlogger.Info:
		l.base.Debug("sql", statementFields(ctx, fc, took)...)
	}
}

func statementFields(ctx context.Context, fc func() (string, int64), took time.Duration) []zap.Field {
	stmt, rows := fc()
	fields := []zap.Field{
		zap.String("op", statementVerb(stmt)),
		zap.String("sql", stmt),
		zap.Int64("rows", rows),
		zap.Duration("took", took),
	}
	return append(fields, scopeFields(ctx)...)
}

func scopeFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetAccountID(ctx); id != "" {
		fields = append(fields, zap.String("account_id", id))
	}
	return fields
}

// statementVerb returns the leading keyword of stmt, e.g. "DELETE".
func statementVerb(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexAny(stmt, " \n\t("); i > 0 {
		stmt = stmt[:i]
	}
	return strings.ToUpper(stmt)
}

// SQLLevel maps the application log level onto GORM's. Debug and info both
// trace every statement; anything unknown keeps warnings only.
func SQLLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error", "fatal":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
