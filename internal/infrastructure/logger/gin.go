package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AccessLogOption tunes AccessLog
type AccessLogOption func(*accessLog)

type accessLog struct {
	skip map[string]struct{}
}

// SkipPaths attaches the request logger but writes no access entry for the
// given paths. Probes hit /health/live every few seconds.
func SkipPaths(paths ...string) AccessLogOption {
	return func(a *accessLog) {
		for _, p := range paths {
			a.skip[p] = struct{}{}
		}
	}
}

// AccessLog puts a request-scoped logger on the request context and writes one
// entry per request once the handler chain is done. The level follows the
// status class.
func AccessLog(base *zap.Logger, opts ...AccessLogOption) gin.HandlerFunc {
	cfg := accessLog{skip: map[string]struct{}{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(c *gin.Context) {
		began := time.Now()
		requestID := c.GetString("request_id")

		reqLog := base.With(zap.String("request_id", requestID))
		ctx := WithRequestID(WithContext(c.Request.Context(), reqLog), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if _, skip := cfg.skip[c.Request.URL.Path]; skip {
			return
		}

		status := c.Writer.Status()
		ce := reqLog.Check(statusLevel(status), "request")
		if ce == nil {
			return
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("took", time.Since(began)),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("client_ip", c.ClientIP()),
		}
		if route := c.FullPath(); route != "" && route != c.Request.URL.Path {
			fields = append(fields, zap.String("route", route))
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if account := c.GetString("account_id"); account != "" {
			fields = append(fields, zap.String("account_id", account))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}
		ce.Write(fields...)
	}
}

func statusLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// Recovery turns a handler panic into a 500 with the standard error body.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := c.GetString("request_id")
			base.Error("handler panicked",
				zap.String("request_id", requestID),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "ERR_INTERNAL",
					"message":    "Internal server error",
					"request_id": requestID,
				},
			})
		}()
		c.Next()
	}
}
