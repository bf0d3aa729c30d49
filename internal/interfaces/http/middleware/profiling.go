package middleware

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	// Enabled controls whether profiling labels are added to requests.
	Enabled bool
	// SkipPaths are paths that don't need profiling labels (e.g., health checks).
	SkipPaths []string
}

// Profiling tags the CPU samples taken while a request runs with its method
// and route, so flame graphs can be filtered per endpoint.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		labels := pyroscope.Labels(
			"http_method", c.Request.Method,
			"http_route", routeLabel(c),
		)
		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
