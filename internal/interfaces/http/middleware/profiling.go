package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mfgsuite/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig configures the Pyroscope labelling middleware.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths lists exact paths that get no labels, like health checks.
	SkipPaths []string
	// SkipPathPrefixes lists path prefixes that get no labels.
	SkipPathPrefixes []string
}

// DefaultProfilingConfig returns the defaults: labels on, probes and docs
// endpoints skipped.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled: true,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
		},
	}
}

// Profiling returns the labelling middleware with default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig returns middleware that runs each handler under
// Pyroscope labels so profiles can be filtered per route in the UI:
//
//   - controller: resource derived from the route ("inventory")
//   - route: matched route pattern ("/api/v1/inventory/items/:id")
//   - method: HTTP method
//   - warehouse: warehouse_id query parameter when present
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		labels := requestProfilingLabels(c)

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// requestProfilingLabels builds the label set for one request. Every label
// value comes from a bounded set: methods, route patterns and warehouses.
func requestProfilingLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 4)

	if method := c.Request.Method; method != "" {
		labels[telemetry.ProfilingLabelMethod] = method
	}

	route := c.FullPath()
	if route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}

	if controller := controllerFromRoute(route); controller != "" {
		labels[telemetry.ProfilingLabelController] = controller
	}

	if warehouseID := c.Query("warehouse_id"); warehouseID != "" {
		labels[telemetry.ProfilingLabelWarehouse] = warehouseID
	}

	return labels
}

// controllerFromRoute picks the resource segment out of a route pattern:
// "/api/v1/inventory/items/:id" yields "inventory".
func controllerFromRoute(route string) string {
	if route == "" {
		return ""
	}

	parts := strings.Split(route, "/")

	for i, part := range parts {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}

		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "{") {
			continue
		}

		// A path parameter right after this segment marks it as the
		// resource the route is about.
		if i+1 < len(parts) && (strings.HasPrefix(parts[i+1], ":") || strings.HasPrefix(parts[i+1], "{")) {
			return part
		}

		return part
	}

	return ""
}

// isVersionSegment reports whether a path segment looks like "v1", "v2", ...
func isVersionSegment(segment string) bool {
	if len(segment) < 2 {
		return false
	}
	if segment[0] != 'v' && segment[0] != 'V' {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
