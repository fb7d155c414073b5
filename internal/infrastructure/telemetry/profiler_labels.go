package telemetry

import (
	"context"
	"maps"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys. Labels let profiles be sliced by handler, route and
// warehouse in the Pyroscope UI.
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelWarehouse  = "warehouse"
	ProfilingLabelOperation  = "operation"
	ProfilingLabelRegion     = "region"
)

// MaxLabelValueLength bounds label values; longer values are truncated.
const MaxLabelValueLength = 128

// HighCardinalityLabels lists keys that are dropped from profiles entirely.
// Unbounded label sets blow up Pyroscope's memory.
//
// warehouse is deliberately absent: deployments run a small fixed set of
// warehouses. item_code and transaction_id are listed because a catalog can
// carry tens of thousands of SKUs.
var HighCardinalityLabels = map[string]bool{
	"user_id":        true,
	"request_id":     true,
	"item_code":      true,
	"transaction_id": true,
	"trace_id":       true,
	"span_id":        true,
	"session_id":     true,
}

// WithProfilingLabels runs fn with the given labels attached to its profile
// samples, via pyroscope.TagWrapper. The map is copied before use, so the
// caller may mutate it afterwards.
//
//	telemetry.WithProfilingLabels(ctx, map[string]string{
//	    "controller": "StockHandler",
//	    "operation":  "ReceiveStock",
//	}, func(c context.Context) {
//	    postLedgerEntries(c)
//	})
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	labelPairs := copyAndSanitize(labels)
	if len(labelPairs) == 0 {
		fn(ctx)
		return
	}

	pyroscope.TagWrapper(ctx, pyroscope.Labels(labelPairs...), fn)
}

// WithPprofLabels is the same as WithProfilingLabels but goes through Go's
// native pprof API, so the labels also show up in standard pprof output.
func WithPprofLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	labelPairs := copyAndSanitize(labels)
	if len(labelPairs) == 0 {
		fn(ctx)
		return
	}

	pprof.Do(ctx, pprof.Labels(labelPairs...), fn)
}

func copyAndSanitize(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	// Copy first: the caller may mutate the map concurrently.
	labelsCopy := make(map[string]string, len(labels))
	maps.Copy(labelsCopy, labels)

	return sanitizeLabels(labelsCopy)
}

// ProfilingScope accumulates labels incrementally before running a function
// under them.
type ProfilingScope struct {
	labels map[string]string
}

// NewProfilingScope starts a scope seeded with labels.
func NewProfilingScope(labels map[string]string) *ProfilingScope {
	scope := &ProfilingScope{
		labels: make(map[string]string),
	}
	maps.Copy(scope.labels, labels)
	return scope
}

// WithLabel adds one label to the scope.
func (s *ProfilingScope) WithLabel(key, value string) *ProfilingScope {
	s.labels[key] = value
	return s
}

// WithController adds the controller label.
func (s *ProfilingScope) WithController(controller string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelController, controller)
}

// WithRoute adds the route label.
func (s *ProfilingScope) WithRoute(route string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelRoute, route)
}

// WithMethod adds the HTTP method label.
func (s *ProfilingScope) WithMethod(method string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelMethod, method)
}

// WithWarehouse adds the warehouse label.
func (s *ProfilingScope) WithWarehouse(warehouse string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelWarehouse, warehouse)
}

// WithOperation adds the operation label.
func (s *ProfilingScope) WithOperation(operation string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelOperation, operation)
}

// WithRegion adds the code-region label.
func (s *ProfilingScope) WithRegion(region string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelRegion, region)
}

// Labels returns a copy of the accumulated labels.
func (s *ProfilingScope) Labels() map[string]string {
	result := make(map[string]string, len(s.labels))
	maps.Copy(result, s.labels)
	return result
}

// Run executes fn under the accumulated labels.
func (s *ProfilingScope) Run(ctx context.Context, fn func(context.Context)) {
	WithProfilingLabels(ctx, s.labels, fn)
}

// sanitizeLabels turns a label map into the flat pair slice Pyroscope wants:
// high-cardinality keys dropped, values truncated, keys normalized to
// snake_case, output sorted for determinism.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	pairs := make([]string, 0, len(labels)*2)

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := labels[key]

		if key == "" || value == "" {
			continue
		}

		// Dropped silently; logging here would spam hot paths.
		if HighCardinalityLabels[key] {
			continue
		}

		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}

		sanitizedKey := sanitizeLabelKey(key)
		if sanitizedKey == "" {
			continue
		}

		pairs = append(pairs, sanitizedKey, value)
	}

	return pairs
}

// sanitizeLabelKey lowercases the key, maps separators to underscores and
// drops anything outside [a-z0-9_].
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")

	result := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			result = append(result, c)
		}
	}

	return string(result)
}

// HTTPRequestLabels builds the standard label set for profiling an HTTP
// handler invocation. Empty components are omitted.
func HTTPRequestLabels(controller, route, method string) map[string]string {
	labels := make(map[string]string, 3)

	if controller != "" {
		labels[ProfilingLabelController] = controller
	}
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}

	return labels
}

// OperationLabels builds labels for a named operation plus any extras.
func OperationLabels(operation string, extraLabels map[string]string) map[string]string {
	labels := make(map[string]string, len(extraLabels)+1)
	labels[ProfilingLabelOperation] = operation
	maps.Copy(labels, extraLabels)

	return labels
}

// RegionLabels builds labels for a code region plus any extras.
func RegionLabels(region string, extraLabels map[string]string) map[string]string {
	labels := make(map[string]string, len(extraLabels)+1)
	labels[ProfilingLabelRegion] = region
	maps.Copy(labels, extraLabels)

	return labels
}
