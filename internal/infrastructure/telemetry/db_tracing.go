package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls span generation for database queries.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool          // include full SQL in spans; leaks data, dev only
	SlowQueryThresh  time.Duration // queries above this get a slow_query_warning event
	DBSystem         string        // e.g. "postgresql"
	WithoutVariables bool          // strip bind variables from recorded SQL
}

// DefaultDBTracingConfig returns the secure defaults: tracing off, variables
// stripped, 200ms slow threshold.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// DBTracingPlugin combines the otelgorm plugin with timing callbacks that add
// slow-query and error annotations to each query span.
type DBTracingPlugin struct {
	config DBTracingConfig
	log    *zap.Logger
}

// NewDBTracingPlugin returns an unregistered plugin. Call RegisterOtelGorm to
// attach it to a GORM handle.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		log:    logger,
	}
}

// RegisterOtelGorm installs the otelgorm plugin plus the timing callbacks on
// db. A no-op when tracing is disabled; errors on double registration.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.log.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// The timing callbacks run around the otelgorm spans to record duration,
	// affected rows and slow-query events.
	cb := NewDBTracingCallback(p.config.SlowQueryThresh)
	if err := cb.RegisterCallbacks(db); err != nil {
		return err
	}

	p.log.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)

	return nil
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime stamps ctx with the current time so the after-callback
// can compute query duration.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}

// DBTracingCallback annotates the active query span with timing, affected
// rows, table name and error status.
type DBTracingCallback struct {
	slowQueryThresh time.Duration
}

// NewDBTracingCallback returns callbacks that flag queries slower than
// slowQueryThresh.
func NewDBTracingCallback(slowQueryThresh time.Duration) *DBTracingCallback {
	return &DBTracingCallback{
		slowQueryThresh: slowQueryThresh,
	}
}

// BeforeCallback records the query start time on the statement context.
func (c *DBTracingCallback) BeforeCallback(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// AfterCallback writes the collected attributes onto the span opened by
// otelgorm. gorm.ErrRecordNotFound is a normal outcome and never marks the
// span as failed.
func (c *DBTracingCallback) AfterCallback(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}

	span := trace.SpanFromContext(db.Statement.Context)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := db.Statement.Context.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > c.slowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", c.slowQueryThresh.Milliseconds()),
			))
		}
	}
}

// callbackRegisterer matches the registration target GORM returns from the
// Before/After chaining calls.
type callbackRegisterer interface {
	Register(name string, fn func(*gorm.DB)) error
}

// RegisterCallbacks hooks BeforeCallback and AfterCallback around every GORM
// operation type.
func (c *DBTracingCallback) RegisterCallbacks(db *gorm.DB) error {
	hooks := []struct {
		op     string
		before callbackRegisterer
		after  callbackRegisterer
	}{
		{"create", db.Callback().Create().Before("gorm:create"), db.Callback().Create().After("gorm:create")},
		{"query", db.Callback().Query().Before("gorm:query"), db.Callback().Query().After("gorm:query")},
		{"update", db.Callback().Update().Before("gorm:update"), db.Callback().Update().After("gorm:update")},
		{"delete", db.Callback().Delete().Before("gorm:delete"), db.Callback().Delete().After("gorm:delete")},
		{"row", db.Callback().Row().Before("gorm:row"), db.Callback().Row().After("gorm:row")},
		{"raw", db.Callback().Raw().Before("gorm:raw"), db.Callback().Raw().After("gorm:raw")},
	}

	for _, h := range hooks {
		if err := h.before.Register("otel_timing:before_"+h.op, c.BeforeCallback); err != nil {
			return err
		}
		if err := h.after.Register("otel_timing:after_"+h.op, c.AfterCallback); err != nil {
			return err
		}
	}

	return nil
}
