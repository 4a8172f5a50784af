package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls query spans
type DBTracingConfig struct {
	Enabled       bool
	DBSystem      string
	LogFullSQL    bool
	SlowThreshold time.Duration
}

type queryStartKey struct{}

// InstrumentDatabase registers the otelgorm plugin and a callback that
// flags slow queries and records errors on the query span.
func InstrumentDatabase(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	threshold := cfg.SlowThreshold
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateSpan(tx, threshold) }

	cb := db.Callback()
	registrations := []struct {
		name string
		err  error
	}{
		{"create", cb.Create().Before("gorm:create").Register("tradedesk:before_create", before)},
		{"query", cb.Query().Before("gorm:query").Register("tradedesk:before_query", before)},
		{"update", cb.Update().Before("gorm:update").Register("tradedesk:before_update", before)},
		{"delete", cb.Delete().Before("gorm:delete").Register("tradedesk:before_delete", before)},
		{"row", cb.Row().Before("gorm:row").Register("tradedesk:before_row", before)},
		{"raw", cb.Raw().Before("gorm:raw").Register("tradedesk:before_raw", before)},
		{"create", cb.Create().After("gorm:create").Register("tradedesk:after_create", after)},
		{"query", cb.Query().After("gorm:query").Register("tradedesk:after_query", after)},
		{"update", cb.Update().After("gorm:update").Register("tradedesk:after_update", after)},
		{"delete", cb.Delete().After("gorm:delete").Register("tradedesk:after_delete", after)},
		{"row", cb.Row().After("gorm:row").Register("tradedesk:after_row", after)},
		{"raw", cb.Raw().After("gorm:raw").Register("tradedesk:after_raw", after)},
	}
	for _, r := range registrations {
		if r.err != nil {
			return r.err
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_threshold", threshold),
	)
	return nil
}

func annotateSpan(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))

	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
		span.SetStatus(codes.Error, tx.Error.Error())
	}

	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
