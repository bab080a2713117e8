package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/eightysix/analytics/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const startedKey = "telemetry:started"

// InstrumentDB registers otelgorm and a callback pair that marks slow or
// failed statements on the active span. Query variables never reach spans.
func InstrumentDB(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}
	if err := RegisterSpanCallbacks(db, cfg.DBSlowQueryThresh); err != nil {
		return err
	}

	logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", cfg.DBSlowQueryThresh))
	return nil
}

// RegisterSpanCallbacks times every statement and annotates the span in ctx
func RegisterSpanCallbacks(db *gorm.DB, slow time.Duration) error {
	cb := db.Callback()
	after := annotate(slow)
	regs := map[string]func() error{
		"create": func() error {
			if err := cb.Create().Before("gorm:create").Register("telemetry:before_create", markStart); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("telemetry:after_create", after)
		},
		"query": func() error {
			if err := cb.Query().Before("gorm:query").Register("telemetry:before_query", markStart); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("telemetry:after_query", after)
		},
		"update": func() error {
			if err := cb.Update().Before("gorm:update").Register("telemetry:before_update", markStart); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("telemetry:after_update", after)
		},
		"delete": func() error {
			if err := cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", markStart); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("telemetry:after_delete", after)
		},
		"row": func() error {
			if err := cb.Row().Before("gorm:row").Register("telemetry:before_row", markStart); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Register("telemetry:after_row", after)
		},
		"raw": func() error {
			if err := cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", markStart); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register("telemetry:after_raw", after)
		},
	}
	for op, register := range regs {
		if err := register(); err != nil {
			return fmt.Errorf("register %s span callbacks: %w", op, err)
		}
	}
	return nil
}

func markStart(db *gorm.DB) {
	db.InstanceSet(startedKey, time.Now())
}

func annotate(slow time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement.Context == nil {
			return
		}
		span := trace.SpanFromContext(db.Statement.Context)
		if !span.IsRecording() {
			return
		}

		attrs := []attribute.KeyValue{attribute.Int64("db.rows_affected", db.Statement.RowsAffected)}
		if db.Statement.Table != "" {
			attrs = append(attrs, attribute.String("db.sql.table", db.Statement.Table))
		}
		if v, ok := db.InstanceGet(startedKey); ok {
			if started, ok := v.(time.Time); ok {
				elapsed := time.Since(started)
				attrs = append(attrs, attribute.Int64("db.duration_ms", elapsed.Milliseconds()))
				if slow > 0 && elapsed > slow {
					attrs = append(attrs, attribute.Bool("db.slow_query", true))
					span.AddEvent("slow_query", trace.WithAttributes(
						attribute.Int64("threshold_ms", slow.Milliseconds())))
				}
			}
		}
		span.SetAttributes(attrs...)

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
	}
}
