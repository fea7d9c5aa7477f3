package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDBTracing installs the otelgorm plugin so every statement gets a span.
// Lock statements (SELECT ... FOR UPDATE on a series row) are tagged so lock
// waits can be told apart from ordinary reads.
func RegisterDBTracing(db *gorm.DB, dbSystem string, logFullSQL bool, log *zap.Logger) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(dbSystem)}
	if !logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := db.Callback().Query().After("gorm:query").Register("docflow:lock_span", lockSpanCallback); err != nil {
		return err
	}

	log.Info("Database tracing enabled",
		zap.String("db_system", dbSystem),
		zap.Bool("log_full_sql", logFullSQL),
	)
	return nil
}

func lockSpanCallback(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if _, locking := db.Statement.Clauses["FOR"]; locking {
		span.SetAttributes(
			attribute.Bool("db.row_lock", true),
			attribute.String("db.sql.table", db.Statement.Table),
		)
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetAttributes(attribute.String("db.error", db.Error.Error()))
	}
}
