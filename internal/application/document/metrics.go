package document

import (
	"context"

	"github.com/profitmap/docflow/internal/domain/document"
)

// Metrics records document activity. The telemetry package provides the
// OpenTelemetry implementation.
type Metrics interface {
	RecordNumberIssued(ctx context.Context, docType document.Type)
	RecordSeriesContention(ctx context.Context)
	RecordConversion(ctx context.Context, linked bool)
	RecordNotificationFailure(ctx context.Context)
}

type noopMetrics struct{}

func (noopMetrics) RecordNumberIssued(context.Context, document.Type) {}
func (noopMetrics) RecordSeriesContention(context.Context)            {}
func (noopMetrics) RecordConversion(context.Context, bool)            {}
func (noopMetrics) RecordNotificationFailure(context.Context)         {}
