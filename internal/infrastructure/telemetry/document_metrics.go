package telemetry

import (
	"context"
	"errors"

	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/infrastructure/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("NewDocumentMetrics: meter cannot be nil")

// DocumentMetrics counts numbering, conversion and notification activity.
type DocumentMetrics struct {
	logger *zap.Logger

	numbersIssued        *Counter
	seriesContention     *Counter
	conversions          *Counter
	notificationFailures *Counter
}

// NewDocumentMetrics creates the document counters on the given meter
func NewDocumentMetrics(meter metric.Meter, log *zap.Logger) (*DocumentMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if log == nil {
		log = zap.NewNop()
	}

	m := &DocumentMetrics{logger: log}
	var err error

	if m.numbersIssued, err = NewCounter(meter,
		"docflow_document_numbers_issued_total",
		"Document numbers issued from company series",
		"{numbers}",
	); err != nil {
		return nil, err
	}
	if m.seriesContention, err = NewCounter(meter,
		"docflow_series_contention_total",
		"Number requests rejected because the series lock could not be acquired in time",
		"{requests}",
	); err != nil {
		return nil, err
	}
	if m.conversions, err = NewCounter(meter,
		"docflow_offer_conversions_total",
		"Offers converted into invoices",
		"{conversions}",
	); err != nil {
		return nil, err
	}
	if m.notificationFailures, err = NewCounter(meter,
		"docflow_notification_failures_total",
		"Posted-document notifications that could not be delivered",
		"{notifications}",
	); err != nil {
		return nil, err
	}

	return m, nil
}

func companyAttrs(ctx context.Context, attrs ...attribute.KeyValue) []attribute.KeyValue {
	if id := logger.GetCompanyID(ctx); id != "" {
		attrs = append(attrs, AttrCompanyID.String(id))
	}
	return attrs
}

// RecordNumberIssued counts a number issued for a document of the given type
func (m *DocumentMetrics) RecordNumberIssued(ctx context.Context, docType document.Type) {
	m.numbersIssued.Inc(ctx, companyAttrs(ctx, AttrDocumentType.String(docType.String()))...)
}

// RecordSeriesContention counts a lock timeout on a series
func (m *DocumentMetrics) RecordSeriesContention(ctx context.Context) {
	m.seriesContention.Inc(ctx, companyAttrs(ctx)...)
	m.logger.Debug("series lock contention", logger.Fields(ctx)...)
}

// RecordConversion counts an offer conversion. linked is false when the invoice
// was saved but its relationship to the offer could not be created.
func (m *DocumentMetrics) RecordConversion(ctx context.Context, linked bool) {
	m.conversions.Inc(ctx, companyAttrs(ctx, AttrLinked.Bool(linked))...)
}

// RecordNotificationFailure counts an undelivered notification
func (m *DocumentMetrics) RecordNotificationFailure(ctx context.Context) {
	m.notificationFailures.Inc(ctx, companyAttrs(ctx)...)
}
