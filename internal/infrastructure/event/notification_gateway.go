package event

import (
	"context"

	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
	"go.uber.org/zap"
)

// BusNotificationGateway delivers posted-document notifications through an
// in-process event publisher. A handler error is reported back to the caller.
type BusNotificationGateway struct {
	publisher shared.EventPublisher
}

// NewBusNotificationGateway creates a gateway over the given publisher
func NewBusNotificationGateway(publisher shared.EventPublisher) *BusNotificationGateway {
	return &BusNotificationGateway{publisher: publisher}
}

// Notify publishes the event
func (g *BusNotificationGateway) Notify(ctx context.Context, event *document.PostedEvent) error {
	return g.publisher.Publish(ctx, event)
}

var _ document.NotificationGateway = (*BusNotificationGateway)(nil)

// PostedLogHandler records posted documents in the application log. It is the
// default subscriber when no external delivery is configured.
type PostedLogHandler struct {
	logger *zap.Logger
}

// NewPostedLogHandler creates a new PostedLogHandler
func NewPostedLogHandler(logger *zap.Logger) *PostedLogHandler {
	return &PostedLogHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *PostedLogHandler) EventTypes() []string {
	return []string{document.EventTypeDocumentPosted}
}

// Handle logs the posted document
func (h *PostedLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	posted, ok := event.(*document.PostedEvent)
	if !ok {
		return nil
	}
	h.logger.Info("document posted",
		zap.String("document_id", posted.DocumentID.String()),
		zap.String("company_id", posted.CompanyID().String()),
		zap.String("document_number", posted.DocumentNumber),
		zap.String("status", posted.Status.String()),
		zap.String("total_price", posted.TotalPrice.StringFixed(2)),
	)
	return nil
}
