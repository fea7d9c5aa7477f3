package document

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
	"go.uber.org/zap"
)

const maxConflictRetries = 3

// Lifecycle persists status changes and soft deletes and notifies collaborators
// when a document is posted.
type Lifecycle struct {
	docs     document.DocumentRepository
	notifier document.NotificationGateway
	metrics  Metrics
	logger   *zap.Logger
}

// NewLifecycle creates a Lifecycle. A nil notifier disables notifications.
func NewLifecycle(docs document.DocumentRepository, notifier document.NotificationGateway, metrics Metrics, logger *zap.Logger) *Lifecycle {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lifecycle{docs: docs, notifier: notifier, metrics: metrics, logger: logger}
}

// SetStatus changes the status of a document. Concurrent changes to the same
// document are last-writer-wins, except that the transition is re-checked
// against the stored row when another write got in first, so a canceled
// document stays canceled. When the new status is a posted one the
// notification is sent after the change is stored; if it fails the stored
// document is returned together with ErrPartialFailureNotification.
func (l *Lifecycle) SetStatus(ctx context.Context, id uuid.UUID, status document.Status) (*document.Document, error) {
	var (
		doc    *document.Document
		posted bool
	)
	err := l.retryOnConflict(func() error {
		var err error
		doc, err = l.load(ctx, id)
		if err != nil {
			return err
		}
		if doc.IsDeleted() {
			return document.ErrDocumentNotFound.WithMessage("Document %s was deleted", id)
		}
		posted, err = doc.SetStatus(status)
		if err != nil {
			return err
		}
		return l.docs.UpdateStatus(ctx, doc)
	})
	if err != nil {
		return nil, classify(err)
	}

	if posted {
		if err := l.Notify(ctx, doc); err != nil {
			return doc, err
		}
	}
	return doc, nil
}

// Notify sends a posted event. A delivery failure is logged and reported as
// ErrPartialFailureNotification; it never undoes what was already stored.
func (l *Lifecycle) Notify(ctx context.Context, doc *document.Document) error {
	var event *document.PostedEvent
	for _, e := range doc.GetDomainEvents() {
		if posted, ok := e.(*document.PostedEvent); ok {
			event = posted
		}
	}
	doc.ClearDomainEvents()
	if event == nil {
		event = document.NewPostedEvent(doc, "")
	}
	if l.notifier == nil {
		return nil
	}

	if err := l.notifier.Notify(ctx, event); err != nil {
		l.metrics.RecordNotificationFailure(ctx)
		l.logger.Warn("document notification failed",
			zap.String("document_id", doc.ID.String()),
			zap.String("document_number", doc.Number),
			zap.String("status", doc.Status.String()),
			zap.Error(err),
		)
		return shared.ErrPartialFailureNotification.WithCause(err)
	}
	return nil
}

// Resend re-delivers the posted notification of a document that is currently in
// a posted status, without touching its status.
func (l *Lifecycle) Resend(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	doc, err := l.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.Type.IsPosted(doc.Status) {
		return nil, document.ErrNotPosted.WithMessage("Document %s is %s, not posted", doc.Number, doc.Status)
	}
	if err := l.Notify(ctx, doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// SoftDelete marks a document deleted. Deleting an already deleted document is a no-op.
func (l *Lifecycle) SoftDelete(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var doc *document.Document
	err := l.retryOnConflict(func() error {
		var err error
		doc, err = l.load(ctx, id)
		if err != nil {
			return err
		}
		if doc.IsDeleted() {
			return nil
		}
		doc.SoftDelete()
		return l.docs.MarkDeleted(ctx, doc)
	})
	if err != nil {
		return nil, classify(err)
	}
	return doc, nil
}

// retryOnConflict reruns a load-modify-store step while the store reports that
// the row changed underneath it.
func (l *Lifecycle) retryOnConflict(step func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err = step(); !errors.Is(err, document.ErrConcurrentUpdate) {
			return err
		}
		l.logger.Debug("document changed concurrently, retrying", zap.Int("attempt", attempt+1))
	}
	return err
}

func (l *Lifecycle) load(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	doc, err := l.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, document.ErrDocumentNotFound.WithMessage("Document %s not found", id)
		}
		return nil, classify(err)
	}
	return doc, nil
}
