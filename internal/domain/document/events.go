package document

import (
	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeDocumentCreated       = "DocumentCreated"
	EventTypeDocumentStatusChanged = "DocumentStatusChanged"
	EventTypeDocumentPosted        = "DocumentPosted"
)

// CreatedEvent is raised when a document is issued
type CreatedEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID       `json:"document_id"`
	DocumentType   Type            `json:"document_type"`
	DocumentNumber string          `json:"document_number"`
	Status         Status          `json:"status"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

// NewCreatedEvent creates a new CreatedEvent
func NewCreatedEvent(d *Document) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, AggregateType, d.ID, d.CompanyID),
		DocumentID:      d.ID,
		DocumentType:    d.Type,
		DocumentNumber:  d.Number,
		Status:          d.Status,
		TotalPrice:      d.TotalPrice,
	}
}

// StatusChangedEvent is raised on every accepted status change
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID `json:"document_id"`
	DocumentNumber string    `json:"document_number"`
	FromStatus     Status    `json:"from_status"`
	ToStatus       Status    `json:"to_status"`
}

// NewStatusChangedEvent creates a new StatusChangedEvent
func NewStatusChangedEvent(d *Document, from Status) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentStatusChanged, AggregateType, d.ID, d.CompanyID),
		DocumentID:      d.ID,
		DocumentNumber:  d.Number,
		FromStatus:      from,
		ToStatus:        d.Status,
	}
}

// PostedEvent is raised when a document enters a posted status. It is what the
// notification gateway delivers.
type PostedEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID       `json:"document_id"`
	DocumentType   Type            `json:"document_type"`
	DocumentNumber string          `json:"document_number"`
	FromStatus     Status          `json:"from_status,omitempty"`
	Status         Status          `json:"status"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	ClientName     string          `json:"client_name,omitempty"`
	ClientEmail    string          `json:"client_email,omitempty"`
}

// NewPostedEvent creates a new PostedEvent
func NewPostedEvent(d *Document, from Status) *PostedEvent {
	e := &PostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentPosted, AggregateType, d.ID, d.CompanyID),
		DocumentID:      d.ID,
		DocumentType:    d.Type,
		DocumentNumber:  d.Number,
		FromStatus:      from,
		Status:          d.Status,
		TotalPrice:      d.TotalPrice,
	}
	if d.Client != nil {
		e.ClientName = d.Client.Name
		e.ClientEmail = d.Client.Email
	}
	return e
}
