package document

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/shared"
)

// RelationshipType names the business meaning of an edge
type RelationshipType string

const (
	RelationOfferToInvoice          RelationshipType = "OFFER_TO_INVOICE"
	RelationPartialOfferToInvoice   RelationshipType = "PARTIAL_OFFER_TO_INVOICE"
	RelationInvoiceToOffer          RelationshipType = "INVOICE_TO_OFFER"
	RelationMultipleOffersToInvoice RelationshipType = "MULTIPLE_OFFERS_TO_INVOICE"
	RelationOfferReference          RelationshipType = "OFFER_REFERENCE"
	RelationInvoiceReference        RelationshipType = "INVOICE_REFERENCE"
	RelationReplacement             RelationshipType = "REPLACEMENT"
	RelationAmendment               RelationshipType = "AMENDMENT"
	RelationCancellation            RelationshipType = "CANCELLATION"
)

// ParseRelationshipType parses a relationship type, accepting any letter case
func ParseRelationshipType(s string) (RelationshipType, bool) {
	t := RelationshipType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// IsValid checks if the relationship type is known
func (t RelationshipType) IsValid() bool {
	switch t {
	case RelationOfferToInvoice, RelationPartialOfferToInvoice, RelationInvoiceToOffer,
		RelationMultipleOffersToInvoice, RelationOfferReference, RelationInvoiceReference,
		RelationReplacement, RelationAmendment, RelationCancellation:
		return true
	}
	return false
}

func (t RelationshipType) String() string {
	return string(t)
}

// Relationship is a directed, typed edge between two documents. Edges are created
// and removed, never edited. Cycles are allowed; every query over edges is one hop.
type Relationship struct {
	ID               uuid.UUID
	SourceDocumentID uuid.UUID
	TargetDocumentID uuid.UUID
	Type             RelationshipType
	Notes            string
	CreatedAt        time.Time
}

// NewRelationship validates and creates an edge
func NewRelationship(sourceID, targetID uuid.UUID, relType RelationshipType, notes string) (*Relationship, error) {
	if sourceID == targetID {
		return nil, ErrSameDocument
	}
	if sourceID == uuid.Nil || targetID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Source and target document IDs are required")
	}
	if !relType.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Unknown relationship type %q", relType)
	}
	return &Relationship{
		ID:               uuid.New(),
		SourceDocumentID: sourceID,
		TargetDocumentID: targetID,
		Type:             relType,
		Notes:            notes,
		CreatedAt:        time.Now(),
	}, nil
}
