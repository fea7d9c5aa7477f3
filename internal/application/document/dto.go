package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/shopspring/decimal"
)

// ==================== Requests ====================

// CreateDocumentRequest represents a request to create an offer or an invoice
type CreateDocumentRequest struct {
	CompanyID      uuid.UUID           `json:"company_id" binding:"required"`
	Status         string              `json:"status"`
	DocumentDate   *time.Time          `json:"document_date"`
	ExpirationDate *time.Time          `json:"expiration_date"`
	Client         ClientInput         `json:"client" binding:"required"`
	Items          []DocumentItemInput `json:"items" binding:"dive"`
}

// ClientInput carries the client data frozen into the document's snapshot
type ClientInput struct {
	Name             string     `json:"name" binding:"required,min=1,max=200"`
	Contact          string     `json:"contact" binding:"max=200"`
	Email            string     `json:"email" binding:"omitempty,email"`
	Type             string     `json:"client_type" binding:"omitempty,oneof=COMPANY PERSON"`
	OIB              string     `json:"oib" binding:"max=20"`
	Address          string     `json:"address" binding:"max=500"`
	Surname          string     `json:"surname" binding:"max=200"`
	OriginalClientID *uuid.UUID `json:"original_client_id"`
}

// DocumentItemInput represents one line item in a create request
type DocumentItemInput struct {
	Name               string           `json:"name" binding:"required,min=1,max=200"`
	Comment            string           `json:"comment" binding:"max=1000"`
	Quantity           int              `json:"quantity" binding:"required,gt=0"`
	Price              decimal.Decimal  `json:"price" binding:"required"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
}

// UpdateStatusRequest represents a request to change a document's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ConvertOfferRequest represents a request to convert an offer to an invoice
type ConvertOfferRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// LinkDocumentsRequest represents a request to create a relationship edge
type LinkDocumentsRequest struct {
	SourceDocumentID uuid.UUID `json:"source_document_id" binding:"required"`
	TargetDocumentID uuid.UUID `json:"target_document_id" binding:"required"`
	Type             string    `json:"relationship_type" binding:"required"`
	Notes            string    `json:"notes" binding:"max=1000"`
}

// DocumentListFilter represents paging for document lists
type DocumentListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (r CreateDocumentRequest) toDraft(docType document.Type) document.Draft {
	draft := document.Draft{
		Type:           docType,
		Status:         document.ParseStatus(r.Status),
		ExpirationDate: r.ExpirationDate,
		Items:          make([]document.ItemInput, 0, len(r.Items)),
	}
	if r.DocumentDate != nil {
		draft.DocumentDate = *r.DocumentDate
	}
	for _, it := range r.Items {
		in := document.ItemInput{
			Name:     it.Name,
			Comment:  it.Comment,
			Quantity: it.Quantity,
			Price:    it.Price,
		}
		if it.DiscountPercentage != nil {
			in.DiscountPercentage = *it.DiscountPercentage
		}
		draft.Items = append(draft.Items, in)
	}
	return draft
}

func (c ClientInput) toDetails() document.ClientDetails {
	return document.ClientDetails{
		Name:             c.Name,
		Contact:          c.Contact,
		Email:            c.Email,
		Type:             document.ClientType(c.Type),
		OIB:              c.OIB,
		Address:          c.Address,
		Surname:          c.Surname,
		OriginalClientID: c.OriginalClientID,
	}
}

// ==================== Responses ====================

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID               uuid.UUID              `json:"id"`
	CompanyID        uuid.UUID              `json:"company_id"`
	DocumentType     string                 `json:"document_type"`
	Status           string                 `json:"status"`
	DocumentNumber   string                 `json:"document_number"`
	DocumentDate     time.Time              `json:"document_date"`
	ExpirationDate   *time.Time             `json:"expiration_date,omitempty"`
	Items            []DocumentItemResponse `json:"items"`
	TotalPrice       decimal.Decimal        `json:"total_price"`
	ClientSnapshotID uuid.UUID              `json:"client_snapshot_id"`
	Client           *ClientResponse        `json:"client,omitempty"`
	DeletedAt        *time.Time             `json:"deleted_at,omitempty"`
	Version          int                    `json:"version"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// DocumentItemResponse represents a line item in API responses
type DocumentItemResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Position           int             `json:"position"`
	Name               string          `json:"name"`
	Comment            string          `json:"comment,omitempty"`
	Quantity           int             `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

// ClientResponse represents a client snapshot in API responses
type ClientResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Contact          string     `json:"contact,omitempty"`
	Email            string     `json:"email,omitempty"`
	Type             string     `json:"client_type"`
	OIB              string     `json:"oib,omitempty"`
	Address          string     `json:"address,omitempty"`
	Surname          string     `json:"surname,omitempty"`
	OriginalClientID *uuid.UUID `json:"original_client_id,omitempty"`
	SnapshotDate     time.Time  `json:"snapshot_date"`
}

// RelationshipResponse represents a relationship edge in API responses
type RelationshipResponse struct {
	ID               uuid.UUID `json:"id"`
	SourceDocumentID uuid.UUID `json:"source_document_id"`
	TargetDocumentID uuid.UUID `json:"target_document_id"`
	Type             string    `json:"relationship_type"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToDocumentResponse converts a domain Document to a DocumentResponse
func ToDocumentResponse(d *document.Document) DocumentResponse {
	items := make([]DocumentItemResponse, len(d.Items))
	for i, it := range d.Items {
		items[i] = DocumentItemResponse{
			ID:                 it.ID,
			Position:           it.Position,
			Name:               it.Name,
			Comment:            it.Comment,
			Quantity:           it.Quantity,
			Price:              it.Price,
			DiscountPercentage: it.DiscountPercentage,
			LineTotal:          it.LineTotal().Round(2),
		}
	}
	resp := DocumentResponse{
		ID:               d.ID,
		CompanyID:        d.CompanyID,
		DocumentType:     d.Type.String(),
		Status:           d.Status.String(),
		DocumentNumber:   d.Number,
		DocumentDate:     d.DocumentDate,
		ExpirationDate:   d.ExpirationDate,
		Items:            items,
		TotalPrice:       d.TotalPrice,
		ClientSnapshotID: d.ClientSnapshotID,
		DeletedAt:        d.DeletedAt,
		Version:          d.Version,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if c := d.Client; c != nil {
		resp.Client = &ClientResponse{
			ID:               c.ID,
			Name:             c.Name,
			Contact:          c.Contact,
			Email:            c.Email,
			Type:             string(c.Type),
			OIB:              c.OIB,
			Address:          c.Address,
			Surname:          c.Surname,
			OriginalClientID: c.OriginalClientID,
			SnapshotDate:     c.SnapshotDate,
		}
	}
	return resp
}

// ToDocumentResponses converts a slice of documents
func ToDocumentResponses(docs []document.Document) []DocumentResponse {
	out := make([]DocumentResponse, len(docs))
	for i := range docs {
		out[i] = ToDocumentResponse(&docs[i])
	}
	return out
}

// ToRelationshipResponse converts a domain Relationship to a RelationshipResponse
func ToRelationshipResponse(r *document.Relationship) RelationshipResponse {
	return RelationshipResponse{
		ID:               r.ID,
		SourceDocumentID: r.SourceDocumentID,
		TargetDocumentID: r.TargetDocumentID,
		Type:             r.Type.String(),
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
	}
}

// ToRelationshipResponses converts a slice of relationships
func ToRelationshipResponses(rels []document.Relationship) []RelationshipResponse {
	out := make([]RelationshipResponse, len(rels))
	for i := range rels {
		out[i] = ToRelationshipResponse(&rels[i])
	}
	return out
}
