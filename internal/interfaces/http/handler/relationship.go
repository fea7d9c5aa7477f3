package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	docapp "github.com/profitmap/docflow/internal/application/document"
)

// RelationshipHandler handles the document relationship endpoints
type RelationshipHandler struct {
	BaseHandler
	service DocumentService
}

// NewRelationshipHandler creates a new RelationshipHandler
func NewRelationshipHandler(service DocumentService) *RelationshipHandler {
	return &RelationshipHandler{service: service}
}

// RelatedResponse answers whether two documents share an edge
type RelatedResponse struct {
	DocumentID uuid.UUID `json:"document_id"`
	OtherID    uuid.UUID `json:"other_id"`
	Related    bool      `json:"related"`
}

// Link godoc
// @ID           linkDocuments
// @Summary      Create a relationship between two documents
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Param        request body docapp.LinkDocumentsRequest true "Edge"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /documents/relationships [post]
func (h *RelationshipHandler) Link(c *gin.Context) {
	var req docapp.LinkDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	rel, err := h.service.Link(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rel)
}

// Unlink godoc
// @ID           unlinkDocuments
// @Summary      Delete a relationship
// @Tags         relationships
// @Param        relationshipId path string true "Relationship ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /documents/relationships/{relationshipId} [delete]
func (h *RelationshipHandler) Unlink(c *gin.Context) {
	id, ok := h.uuidParam(c, "relationshipId")
	if !ok {
		return
	}

	if err := h.service.Unlink(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetRelationship godoc
// @ID           getRelationship
// @Summary      Get a relationship by ID
// @Tags         relationships
// @Produce      json
// @Param        relationshipId path string true "Relationship ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /documents/relationships/{relationshipId} [get]
func (h *RelationshipHandler) GetRelationship(c *gin.Context) {
	id, ok := h.uuidParam(c, "relationshipId")
	if !ok {
		return
	}

	rel, err := h.service.GetRelationship(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rel)
}

// RelatedOffers lists the offers an invoice was converted from
func (h *RelationshipHandler) RelatedOffers(c *gin.Context) {
	h.documents(c, h.service.RelatedOffers)
}

// RelatedInvoices lists the invoices an offer was converted to
func (h *RelationshipHandler) RelatedInvoices(c *gin.Context) {
	h.documents(c, h.service.RelatedInvoices)
}

// Relationships lists every edge touching a document
func (h *RelationshipHandler) Relationships(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	rels, err := h.service.Relationships(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rels)
}

// CompanyRelationships lists the edges touching any document of a company
func (h *RelationshipHandler) CompanyRelationships(c *gin.Context) {
	companyID, ok := h.uuidParam(c, "companyId")
	if !ok {
		return
	}

	rels, err := h.service.CompanyRelationships(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rels)
}

// AreRelated reports whether an edge exists between two documents in either direction
func (h *RelationshipHandler) AreRelated(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	otherID, ok := h.uuidParam(c, "otherId")
	if !ok {
		return
	}

	related, err := h.service.AreRelated(c.Request.Context(), id, otherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RelatedResponse{DocumentID: id, OtherID: otherID, Related: related})
}

func (h *RelationshipHandler) documents(c *gin.Context, fetch func(context.Context, uuid.UUID) ([]docapp.DocumentResponse, error)) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	docs, err := fetch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, docs)
}
