package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	docapp "github.com/profitmap/docflow/internal/application/document"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
)

// DocumentService is the application service behind the document endpoints
type DocumentService interface {
	CreateDocument(ctx context.Context, docType document.Type, req docapp.CreateDocumentRequest) (*docapp.DocumentResponse, error)
	ConvertOfferToInvoice(ctx context.Context, offerID uuid.UUID, notes string) (*docapp.DocumentResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req docapp.UpdateStatusRequest) (*docapp.DocumentResponse, error)
	ResendNotification(ctx context.Context, id uuid.UUID) (*docapp.DocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*docapp.DocumentResponse, error)
	GetByNumber(ctx context.Context, companyID uuid.UUID, number string) (*docapp.DocumentResponse, error)
	ListActive(ctx context.Context, companyID uuid.UUID, docType *document.Type, filter docapp.DocumentListFilter) (*shared.Paginated[docapp.DocumentResponse], error)
	CountActive(ctx context.Context, companyID uuid.UUID, docType document.Type) (int64, error)
	Link(ctx context.Context, req docapp.LinkDocumentsRequest) (*docapp.RelationshipResponse, error)
	Unlink(ctx context.Context, relationshipID uuid.UUID) error
	GetRelationship(ctx context.Context, relationshipID uuid.UUID) (*docapp.RelationshipResponse, error)
	RelatedOffers(ctx context.Context, invoiceID uuid.UUID) ([]docapp.DocumentResponse, error)
	RelatedInvoices(ctx context.Context, offerID uuid.UUID) ([]docapp.DocumentResponse, error)
	Relationships(ctx context.Context, documentID uuid.UUID) ([]docapp.RelationshipResponse, error)
	CompanyRelationships(ctx context.Context, companyID uuid.UUID) ([]docapp.RelationshipResponse, error)
	AreRelated(ctx context.Context, a, b uuid.UUID) (bool, error)
}

var _ DocumentService = (*docapp.Service)(nil)

// DocumentHandler handles offer and invoice endpoints
type DocumentHandler struct {
	BaseHandler
	service DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// CountResponse carries a document count
type CountResponse struct {
	CompanyID    uuid.UUID `json:"company_id"`
	DocumentType string    `json:"document_type"`
	Count        int64     `json:"count"`
}

// CreateOffer godoc
// @ID           createOffer
// @Summary      Create an offer
// @Description  Issues the next offer number of the company and stores the offer with a client snapshot
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        request body docapp.CreateDocumentRequest true "Offer"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /documents/offers [post]
func (h *DocumentHandler) CreateOffer(c *gin.Context) {
	h.create(c, document.TypeOffer)
}

// CreateInvoice godoc
// @ID           createInvoice
// @Summary      Create an invoice
// @Description  Issues the next invoice number of the company. An invoice created as PENDING is notified.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        request body docapp.CreateDocumentRequest true "Invoice"
// @Success      201 {object} dto.Response
// @Success      207 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /documents/invoices [post]
func (h *DocumentHandler) CreateInvoice(c *gin.Context) {
	h.create(c, document.TypeInvoice)
}

func (h *DocumentHandler) create(c *gin.Context, docType document.Type) {
	var req docapp.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	doc, err := h.service.CreateDocument(c.Request.Context(), docType, req)
	h.Respond(c, http.StatusCreated, responseOrNil(doc), err)
}

// GetByID godoc
// @ID           getDocument
// @Summary      Get a document
// @Description  Returns a document by ID, including a soft-deleted one
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// GetByNumber returns an active document by its number within a company
func (h *DocumentHandler) GetByNumber(c *gin.Context) {
	companyID, ok := h.uuidParam(c, "companyId")
	if !ok {
		return
	}

	doc, err := h.service.GetByNumber(c.Request.Context(), companyID, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// ListByCompany godoc
// @ID           listCompanyDocuments
// @Summary      List active documents of a company
// @Description  Offers and invoices that are not soft-deleted, newest document date first
// @Tags         documents
// @Produce      json
// @Param        companyId path string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Router       /documents/company/{companyId} [get]
func (h *DocumentHandler) ListByCompany(c *gin.Context) {
	h.list(c, nil)
}

// ListByCompanyAndType lists the active documents of one type
func (h *DocumentHandler) ListByCompanyAndType(c *gin.Context) {
	docType, ok := h.typeParam(c)
	if !ok {
		return
	}
	h.list(c, &docType)
}

func (h *DocumentHandler) list(c *gin.Context, docType *document.Type) {
	companyID, ok := h.uuidParam(c, "companyId")
	if !ok {
		return
	}
	var filter docapp.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.service.ListActive(c.Request.Context(), companyID, docType, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// CountByCompanyAndType counts the active documents of one type
func (h *DocumentHandler) CountByCompanyAndType(c *gin.Context) {
	companyID, ok := h.uuidParam(c, "companyId")
	if !ok {
		return
	}
	docType, ok := h.typeParam(c)
	if !ok {
		return
	}

	n, err := h.service.CountActive(c.Request.Context(), companyID, docType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountResponse{CompanyID: companyID, DocumentType: docType.String(), Count: n})
}

// UpdateStatus godoc
// @ID           updateDocumentStatus
// @Summary      Change a document's status
// @Description  Applies a status transition. Moving an invoice to PENDING notifies the client.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body docapp.UpdateStatusRequest true "New status"
// @Success      200 {object} dto.Response
// @Success      207 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /documents/{id}/status [patch]
func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req docapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	doc, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	h.Respond(c, http.StatusOK, responseOrNil(doc), err)
}

// ConvertToInvoice godoc
// @ID           convertOfferToInvoice
// @Summary      Convert an offer to an invoice
// @Description  Copies the offer's client and items into a new invoice and links them with a CONVERTED_TO edge
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Offer ID" format(uuid)
// @Param        request body docapp.ConvertOfferRequest false "Conversion notes"
// @Success      201 {object} dto.Response
// @Success      207 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /documents/{id}/convert-to-invoice [post]
func (h *DocumentHandler) ConvertToInvoice(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req docapp.ConvertOfferRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	doc, err := h.service.ConvertOfferToInvoice(c.Request.Context(), id, req.Notes)
	h.Respond(c, http.StatusCreated, responseOrNil(doc), err)
}

// ResendNotification re-delivers the posted notification of a document
func (h *DocumentHandler) ResendNotification(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.ResendNotification(c.Request.Context(), id)
	h.Respond(c, http.StatusOK, responseOrNil(doc), err)
}

// Delete godoc
// @ID           deleteDocument
// @Summary      Soft-delete a document
// @Tags         documents
// @Param        id path string true "Document ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *DocumentHandler) typeParam(c *gin.Context) (document.Type, bool) {
	docType, ok := document.ParseType(c.Param("type"))
	if !ok {
		h.BadRequest(c, "Invalid document type: must be OFFER or INVOICE")
		return "", false
	}
	return docType, true
}

// responseOrNil keeps a nil pointer from turning into a non-nil interface
func responseOrNil[T any](v *T) any {
	if v == nil {
		return nil
	}
	return v
}
