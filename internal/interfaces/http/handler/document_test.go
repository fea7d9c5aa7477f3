package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	docapp "github.com/profitmap/docflow/internal/application/document"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleDocument(docType document.Type, number string) *docapp.DocumentResponse {
	return &docapp.DocumentResponse{
		ID:             uuid.New(),
		CompanyID:      uuid.New(),
		DocumentType:   docType.String(),
		Status:         "DRAFT",
		DocumentNumber: number,
		DocumentDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		TotalPrice:     decimal.RequireFromString("150.00"),
	}
}

func TestDocumentHandler_CreateOffer(t *testing.T) {
	companyID := uuid.New()

	t.Run("creates offer", func(t *testing.T) {
		svc := new(MockDocumentService)
		created := sampleDocument(document.TypeOffer, "P-2025-00001")
		svc.On("CreateDocument", mock.Anything, document.TypeOffer, mock.MatchedBy(func(req docapp.CreateDocumentRequest) bool {
			return req.CompanyID == companyID && req.Client.Name == "Acme" && len(req.Items) == 1 &&
				req.Items[0].Price.Equal(decimal.RequireFromString("75"))
		})).Return(created, nil)

		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/offers", map[string]any{
			"company_id": companyID,
			"client":     map[string]any{"name": "Acme", "client_type": "COMPANY"},
			"items":      []map[string]any{{"name": "Audit", "quantity": 2, "price": "75"}},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decode(w)
		assert.True(t, resp.Success)
		var doc docapp.DocumentResponse
		require.NoError(t, json.Unmarshal(resp.Data, &doc))
		assert.Equal(t, "P-2025-00001", doc.DocumentNumber)
		svc.AssertExpectations(t)
	})

	t.Run("validation errors list fields", func(t *testing.T) {
		svc := new(MockDocumentService)
		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/offers", map[string]any{
			"client": map[string]any{"email": "nope"},
			"items":  []map[string]any{{"name": "Audit", "quantity": 0, "price": "1"}},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(w)
		require.NotNil(t, resp.Error)
		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.Contains(t, fields, "company_id")
		assert.Contains(t, fields, "client.name")
		assert.Contains(t, fields, "items[0].quantity")
		svc.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		svc := new(MockDocumentService)
		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/offers", `{"company_id":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown company", func(t *testing.T) {
		svc := new(MockDocumentService)
		svc.On("CreateDocument", mock.Anything, document.TypeOffer, mock.Anything).
			Return(nil, document.ErrCompanyNotFound)

		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/offers", map[string]any{
			"company_id": companyID,
			"client":     map[string]any{"name": "Acme"},
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decode(w)
		assert.Equal(t, "COMPANY_NOT_FOUND", resp.Error.Code)
		assert.Equal(t, shared.CategoryNotFound, resp.Error.Category)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("series contention", func(t *testing.T) {
		svc := new(MockDocumentService)
		svc.On("CreateDocument", mock.Anything, document.TypeOffer, mock.Anything).
			Return(nil, shared.ErrResourceContention)

		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/offers", map[string]any{
			"company_id": companyID,
			"client":     map[string]any{"name": "Acme"},
		})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, shared.CategoryResourceContention, decode(w).Error.Category)
	})
}

func TestDocumentHandler_CreateInvoice_NotificationFailure(t *testing.T) {
	svc := new(MockDocumentService)
	created := sampleDocument(document.TypeInvoice, "R-2025-00007")
	created.Status = "PENDING"
	svc.On("CreateDocument", mock.Anything, document.TypeInvoice, mock.Anything).
		Return(created, shared.ErrPartialFailureNotification)

	w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/invoices", map[string]any{
		"company_id": uuid.New(),
		"status":     "PENDING",
		"client":     map[string]any{"name": "Acme"},
	})

	assert.Equal(t, http.StatusMultiStatus, w.Code)
	resp := decode(w)
	assert.False(t, resp.Success)
	assert.Equal(t, shared.CategoryPartialFailureNotification, resp.Error.Category)
	var doc docapp.DocumentResponse
	require.NoError(t, json.Unmarshal(resp.Data, &doc))
	assert.Equal(t, "R-2025-00007", doc.DocumentNumber)
}

func TestDocumentHandler_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockDocumentService)
		doc := sampleDocument(document.TypeOffer, "P-2025-00003")
		svc.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

		w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/"+doc.ID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode(w).Success)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockDocumentService)
		w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockDocumentService)
		id := uuid.New()
		svc.On("GetByID", mock.Anything, id).Return(nil, document.ErrDocumentNotFound)

		w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "DOCUMENT_NOT_FOUND", decode(w).Error.Code)
	})

	t.Run("unexpected error hides details", func(t *testing.T) {
		svc := new(MockDocumentService)
		id := uuid.New()
		svc.On("GetByID", mock.Anything, id).Return(nil, errors.New("pq: password authentication failed"))

		w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/"+id.String(), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
	})
}

func TestDocumentHandler_GetByNumber(t *testing.T) {
	svc := new(MockDocumentService)
	companyID := uuid.New()
	doc := sampleDocument(document.TypeInvoice, "R-2025-00002")
	svc.On("GetByNumber", mock.Anything, companyID, "R-2025-00002").Return(doc, nil)

	w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/company/"+companyID.String()+"/number/R-2025-00002", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestDocumentHandler_List(t *testing.T) {
	companyID := uuid.New()
	page := &shared.Paginated[docapp.DocumentResponse]{
		Items:      []docapp.DocumentResponse{*sampleDocument(document.TypeOffer, "P-2025-00001")},
		Total:      21,
		Page:       2,
		PageSize:   10,
		TotalPages: 3,
	}

	t.Run("all types", func(t *testing.T) {
		svc := new(MockDocumentService)
		svc.On("ListActive", mock.Anything, companyID, (*document.Type)(nil), docapp.DocumentListFilter{Page: 2, PageSize: 10}).
			Return(page, nil)

		w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/company/"+companyID.String()+"?page=2&page_size=10", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(21), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("by type in any case", func(t *testing.T) {
		svc := new(MockDocumentService)
		svc.On("ListActive", mock.Anything, companyID, mock.MatchedBy(func(tp *document.Type) bool {
			return tp != nil && *tp == document.TypeInvoice
		}), docapp.DocumentListFilter{}).Return(page, nil)

		w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/company/"+companyID.String()+"/type/invoice", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown type", func(t *testing.T) {
		svc := new(MockDocumentService)
		w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/company/"+companyID.String()+"/type/receipt", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("page size over limit", func(t *testing.T) {
		svc := new(MockDocumentService)
		w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/company/"+companyID.String()+"?page_size=500", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDocumentHandler_Count(t *testing.T) {
	svc := new(MockDocumentService)
	companyID := uuid.New()
	svc.On("CountActive", mock.Anything, companyID, document.TypeOffer).Return(int64(4), nil)

	w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/company/"+companyID.String()+"/type/OFFER/count", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var count CountResponse
	require.NoError(t, json.Unmarshal(decode(w).Data, &count))
	assert.Equal(t, int64(4), count.Count)
	assert.Equal(t, "OFFER", count.DocumentType)
}

func TestDocumentHandler_UpdateStatus(t *testing.T) {
	id := uuid.New()

	t.Run("updated", func(t *testing.T) {
		svc := new(MockDocumentService)
		doc := sampleDocument(document.TypeOffer, "P-2025-00001")
		doc.Status = "SENT"
		svc.On("UpdateStatus", mock.Anything, id, docapp.UpdateStatusRequest{Status: "SENT"}).Return(doc, nil)

		w := perform(newTestRouter(svc), http.MethodPatch, "/api/v1/documents/"+id.String()+"/status", map[string]string{"status": "SENT"})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("status outside the type", func(t *testing.T) {
		svc := new(MockDocumentService)
		svc.On("UpdateStatus", mock.Anything, id, docapp.UpdateStatusRequest{Status: "PAID"}).
			Return(nil, document.ErrInvalidStatus)

		w := perform(newTestRouter(svc), http.MethodPatch, "/api/v1/documents/"+id.String()+"/status", map[string]string{"status": "PAID"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "INVALID_STATUS", decode(w).Error.Code)
	})

	t.Run("missing status", func(t *testing.T) {
		svc := new(MockDocumentService)
		w := perform(newTestRouter(svc), http.MethodPatch, "/api/v1/documents/"+id.String()+"/status", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDocumentHandler_ConvertToInvoice(t *testing.T) {
	offerID := uuid.New()

	t.Run("converted without body", func(t *testing.T) {
		svc := new(MockDocumentService)
		inv := sampleDocument(document.TypeInvoice, "R-2025-00001")
		svc.On("ConvertOfferToInvoice", mock.Anything, offerID, "").Return(inv, nil)

		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/"+offerID.String()+"/convert-to-invoice", nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("notes are passed on", func(t *testing.T) {
		svc := new(MockDocumentService)
		inv := sampleDocument(document.TypeInvoice, "R-2025-00002")
		svc.On("ConvertOfferToInvoice", mock.Anything, offerID, "accepted by phone").Return(inv, nil)

		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/"+offerID.String()+"/convert-to-invoice",
			map[string]string{"notes": "accepted by phone"})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("not an offer", func(t *testing.T) {
		svc := new(MockDocumentService)
		svc.On("ConvertOfferToInvoice", mock.Anything, offerID, "").Return(nil, document.ErrNotAnOffer)

		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/"+offerID.String()+"/convert-to-invoice", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "NOT_AN_OFFER", decode(w).Error.Code)
	})

	t.Run("linkage failure keeps the invoice", func(t *testing.T) {
		svc := new(MockDocumentService)
		inv := sampleDocument(document.TypeInvoice, "R-2025-00003")
		svc.On("ConvertOfferToInvoice", mock.Anything, offerID, "").Return(inv, shared.ErrPartialFailureLinkage)

		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/"+offerID.String()+"/convert-to-invoice", nil)

		assert.Equal(t, http.StatusMultiStatus, w.Code)
		resp := decode(w)
		assert.Equal(t, shared.CategoryPartialFailureLinkage, resp.Error.Category)
		assert.Contains(t, string(resp.Data), "R-2025-00003")
	})
}

func TestDocumentHandler_ResendNotification(t *testing.T) {
	svc := new(MockDocumentService)
	id := uuid.New()
	svc.On("ResendNotification", mock.Anything, id).Return(nil, document.ErrNotPosted)

	w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/"+id.String()+"/notify", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "NOT_POSTED", decode(w).Error.Code)
}

func TestDocumentHandler_Delete(t *testing.T) {
	svc := new(MockDocumentService)
	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)

	w := perform(newTestRouter(svc), http.MethodDelete, "/api/v1/documents/"+id.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
