package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	docapp "github.com/profitmap/docflow/internal/application/document"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRelationshipHandler_Link(t *testing.T) {
	source, target := uuid.New(), uuid.New()

	t.Run("created", func(t *testing.T) {
		svc := new(MockDocumentService)
		req := docapp.LinkDocumentsRequest{SourceDocumentID: source, TargetDocumentID: target, Type: "REFERENCES"}
		svc.On("Link", mock.Anything, req).Return(&docapp.RelationshipResponse{
			ID:               uuid.New(),
			SourceDocumentID: source,
			TargetDocumentID: target,
			Type:             "REFERENCES",
			CreatedAt:        time.Now(),
		}, nil)

		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/relationships", map[string]any{
			"source_document_id": source,
			"target_document_id": target,
			"relationship_type":  "REFERENCES",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("duplicate edge", func(t *testing.T) {
		svc := new(MockDocumentService)
		svc.On("Link", mock.Anything, mock.Anything).Return(nil, document.ErrDuplicateRelation)

		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/relationships", map[string]any{
			"source_document_id": source,
			"target_document_id": target,
			"relationship_type":  "REFERENCES",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DUPLICATE_RELATIONSHIP", decode(w).Error.Code)
	})

	t.Run("self edge", func(t *testing.T) {
		svc := new(MockDocumentService)
		svc.On("Link", mock.Anything, mock.Anything).Return(nil, document.ErrSameDocument)

		w := perform(newTestRouter(svc), http.MethodPost, "/api/v1/documents/relationships", map[string]any{
			"source_document_id": source,
			"target_document_id": source,
			"relationship_type":  "REFERENCES",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestRelationshipHandler_Unlink(t *testing.T) {
	svc := new(MockDocumentService)
	id := uuid.New()
	svc.On("Unlink", mock.Anything, id).Return(document.ErrRelationshipNotFound)

	w := perform(newTestRouter(svc), http.MethodDelete, "/api/v1/documents/relationships/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RELATIONSHIP_NOT_FOUND", decode(w).Error.Code)
}

func TestRelationshipHandler_GetRelationship(t *testing.T) {
	id, source, target := uuid.New(), uuid.New(), uuid.New()

	t.Run("found", func(t *testing.T) {
		svc := new(MockDocumentService)
		svc.On("GetRelationship", mock.Anything, id).Return(&docapp.RelationshipResponse{
			ID:               id,
			SourceDocumentID: source,
			TargetDocumentID: target,
			Type:             "OFFER_TO_INVOICE",
		}, nil)

		w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/relationships/"+id.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var rel docapp.RelationshipResponse
		require.NoError(t, json.Unmarshal(decode(w).Data, &rel))
		assert.Equal(t, source, rel.SourceDocumentID)
		assert.Equal(t, "OFFER_TO_INVOICE", rel.Type)
	})

	t.Run("missing", func(t *testing.T) {
		svc := new(MockDocumentService)
		svc.On("GetRelationship", mock.Anything, id).Return(nil, document.ErrRelationshipNotFound)

		w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/relationships/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "RELATIONSHIP_NOT_FOUND", decode(w).Error.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := new(MockDocumentService)
		w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/relationships/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetRelationship", mock.Anything, mock.Anything)
	})
}

func TestRelationshipHandler_RelatedDocuments(t *testing.T) {
	id := uuid.New()
	offer := sampleDocument(document.TypeOffer, "P-2025-00001")
	invoice := sampleDocument(document.TypeInvoice, "R-2025-00001")

	svc := new(MockDocumentService)
	svc.On("RelatedOffers", mock.Anything, id).Return([]docapp.DocumentResponse{*offer}, nil)
	svc.On("RelatedInvoices", mock.Anything, id).Return([]docapp.DocumentResponse{*invoice}, nil)
	router := newTestRouter(svc)

	w := perform(router, http.MethodGet, "/api/v1/documents/"+id.String()+"/related-offers", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "P-2025-00001")

	w = perform(router, http.MethodGet, "/api/v1/documents/"+id.String()+"/related-invoices", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "R-2025-00001")
}

func TestRelationshipHandler_Relationships(t *testing.T) {
	id, companyID := uuid.New(), uuid.New()
	edge := docapp.RelationshipResponse{ID: uuid.New(), SourceDocumentID: id, TargetDocumentID: uuid.New(), Type: "CONVERTED_TO"}

	svc := new(MockDocumentService)
	svc.On("Relationships", mock.Anything, id).Return([]docapp.RelationshipResponse{edge}, nil)
	svc.On("CompanyRelationships", mock.Anything, companyID).Return([]docapp.RelationshipResponse{}, nil)
	router := newTestRouter(svc)

	w := perform(router, http.MethodGet, "/api/v1/documents/"+id.String()+"/relationships", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var rels []docapp.RelationshipResponse
	require.NoError(t, json.Unmarshal(decode(w).Data, &rels))
	assert.Len(t, rels, 1)

	w = perform(router, http.MethodGet, "/api/v1/documents/company/"+companyID.String()+"/relationships", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", string(decode(w).Data))
}

func TestRelationshipHandler_AreRelated(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	svc := new(MockDocumentService)
	svc.On("AreRelated", mock.Anything, a, b).Return(true, nil)

	w := perform(newTestRouter(svc), http.MethodGet, "/api/v1/documents/"+a.String()+"/related-to/"+b.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var related RelatedResponse
	require.NoError(t, json.Unmarshal(decode(w).Data, &related))
	assert.True(t, related.Related)
}
