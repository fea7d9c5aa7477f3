package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	docapp "github.com/profitmap/docflow/internal/application/document"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/profitmap/docflow/internal/interfaces/http/dto"
	"github.com/profitmap/docflow/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// MockDocumentService implements DocumentService for testing
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) CreateDocument(ctx context.Context, docType document.Type, req docapp.CreateDocumentRequest) (*docapp.DocumentResponse, error) {
	args := m.Called(ctx, docType, req)
	return docResult(args)
}

func (m *MockDocumentService) ConvertOfferToInvoice(ctx context.Context, offerID uuid.UUID, notes string) (*docapp.DocumentResponse, error) {
	args := m.Called(ctx, offerID, notes)
	return docResult(args)
}

func (m *MockDocumentService) UpdateStatus(ctx context.Context, id uuid.UUID, req docapp.UpdateStatusRequest) (*docapp.DocumentResponse, error) {
	args := m.Called(ctx, id, req)
	return docResult(args)
}

func (m *MockDocumentService) ResendNotification(ctx context.Context, id uuid.UUID) (*docapp.DocumentResponse, error) {
	args := m.Called(ctx, id)
	return docResult(args)
}

func (m *MockDocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentService) GetByID(ctx context.Context, id uuid.UUID) (*docapp.DocumentResponse, error) {
	args := m.Called(ctx, id)
	return docResult(args)
}

func (m *MockDocumentService) GetByNumber(ctx context.Context, companyID uuid.UUID, number string) (*docapp.DocumentResponse, error) {
	args := m.Called(ctx, companyID, number)
	return docResult(args)
}

func (m *MockDocumentService) ListActive(ctx context.Context, companyID uuid.UUID, docType *document.Type, filter docapp.DocumentListFilter) (*shared.Paginated[docapp.DocumentResponse], error) {
	args := m.Called(ctx, companyID, docType, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[docapp.DocumentResponse]), args.Error(1)
}

func (m *MockDocumentService) CountActive(ctx context.Context, companyID uuid.UUID, docType document.Type) (int64, error) {
	args := m.Called(ctx, companyID, docType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentService) Link(ctx context.Context, req docapp.LinkDocumentsRequest) (*docapp.RelationshipResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docapp.RelationshipResponse), args.Error(1)
}

func (m *MockDocumentService) Unlink(ctx context.Context, relationshipID uuid.UUID) error {
	args := m.Called(ctx, relationshipID)
	return args.Error(0)
}

func (m *MockDocumentService) GetRelationship(ctx context.Context, relationshipID uuid.UUID) (*docapp.RelationshipResponse, error) {
	args := m.Called(ctx, relationshipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docapp.RelationshipResponse), args.Error(1)
}

func (m *MockDocumentService) RelatedOffers(ctx context.Context, invoiceID uuid.UUID) ([]docapp.DocumentResponse, error) {
	args := m.Called(ctx, invoiceID)
	return docsResult(args)
}

func (m *MockDocumentService) RelatedInvoices(ctx context.Context, offerID uuid.UUID) ([]docapp.DocumentResponse, error) {
	args := m.Called(ctx, offerID)
	return docsResult(args)
}

func (m *MockDocumentService) Relationships(ctx context.Context, documentID uuid.UUID) ([]docapp.RelationshipResponse, error) {
	args := m.Called(ctx, documentID)
	return relsResult(args)
}

func (m *MockDocumentService) CompanyRelationships(ctx context.Context, companyID uuid.UUID) ([]docapp.RelationshipResponse, error) {
	args := m.Called(ctx, companyID)
	return relsResult(args)
}

func (m *MockDocumentService) AreRelated(ctx context.Context, a, b uuid.UUID) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func docResult(args mock.Arguments) (*docapp.DocumentResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docapp.DocumentResponse), args.Error(1)
}

func docsResult(args mock.Arguments) ([]docapp.DocumentResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]docapp.DocumentResponse), args.Error(1)
}

func relsResult(args mock.Arguments) ([]docapp.RelationshipResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]docapp.RelationshipResponse), args.Error(1)
}

func newTestRouter(svc DocumentService) *gin.Engine {
	docs := NewDocumentHandler(svc)
	rels := NewRelationshipHandler(svc)

	r := gin.New()
	r.Use(middleware.RequestID())
	g := r.Group("/api/v1/documents")
	g.POST("/offers", docs.CreateOffer)
	g.POST("/invoices", docs.CreateInvoice)
	g.GET("/company/:companyId", docs.ListByCompany)
	g.GET("/company/:companyId/type/:type", docs.ListByCompanyAndType)
	g.GET("/company/:companyId/type/:type/count", docs.CountByCompanyAndType)
	g.GET("/company/:companyId/number/:number", docs.GetByNumber)
	g.GET("/company/:companyId/relationships", rels.CompanyRelationships)
	g.GET("/:id", docs.GetByID)
	g.DELETE("/:id", docs.Delete)
	g.PATCH("/:id/status", docs.UpdateStatus)
	g.POST("/:id/convert-to-invoice", docs.ConvertToInvoice)
	g.POST("/:id/notify", docs.ResendNotification)
	g.POST("/relationships", rels.Link)
	g.GET("/relationships/:relationshipId", rels.GetRelationship)
	g.DELETE("/relationships/:relationshipId", rels.Unlink)
	g.GET("/:id/related-offers", rels.RelatedOffers)
	g.GET("/:id/related-invoices", rels.RelatedInvoices)
	g.GET("/:id/relationships", rels.Relationships)
	g.GET("/:id/related-to/:otherId", rels.AreRelated)
	return r
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decoded mirrors dto.Response with a raw data payload
type decoded struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(w *httptest.ResponseRecorder) decoded {
	var out decoded
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}
