package document

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
	"go.uber.org/zap"
)

// Service orchestrates document creation, conversion and relationship queries
type Service struct {
	companies document.CompanyDirectory
	scope     TransactionScope
	docs      document.DocumentRepository
	lifecycle *Lifecycle
	graph     *RelationshipGraph
	metrics   Metrics
	logger    *zap.Logger
}

// ServiceOption is a functional option for configuring the Service
type ServiceOption func(*Service)

// WithMetrics sets the metrics recorder
func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new document Service
func NewService(
	companies document.CompanyDirectory,
	scope TransactionScope,
	docs document.DocumentRepository,
	rels document.RelationshipRepository,
	notifier document.NotificationGateway,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		companies: companies,
		scope:     scope,
		docs:      docs,
		metrics:   noopMetrics{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lifecycle = NewLifecycle(docs, notifier, s.metrics, s.logger)
	s.graph = NewRelationshipGraph(docs, rels, s.logger)
	return s
}

// CreateDocument creates an offer or invoice. The client snapshot, the series
// increment and the document are committed together or not at all. A document
// created directly in a posted status is notified after commit; if that fails the
// document is returned with ErrPartialFailureNotification.
func (s *Service) CreateDocument(ctx context.Context, docType document.Type, req CreateDocumentRequest) (*DocumentResponse, error) {
	draft := req.toDraft(docType)
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	snapshot, err := document.NewClientSnapshot(req.Client.toDetails())
	if err != nil {
		return nil, err
	}
	company, err := s.findCompany(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	key, err := company.SeriesFor(docType)
	if err != nil {
		return nil, err
	}

	var doc *document.Document
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Snapshots().Create(ctx, snapshot); err != nil {
			return err
		}
		number, err := NewSeriesCounter(repos.Series(), s.metrics).IssueNumber(ctx, key)
		if err != nil {
			return err
		}
		doc, err = document.NewDocument(company.ID, number, draft, snapshot)
		if err != nil {
			return err
		}
		return repos.Documents().Create(ctx, doc)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.metrics.RecordNumberIssued(ctx, docType)
	s.logger.Info("document created",
		zap.String("company_id", company.ID.String()),
		zap.String("document_id", doc.ID.String()),
		zap.String("document_number", doc.Number),
		zap.String("status", doc.Status.String()),
	)

	resp := ToDocumentResponse(doc)
	if doc.Type.IsPosted(doc.Status) {
		if err := s.lifecycle.Notify(ctx, doc); err != nil {
			return &resp, err
		}
	}
	return &resp, nil
}

// ConvertOfferToInvoice mints a new invoice from an offer and links them with an
// OFFER_TO_INVOICE edge. The invoice is committed before linking; if linking fails
// the invoice is returned with ErrPartialFailureLinkage and only Link should be
// retried, since converting again would issue another invoice number.
func (s *Service) ConvertOfferToInvoice(ctx context.Context, offerID uuid.UUID, notes string) (*DocumentResponse, error) {
	offer, err := s.findDocument(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.IsDeleted() {
		return nil, document.ErrDocumentNotFound.WithMessage("Offer %s was deleted", offerID)
	}
	if offer.Type != document.TypeOffer {
		return nil, document.ErrNotAnOffer.WithMessage("Document %s is %s, only offers can be converted", offer.Number, offer.Type)
	}
	company, err := s.findCompany(ctx, offer.CompanyID)
	if err != nil {
		return nil, err
	}
	key, err := company.SeriesFor(document.TypeInvoice)
	if err != nil {
		return nil, err
	}

	var invoice *document.Document
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := NewSeriesCounter(repos.Series(), s.metrics).IssueNumber(ctx, key)
		if err != nil {
			return err
		}
		invoice, err = document.NewInvoiceFromOffer(offer, number)
		if err != nil {
			return err
		}
		return repos.Documents().Create(ctx, invoice)
	})
	if err != nil {
		return nil, classify(err)
	}
	s.metrics.RecordNumberIssued(ctx, document.TypeInvoice)

	resp := ToDocumentResponse(invoice)
	if _, err := s.graph.Link(ctx, offer.ID, invoice.ID, document.RelationOfferToInvoice, notes); err != nil {
		s.metrics.RecordConversion(ctx, false)
		s.logger.Warn("offer converted but relationship was not created",
			zap.String("offer_id", offer.ID.String()),
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("invoice_number", invoice.Number),
			zap.Error(err),
		)
		return &resp, shared.ErrPartialFailureLinkage.WithCause(err)
	}

	s.metrics.RecordConversion(ctx, true)
	s.logger.Info("offer converted to invoice",
		zap.String("offer_id", offer.ID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.Number),
	)
	return &resp, nil
}

// UpdateStatus changes a document's status. On notification failure the updated
// document is returned together with ErrPartialFailureNotification.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*DocumentResponse, error) {
	doc, err := s.lifecycle.SetStatus(ctx, id, document.ParseStatus(req.Status))
	if doc == nil {
		return nil, err
	}
	resp := ToDocumentResponse(doc)
	return &resp, err
}

// ResendNotification re-delivers the posted notification of a document
func (s *Service) ResendNotification(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.lifecycle.Resend(ctx, id)
	if doc == nil {
		return nil, err
	}
	resp := ToDocumentResponse(doc)
	return &resp, err
}

// Delete soft-deletes a document. Deleting twice is not an error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.lifecycle.SoftDelete(ctx, id)
	return err
}

// GetByID returns a document, including a soft-deleted one
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.findDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// GetByNumber returns an active document by its number within a company
func (s *Service) GetByNumber(ctx context.Context, companyID uuid.UUID, number string) (*DocumentResponse, error) {
	doc, err := s.docs.FindByNumber(ctx, companyID, number)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, document.ErrDocumentNotFound.WithMessage("Document %s not found", number)
		}
		return nil, classify(err)
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// ListActive lists the company's active documents, newest document date first.
// A nil docType lists both offers and invoices.
func (s *Service) ListActive(ctx context.Context, companyID uuid.UUID, docType *document.Type, filter DocumentListFilter) (*shared.Paginated[DocumentResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	f := shared.DefaultFilter()
	f.Page = filter.Page
	f.PageSize = filter.PageSize

	docs, total, err := s.docs.FindActive(ctx, companyID, docType, f)
	if err != nil {
		return nil, classify(err)
	}
	page := shared.NewPaginated(ToDocumentResponses(docs), total, f.Page, f.PageSize)
	return &page, nil
}

// CountActive counts the company's active documents of a type
func (s *Service) CountActive(ctx context.Context, companyID uuid.UUID, docType document.Type) (int64, error) {
	n, err := s.docs.CountActive(ctx, companyID, docType)
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// Link creates a relationship edge between two documents
func (s *Service) Link(ctx context.Context, req LinkDocumentsRequest) (*RelationshipResponse, error) {
	relType, ok := document.ParseRelationshipType(req.Type)
	if !ok {
		return nil, shared.ErrInvalidInput.WithMessage("Unknown relationship type %q", req.Type)
	}
	rel, err := s.graph.Link(ctx, req.SourceDocumentID, req.TargetDocumentID, relType, req.Notes)
	if err != nil {
		return nil, err
	}
	resp := ToRelationshipResponse(rel)
	return &resp, nil
}

// Unlink removes a relationship edge
func (s *Service) Unlink(ctx context.Context, relationshipID uuid.UUID) error {
	return s.graph.Unlink(ctx, relationshipID)
}

// GetRelationship returns a single relationship edge
func (s *Service) GetRelationship(ctx context.Context, relationshipID uuid.UUID) (*RelationshipResponse, error) {
	rel, err := s.graph.Get(ctx, relationshipID)
	if err != nil {
		return nil, err
	}
	resp := ToRelationshipResponse(rel)
	return &resp, nil
}

// RelatedOffers returns the offers related to an invoice
func (s *Service) RelatedOffers(ctx context.Context, invoiceID uuid.UUID) ([]DocumentResponse, error) {
	docs, err := s.graph.RelatedOffers(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return ToDocumentResponses(docs), nil
}

// RelatedInvoices returns the invoices related to an offer
func (s *Service) RelatedInvoices(ctx context.Context, offerID uuid.UUID) ([]DocumentResponse, error) {
	docs, err := s.graph.RelatedInvoices(ctx, offerID)
	if err != nil {
		return nil, err
	}
	return ToDocumentResponses(docs), nil
}

// Relationships returns every edge touching a document
func (s *Service) Relationships(ctx context.Context, documentID uuid.UUID) ([]RelationshipResponse, error) {
	rels, err := s.graph.AllEdgesTouching(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return ToRelationshipResponses(rels), nil
}

// CompanyRelationships returns every edge leaving the company's documents
func (s *Service) CompanyRelationships(ctx context.Context, companyID uuid.UUID) ([]RelationshipResponse, error) {
	if _, err := s.findCompany(ctx, companyID); err != nil {
		return nil, err
	}
	rels, err := s.graph.EdgesByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return ToRelationshipResponses(rels), nil
}

// AreRelated reports whether two documents share an edge in either direction
func (s *Service) AreRelated(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.graph.AreRelated(ctx, a, b)
}

func (s *Service) findCompany(ctx context.Context, id uuid.UUID) (*document.Company, error) {
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, document.ErrCompanyNotFound.WithMessage("Company %s not found", id)
		}
		return nil, classify(err)
	}
	return company, nil
}

func (s *Service) findDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, document.ErrDocumentNotFound.WithMessage("Document %s not found", id)
		}
		return nil, classify(err)
	}
	return doc, nil
}
