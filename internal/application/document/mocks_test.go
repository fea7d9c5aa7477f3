package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockCompanyDirectory is a mock implementation of CompanyDirectory
type MockCompanyDirectory struct {
	mock.Mock
}

func (m *MockCompanyDirectory) FindByID(ctx context.Context, id uuid.UUID) (*document.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Company), args.Error(1)
}

// MockSeriesRepository is a mock implementation of SeriesRepository
type MockSeriesRepository struct {
	mock.Mock
}

func (m *MockSeriesRepository) IssueNext(ctx context.Context, key document.SeriesKey) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

// MockClientSnapshotRepository is a mock implementation of ClientSnapshotRepository
type MockClientSnapshotRepository struct {
	mock.Mock
}

func (m *MockClientSnapshotRepository) Create(ctx context.Context, snapshot *document.ClientSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockClientSnapshotRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.ClientSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.ClientSnapshot), args.Error(1)
}

// MockDocumentRepository is a mock implementation of DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateStatus(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) MarkDeleted(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]document.Document, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*document.Document, error) {
	args := m.Called(ctx, companyID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindActive(ctx context.Context, companyID uuid.UUID, docType *document.Type, filter shared.Filter) ([]document.Document, int64, error) {
	args := m.Called(ctx, companyID, docType, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]document.Document), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) CountActive(ctx context.Context, companyID uuid.UUID, docType document.Type) (int64, error) {
	args := m.Called(ctx, companyID, docType)
	return args.Get(0).(int64), args.Error(1)
}

// MockRelationshipRepository is a mock implementation of RelationshipRepository
type MockRelationshipRepository struct {
	mock.Mock
}

func (m *MockRelationshipRepository) Create(ctx context.Context, rel *document.Relationship) error {
	args := m.Called(ctx, rel)
	return args.Error(0)
}

func (m *MockRelationshipRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Relationship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRelationshipRepository) Exists(ctx context.Context, sourceID, targetID uuid.UUID, relType document.RelationshipType) (bool, error) {
	args := m.Called(ctx, sourceID, targetID, relType)
	return args.Bool(0), args.Error(1)
}

func (m *MockRelationshipRepository) FindByTarget(ctx context.Context, targetID uuid.UUID, sourceType document.Type) ([]document.Relationship, error) {
	args := m.Called(ctx, targetID, sourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) FindBySource(ctx context.Context, sourceID uuid.UUID, targetType document.Type) ([]document.Relationship, error) {
	args := m.Called(ctx, sourceID, targetType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) FindTouching(ctx context.Context, documentID uuid.UUID) ([]document.Relationship, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) ExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockRelationshipRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]document.Relationship, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Relationship), args.Error(1)
}

// MockNotificationGateway is a mock implementation of NotificationGateway
type MockNotificationGateway struct {
	mock.Mock
}

func (m *MockNotificationGateway) Notify(ctx context.Context, event *document.PostedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockMetrics is a mock implementation of Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordNumberIssued(ctx context.Context, docType document.Type) {
	m.Called(ctx, docType)
}

func (m *MockMetrics) RecordSeriesContention(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockMetrics) RecordConversion(ctx context.Context, linked bool) {
	m.Called(ctx, linked)
}

func (m *MockMetrics) RecordNotificationFailure(ctx context.Context) {
	m.Called(ctx)
}

// testRig bundles the mocks behind a Service
type testRig struct {
	companies *MockCompanyDirectory
	series    *MockSeriesRepository
	snapshots *MockClientSnapshotRepository
	docs      *MockDocumentRepository
	rels      *MockRelationshipRepository
	notifier  *MockNotificationGateway
	service   *Service
}

func newTestRig() *testRig {
	r := &testRig{
		companies: new(MockCompanyDirectory),
		series:    new(MockSeriesRepository),
		snapshots: new(MockClientSnapshotRepository),
		docs:      new(MockDocumentRepository),
		rels:      new(MockRelationshipRepository),
		notifier:  new(MockNotificationGateway),
	}
	scope := NewNoOpTransactionScope(r.snapshots, r.series, r.docs)
	r.service = NewService(r.companies, scope, r.docs, r.rels, r.notifier)
	return r
}

func (r *testRig) assertExpectations(t mock.TestingT) {
	r.companies.AssertExpectations(t)
	r.series.AssertExpectations(t)
	r.snapshots.AssertExpectations(t)
	r.docs.AssertExpectations(t)
	r.rels.AssertExpectations(t)
	r.notifier.AssertExpectations(t)
}
