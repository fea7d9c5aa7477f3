package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/shared"
)

// CompanyDirectory resolves the companies documents belong to
type CompanyDirectory interface {
	// FindByID returns ErrCompanyNotFound when the company does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
}

// SeriesRepository is the storage boundary of the numbering series
type SeriesRepository interface {
	// IssueNext takes exclusive access to the series row for key, creating it on
	// first use, and returns the number it hands out. Concurrent calls for the same
	// key never observe the same number; different keys never contend.
	IssueNext(ctx context.Context, key SeriesKey) (int64, error)
}

// ClientSnapshotRepository stores client snapshots
type ClientSnapshotRepository interface {
	Create(ctx context.Context, snapshot *ClientSnapshot) error
	FindByID(ctx context.Context, id uuid.UUID) (*ClientSnapshot, error)
}

// DocumentRepository stores documents with their items
type DocumentRepository interface {
	// Create inserts a new document and its items
	Create(ctx context.Context, doc *Document) error
	// UpdateStatus persists the status of an existing document
	UpdateStatus(ctx context.Context, doc *Document) error
	// MarkDeleted persists the soft-delete timestamp
	MarkDeleted(ctx context.Context, doc *Document) error

	// FindByID finds a document by ID, including soft-deleted ones
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	// FindByIDs finds documents by ID, including soft-deleted ones, in no particular order
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Document, error)
	// FindByNumber finds an active document by number within a company
	FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*Document, error)
	// FindActive lists active documents of a company, optionally restricted to one type
	FindActive(ctx context.Context, companyID uuid.UUID, docType *Type, filter shared.Filter) ([]Document, int64, error)
	// CountActive counts active documents of a company and type
	CountActive(ctx context.Context, companyID uuid.UUID, docType Type) (int64, error)
}

// RelationshipRepository stores relationship edges
type RelationshipRepository interface {
	// Create inserts an edge; a repeated (source, target, type) triple fails with ErrDuplicateRelation
	Create(ctx context.Context, rel *Relationship) error
	FindByID(ctx context.Context, id uuid.UUID) (*Relationship, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, sourceID, targetID uuid.UUID, relType RelationshipType) (bool, error)

	// FindByTarget returns edges pointing into targetID whose source has sourceType, oldest first
	FindByTarget(ctx context.Context, targetID uuid.UUID, sourceType Type) ([]Relationship, error)
	// FindBySource returns edges leaving sourceID whose target has targetType, oldest first
	FindBySource(ctx context.Context, sourceID uuid.UUID, targetType Type) ([]Relationship, error)
	// FindTouching returns every edge with documentID at either end, oldest first
	FindTouching(ctx context.Context, documentID uuid.UUID) ([]Relationship, error)
	// ExistsBetween reports whether any edge joins a and b in either direction
	ExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error)
	// FindByCompany returns edges whose source document belongs to the company
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]Relationship, error)
}

// NotificationGateway delivers document events to external collaborators
type NotificationGateway interface {
	Notify(ctx context.Context, event *PostedEvent) error
}
