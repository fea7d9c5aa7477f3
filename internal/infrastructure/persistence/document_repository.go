package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/profitmap/docflow/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Create inserts the document with its items. A number already used within the
// company fails with ErrDuplicateNumber.
func (r *GormDocumentRepository) Create(ctx context.Context, doc *document.Document) error {
	model := models.DocumentModelFromDomain(doc)
	if err := r.db.WithContext(ctx).Omit("Client").Create(model).Error; err != nil {
		return translateError(err, nil, document.ErrDuplicateNumber)
	}
	return nil
}

// UpdateStatus persists the status of an existing document
func (r *GormDocumentRepository) UpdateStatus(ctx context.Context, doc *document.Document) error {
	return r.update(ctx, doc, map[string]any{
		"status":     doc.Status,
		"updated_at": doc.UpdatedAt,
		"version":    gorm.Expr("version + 1"),
	})
}

// MarkDeleted persists the soft-delete timestamp
func (r *GormDocumentRepository) MarkDeleted(ctx context.Context, doc *document.Document) error {
	return r.update(ctx, doc, map[string]any{
		"deleted_at": doc.DeletedAt,
		"updated_at": doc.UpdatedAt,
		"version":    gorm.Expr("version + 1"),
	})
}

// update writes columns only if the row still has the version the aggregate was
// loaded with, then bumps the version on the aggregate.
func (r *GormDocumentRepository) update(ctx context.Context, doc *document.Document, columns map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("id = ? AND version = ?", doc.ID, doc.Version).
		Updates(columns)
	if result.Error != nil {
		return translateError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).Where("id = ?", doc.ID).Count(&count).Error; err != nil {
			return translateError(err, nil, nil)
		}
		if count == 0 {
			return document.ErrDocumentNotFound
		}
		return document.ErrConcurrentUpdate
	}
	doc.IncrementVersion()
	return nil
}

// FindByID finds a document by ID, including soft-deleted ones
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.withDetails(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, document.ErrDocumentNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds documents by ID, including soft-deleted ones
func (r *GormDocumentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]document.Document, error) {
	if len(ids) == 0 {
		return []document.Document{}, nil
	}
	var rows []models.DocumentModel
	if err := r.withDetails(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translateError(err, nil, nil)
	}
	return toDomainDocuments(rows), nil
}

// FindByNumber finds an active document by number within a company
func (r *GormDocumentRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.withDetails(ctx).
		Where("company_id = ? AND document_number = ? AND deleted_at IS NULL", companyID, number).
		First(&model).Error; err != nil {
		return nil, translateError(err, document.ErrDocumentNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindActive lists active documents of a company, newest document date first.
// It returns the page and the total number of matching documents.
func (r *GormDocumentRepository) FindActive(ctx context.Context, companyID uuid.UUID, docType *document.Type, filter shared.Filter) ([]document.Document, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("company_id = ? AND deleted_at IS NULL", companyID)
		if docType != nil {
			db = db.Where("document_type = ?", *docType)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, nil, nil)
	}

	var rows []models.DocumentModel
	if err := r.applyFilter(r.withDetails(ctx).Scopes(scope), filter).Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, nil, nil)
	}
	return toDomainDocuments(rows), total, nil
}

// CountActive counts active documents of a company and type
func (r *GormDocumentRepository) CountActive(ctx context.Context, companyID uuid.UUID, docType document.Type) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("company_id = ? AND document_type = ? AND deleted_at IS NULL", companyID, docType).
		Count(&total).Error
	if err != nil {
		return 0, translateError(err, nil, nil)
	}
	return total, nil
}

func (r *GormDocumentRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Client")
}

// applyFilter applies ordering and pagination. Ties on the sort column fall
// back to creation order so pages are stable.
func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	sortField := ValidateSortField(filter.OrderBy, DocumentSortFields, "document_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Order(fmt.Sprintf("created_at %s", sortOrder))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

func toDomainDocuments(rows []models.DocumentModel) []document.Document {
	docs := make([]document.Document, len(rows))
	for i := range rows {
		docs[i] = *rows[i].ToDomain()
	}
	return docs
}

var _ document.DocumentRepository = (*GormDocumentRepository)(nil)
