package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRelationshipRepository implements RelationshipRepository using GORM.
// Queries include edges whose documents are soft-deleted.
type GormRelationshipRepository struct {
	db *gorm.DB
}

// NewGormRelationshipRepository creates a new GormRelationshipRepository
func NewGormRelationshipRepository(db *gorm.DB) *GormRelationshipRepository {
	return &GormRelationshipRepository{db: db}
}

// Create inserts an edge. The unique (source, target, type) index turns a
// concurrent duplicate into ErrDuplicateRelation.
func (r *GormRelationshipRepository) Create(ctx context.Context, rel *document.Relationship) error {
	err := r.db.WithContext(ctx).Create(models.DocumentRelationshipModelFromDomain(rel)).Error
	return translateError(err, nil, document.ErrDuplicateRelation)
}

// FindByID finds an edge by ID
func (r *GormRelationshipRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Relationship, error) {
	var model models.DocumentRelationshipModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, document.ErrRelationshipNotFound, nil)
	}
	return model.ToDomain(), nil
}

// Delete removes an edge
func (r *GormRelationshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DocumentRelationshipModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return document.ErrRelationshipNotFound
	}
	return nil
}

// Exists reports whether the typed edge source -> target exists
func (r *GormRelationshipRepository) Exists(ctx context.Context, sourceID, targetID uuid.UUID, relType document.RelationshipType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DocumentRelationshipModel{}).
		Where("source_document_id = ? AND target_document_id = ? AND relationship_type = ?", sourceID, targetID, relType).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, nil, nil)
	}
	return count > 0, nil
}

// FindByTarget returns edges pointing into targetID whose source has sourceType
func (r *GormRelationshipRepository) FindByTarget(ctx context.Context, targetID uuid.UUID, sourceType document.Type) ([]document.Relationship, error) {
	return r.find(r.db.WithContext(ctx).
		Joins("JOIN documents ON documents.id = document_relationships.source_document_id").
		Where("document_relationships.target_document_id = ? AND documents.document_type = ?", targetID, sourceType))
}

// FindBySource returns edges leaving sourceID whose target has targetType
func (r *GormRelationshipRepository) FindBySource(ctx context.Context, sourceID uuid.UUID, targetType document.Type) ([]document.Relationship, error) {
	return r.find(r.db.WithContext(ctx).
		Joins("JOIN documents ON documents.id = document_relationships.target_document_id").
		Where("document_relationships.source_document_id = ? AND documents.document_type = ?", sourceID, targetType))
}

// FindTouching returns every edge with documentID at either end
func (r *GormRelationshipRepository) FindTouching(ctx context.Context, documentID uuid.UUID) ([]document.Relationship, error) {
	return r.find(r.db.WithContext(ctx).
		Where("document_relationships.source_document_id = ? OR document_relationships.target_document_id = ?", documentID, documentID))
}

// ExistsBetween reports whether any edge joins a and b in either direction
func (r *GormRelationshipRepository) ExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DocumentRelationshipModel{}).
		Where("(source_document_id = ? AND target_document_id = ?) OR (source_document_id = ? AND target_document_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, nil, nil)
	}
	return count > 0, nil
}

// FindByCompany returns edges whose source document belongs to the company
func (r *GormRelationshipRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]document.Relationship, error) {
	return r.find(r.db.WithContext(ctx).
		Joins("JOIN documents ON documents.id = document_relationships.source_document_id").
		Where("documents.company_id = ?", companyID))
}

// find runs the query oldest edge first
func (r *GormRelationshipRepository) find(query *gorm.DB) ([]document.Relationship, error) {
	var rows []models.DocumentRelationshipModel
	if err := query.
		Order("document_relationships.created_at ASC").
		Order("document_relationships.id ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err, nil, nil)
	}
	rels := make([]document.Relationship, len(rows))
	for i := range rows {
		rels[i] = *rows[i].ToDomain()
	}
	return rels, nil
}

var _ document.RelationshipRepository = (*GormRelationshipRepository)(nil)
