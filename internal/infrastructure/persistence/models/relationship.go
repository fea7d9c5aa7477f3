package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
)

// DocumentRelationshipModel is the persistence model of a relationship edge.
// The unique index enforces one edge per (source, target, type).
type DocumentRelationshipModel struct {
	ID               uuid.UUID                 `gorm:"type:uuid;primary_key"`
	SourceDocumentID uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_document_relationship_edge,priority:1"`
	TargetDocumentID uuid.UUID                 `gorm:"type:uuid;not null;index;uniqueIndex:idx_document_relationship_edge,priority:2"`
	RelationshipType document.RelationshipType `gorm:"type:varchar(40);not null;uniqueIndex:idx_document_relationship_edge,priority:3"`
	Notes            string                    `gorm:"type:text"`
	CreatedAt        time.Time                 `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (DocumentRelationshipModel) TableName() string {
	return "document_relationships"
}

// ToDomain converts the persistence model to a domain Relationship
func (m *DocumentRelationshipModel) ToDomain() *document.Relationship {
	return &document.Relationship{
		ID:               m.ID,
		SourceDocumentID: m.SourceDocumentID,
		TargetDocumentID: m.TargetDocumentID,
		Type:             m.RelationshipType,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
	}
}

// DocumentRelationshipModelFromDomain creates a persistence model from a domain Relationship
func DocumentRelationshipModelFromDomain(r *document.Relationship) *DocumentRelationshipModel {
	return &DocumentRelationshipModel{
		ID:               r.ID,
		SourceDocumentID: r.SourceDocumentID,
		TargetDocumentID: r.TargetDocumentID,
		RelationshipType: r.Type,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
	}
}
