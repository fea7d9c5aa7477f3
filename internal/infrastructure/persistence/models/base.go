package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel adds the optimistic version column of an aggregate root.
// Company-scoped models declare their own CompanyID column so it can take part
// in composite indexes.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainCompanyAggregateRoot populates the model from a domain aggregate root
func (m *AggregateModel) FromDomainCompanyAggregateRoot(a shared.CompanyAggregateRoot) uuid.UUID {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
	return a.CompanyID
}

// ToDomainCompanyAggregateRoot builds the domain aggregate root from the model
func (m *AggregateModel) ToDomainCompanyAggregateRoot(companyID uuid.UUID) shared.CompanyAggregateRoot {
	return shared.CompanyAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		CompanyID: companyID,
	}
}
