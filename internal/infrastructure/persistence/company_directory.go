package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCompanyDirectory implements CompanyDirectory over the companies table
type GormCompanyDirectory struct {
	db *gorm.DB
}

// NewGormCompanyDirectory creates a new GormCompanyDirectory
func NewGormCompanyDirectory(db *gorm.DB) *GormCompanyDirectory {
	return &GormCompanyDirectory{db: db}
}

// FindByID returns the company with its numbering prefixes and years
func (r *GormCompanyDirectory) FindByID(ctx context.Context, id uuid.UUID) (*document.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, document.ErrCompanyNotFound, nil)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a company. Companies are owned by another service;
// this is used for seeding and tests.
func (r *GormCompanyDirectory) Save(ctx context.Context, company *document.Company) error {
	return translateError(r.db.WithContext(ctx).Save(models.CompanyModelFromDomain(company)).Error, nil, nil)
}

var _ document.CompanyDirectory = (*GormCompanyDirectory)(nil)
