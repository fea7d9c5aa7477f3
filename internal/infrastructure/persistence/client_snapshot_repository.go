package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClientSnapshotRepository implements ClientSnapshotRepository using GORM
type GormClientSnapshotRepository struct {
	db *gorm.DB
}

// NewGormClientSnapshotRepository creates a new GormClientSnapshotRepository
func NewGormClientSnapshotRepository(db *gorm.DB) *GormClientSnapshotRepository {
	return &GormClientSnapshotRepository{db: db}
}

// Create stores a client snapshot
func (r *GormClientSnapshotRepository) Create(ctx context.Context, snapshot *document.ClientSnapshot) error {
	return translateError(r.db.WithContext(ctx).Create(models.DocumentClientModelFromDomain(snapshot)).Error, nil, nil)
}

// FindByID finds a client snapshot by ID
func (r *GormClientSnapshotRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.ClientSnapshot, error) {
	var model models.DocumentClientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil, nil)
	}
	return model.ToDomain(), nil
}

var _ document.ClientSnapshotRepository = (*GormClientSnapshotRepository)(nil)
