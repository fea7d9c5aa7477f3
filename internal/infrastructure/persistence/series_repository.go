package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/infrastructure/persistence/models"
	"github.com/profitmap/docflow/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSeriesRepository issues document numbers from the document_series table.
// Each issue locks the series row with SELECT ... FOR UPDATE, so concurrent
// callers on one key are serialized by the database while different keys never
// touch the same row.
type GormSeriesRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// SeriesRepositoryOption configures a GormSeriesRepository
type SeriesRepositoryOption func(*GormSeriesRepository)

// WithLockTimeout bounds how long IssueNext waits for the row lock on postgres.
// Zero waits indefinitely.
func WithLockTimeout(d time.Duration) SeriesRepositoryOption {
	return func(r *GormSeriesRepository) {
		r.lockTimeout = d
	}
}

// NewGormSeriesRepository creates a new GormSeriesRepository
func NewGormSeriesRepository(db *gorm.DB, opts ...SeriesRepositoryOption) *GormSeriesRepository {
	r := &GormSeriesRepository{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IssueNext returns the next number of the series, creating the series at 1 on
// first use. When called inside a transaction the lock is held until that
// transaction ends, so a rolled back document releases its number.
func (r *GormSeriesRepository) IssueNext(ctx context.Context, key document.SeriesKey) (issued int64, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "GormSeriesRepository", "IssueNext",
		attribute.String("series.key", key.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.applyLockTimeout(tx); err != nil {
			return err
		}

		row, err := r.lockRow(tx, key)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created, createErr := r.createRow(tx, key)
			if createErr != nil {
				return createErr
			}
			if created {
				issued = 1
				return nil
			}
			// Another caller created the row first; wait for its lock.
			row, err = r.lockRow(tx, key)
		}
		if err != nil {
			return err
		}

		issued = row.LastNumber + 1
		return tx.Model(&models.DocumentSeriesModel{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"last_number": issued,
				"version":     gorm.Expr("version + 1"),
				"updated_at":  time.Now(),
			}).Error
	})
	if err != nil {
		return 0, translateError(err, nil, nil)
	}
	return issued, nil
}

func (r *GormSeriesRepository) lockRow(tx *gorm.DB, key document.SeriesKey) (*models.DocumentSeriesModel, error) {
	var row models.DocumentSeriesModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND prefix = ? AND year = ?", key.CompanyID, key.Prefix, key.Year).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// createRow inserts the series with number 1 already issued. It reports false
// when a concurrent insert won the race.
func (r *GormSeriesRepository) createRow(tx *gorm.DB, key document.SeriesKey) (bool, error) {
	now := time.Now()
	row := models.DocumentSeriesModel{
		ID:         uuid.New(),
		CompanyID:  key.CompanyID,
		Prefix:     key.Prefix,
		Year:       key.Year,
		LastNumber: 1,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *GormSeriesRepository) applyLockTimeout(tx *gorm.DB) error {
	if r.lockTimeout <= 0 || tx.Dialector.Name() != "postgres" {
		return nil
	}
	// SET does not take bind parameters
	return tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())).Error
}

var _ document.SeriesRepository = (*GormSeriesRepository)(nil)
