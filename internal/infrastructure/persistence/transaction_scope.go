package persistence

import (
	"context"

	appdoc "github.com/profitmap/docflow/internal/application/document"
	"github.com/profitmap/docflow/internal/domain/document"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Snapshot, series and document writes of one operation commit or roll back together.
type GormTransactionScope struct {
	db     *gorm.DB
	series func(tx *gorm.DB) document.SeriesRepository
}

// TransactionScopeOption configures a GormTransactionScope
type TransactionScopeOption func(*GormTransactionScope)

// WithSeriesRepository replaces the transactional series repository with one that
// lives outside the database, such as the Redis counter. Numbers issued by it are
// not returned when the transaction rolls back.
func WithSeriesRepository(repo document.SeriesRepository) TransactionScopeOption {
	return func(s *GormTransactionScope) {
		s.series = func(*gorm.DB) document.SeriesRepository { return repo }
	}
}

// WithSeriesOptions configures the transactional GORM series repository
func WithSeriesOptions(opts ...SeriesRepositoryOption) TransactionScopeOption {
	return func(s *GormTransactionScope) {
		s.series = func(tx *gorm.DB) document.SeriesRepository {
			return NewGormSeriesRepository(tx, opts...)
		}
	}
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB, opts ...TransactionScopeOption) *GormTransactionScope {
	s := &GormTransactionScope{
		db: db,
		series: func(tx *gorm.DB) document.SeriesRepository {
			return NewGormSeriesRepository(tx)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appdoc.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, series: s.series})
	})
	return translateError(err, nil, nil)
}

type gormTransactionalRepositories struct {
	tx     *gorm.DB
	series func(tx *gorm.DB) document.SeriesRepository
}

func (r *gormTransactionalRepositories) Snapshots() document.ClientSnapshotRepository {
	return NewGormClientSnapshotRepository(r.tx)
}

func (r *gormTransactionalRepositories) Series() document.SeriesRepository {
	return r.series(r.tx)
}

func (r *gormTransactionalRepositories) Documents() document.DocumentRepository {
	return NewGormDocumentRepository(r.tx)
}

var _ appdoc.TransactionScope = (*GormTransactionScope)(nil)

var _ appdoc.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
