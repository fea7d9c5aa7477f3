package document

import (
	"context"

	"github.com/profitmap/docflow/internal/domain/document"
)

// TransactionScope runs a unit of work over document repositories that share one
// database transaction. Returning an error from fn rolls everything back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories bound to the current transaction
type TransactionalRepositories interface {
	Snapshots() document.ClientSnapshotRepository
	Series() document.SeriesRepository
	Documents() document.DocumentRepository
}

// NoOpTransactionScope hands out the given repositories without a transaction.
// It is meant for tests and single-process tools.
type NoOpTransactionScope struct {
	repos noOpRepositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	snapshots document.ClientSnapshotRepository,
	series document.SeriesRepository,
	documents document.DocumentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: noOpRepositories{snapshots: snapshots, series: series, documents: documents}}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

type noOpRepositories struct {
	snapshots document.ClientSnapshotRepository
	series    document.SeriesRepository
	documents document.DocumentRepository
}

func (r noOpRepositories) Snapshots() document.ClientSnapshotRepository { return r.snapshots }
func (r noOpRepositories) Series() document.SeriesRepository            { return r.series }
func (r noOpRepositories) Documents() document.DocumentRepository       { return r.documents }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
