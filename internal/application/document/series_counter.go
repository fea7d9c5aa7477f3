package document

import (
	"context"
	"errors"

	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
)

// SeriesCounter is the only code path that advances a numbering series
type SeriesCounter struct {
	repo    document.SeriesRepository
	metrics Metrics
}

// NewSeriesCounter creates a counter over the given series storage
func NewSeriesCounter(repo document.SeriesRepository, metrics Metrics) *SeriesCounter {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &SeriesCounter{repo: repo, metrics: metrics}
}

// IssueNext returns the next sequence of the series, creating the series at 1 on
// first use. On failure nothing is issued.
func (c *SeriesCounter) IssueNext(ctx context.Context, key document.SeriesKey) (int64, error) {
	seq, err := c.repo.IssueNext(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrResourceContention) {
			c.metrics.RecordSeriesContention(ctx)
		}
		return 0, classify(err)
	}
	if seq < 1 {
		return 0, shared.ErrStorageUnavailable.WithMessage("Series %s returned invalid sequence %d", key, seq)
	}
	return seq, nil
}

// IssueNumber issues the next sequence and renders it as a document number
func (c *SeriesCounter) IssueNumber(ctx context.Context, key document.SeriesKey) (string, error) {
	seq, err := c.IssueNext(ctx, key)
	if err != nil {
		return "", err
	}
	return document.FormatNumber(key.Prefix, key.Year, seq), nil
}
