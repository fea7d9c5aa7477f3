package cache

import (
	"context"
	"sync"

	"github.com/profitmap/docflow/internal/domain/document"
)

// InMemorySeriesRepository keeps series counters in process memory.
// WARNING: counters are lost on restart and are not shared between instances,
// so it is only suitable for tests and single-instance tools.
type InMemorySeriesRepository struct {
	mu       sync.Mutex
	counters map[document.SeriesKey]int64
}

// NewInMemorySeriesRepository creates an empty in-memory series repository
func NewInMemorySeriesRepository() *InMemorySeriesRepository {
	return &InMemorySeriesRepository{
		counters: make(map[document.SeriesKey]int64),
	}
}

// IssueNext increments the counter of key, starting at 1
func (r *InMemorySeriesRepository) IssueNext(ctx context.Context, key document.SeriesKey) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[key]++
	return r.counters[key], nil
}

// Current returns the last number issued for key
func (r *InMemorySeriesRepository) Current(key document.SeriesKey) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[key]
}

var _ document.SeriesRepository = (*InMemorySeriesRepository)(nil)
