package cache

import (
	"fmt"

	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SeriesRepositoryFactory creates Redis-backed series repositories based on configuration
type SeriesRepositoryFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SeriesRepositoryFactoryOption is a functional option for configuring the factory
type SeriesRepositoryFactoryOption func(*SeriesRepositoryFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SeriesRepositoryFactoryOption {
	return func(f *SeriesRepositoryFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory counters when
// Redis is unavailable. Default is false: two instances with private counters
// would issue the same numbers.
func WithInMemoryFallback(allow bool) SeriesRepositoryFactoryOption {
	return func(f *SeriesRepositoryFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSeriesRepositoryFactory creates a new factory
func NewSeriesRepositoryFactory(cfg config.RedisConfig, opts ...SeriesRepositoryFactoryOption) *SeriesRepositoryFactory {
	f := &SeriesRepositoryFactory{
		redisConfig: cfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis series repository, or an in-memory one when Redis is
// unreachable and fallback is allowed
func (f *SeriesRepositoryFactory) Create() (document.SeriesRepository, error) {
	repo, err := NewRedisSeriesRepository(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis series counters", zap.String("addr", f.redisConfig.Addr()))
		return repo, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for series counters but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory series counters. "+
		"Numbers will repeat across instances and restarts.",
		zap.Error(err),
	)
	return NewInMemorySeriesRepository(), nil
}
