package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/profitmap/docflow/internal/infrastructure/config"
	"github.com/profitmap/docflow/internal/infrastructure/telemetry"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

const defaultSeriesKeyPrefix = "series:"

// RedisSeriesRepository issues document numbers with Redis INCR. INCR is atomic
// on the server, so instances sharing one Redis never hand out the same number.
// It does not take part in database transactions: a number issued for a document
// whose insert later fails is skipped, leaving a gap in the series.
type RedisSeriesRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSeriesRepository connects to Redis and verifies the connection
func NewRedisSeriesRepository(cfg config.RedisConfig) (*RedisSeriesRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSeriesRepository{
		client:    client,
		keyPrefix: defaultSeriesKeyPrefix,
	}, nil
}

// NewRedisSeriesRepositoryWithClient creates a repository over an existing client
func NewRedisSeriesRepositoryWithClient(client *redis.Client, keyPrefix string) *RedisSeriesRepository {
	if keyPrefix == "" {
		keyPrefix = defaultSeriesKeyPrefix
	}
	return &RedisSeriesRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// IssueNext increments the series counter, creating it at 1 on first use
func (r *RedisSeriesRepository) IssueNext(ctx context.Context, key document.SeriesKey) (n int64, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "RedisSeriesRepository", "IssueNext",
		attribute.String("series.key", key.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	n, err = r.client.Incr(ctx, r.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, shared.ErrResourceContention.WithCause(err)
		}
		return 0, shared.ErrStorageUnavailable.WithCause(err)
	}
	return n, nil
}

// Close closes the Redis connection
func (r *RedisSeriesRepository) Close() error {
	return r.client.Close()
}

func (r *RedisSeriesRepository) redisKey(key document.SeriesKey) string {
	return r.keyPrefix + key.String()
}

var _ document.SeriesRepository = (*RedisSeriesRepository)(nil)
