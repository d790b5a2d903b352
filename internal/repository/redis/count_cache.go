package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"recordpager/internal/domain"
)

const countKeyPrefix = "recordpager:records:count:"

// countStore is the part of the go-redis client the cache uses. *goredis.Client satisfies it.
type countStore interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

type countCachedRecords struct {
	next   domain.RecordRepository
	store  countStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewCountCachedRecordRepository wraps next so that Count is served from Redis
// for up to ttl. Appending records drops the cached count for its collection.
// Redis failures are logged and fall through to next.
func NewCountCachedRecordRepository(next domain.RecordRepository, store countStore, ttl time.Duration, logger *slog.Logger) domain.RecordRepository {
	return &countCachedRecords{next: next, store: store, ttl: ttl, logger: logger}
}

func countKey(collectionID string) string {
	return countKeyPrefix + collectionID
}

func (r *countCachedRecords) Append(ctx context.Context, collectionID string, records []*domain.Record) error {
	if err := r.next.Append(ctx, collectionID, records); err != nil {
		return err
	}
	if err := r.store.Del(ctx, countKey(collectionID)).Err(); err != nil {
		r.logger.WarnContext(ctx, "record count cache invalidate failed", "collection_id", collectionID, "err", err)
	}
	return nil
}

func (r *countCachedRecords) Count(ctx context.Context, collectionID string) (int, error) {
	key := countKey(collectionID)
	cached, err := r.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		if n, convErr := strconv.Atoi(cached); convErr == nil {
			return n, nil
		}
		r.logger.WarnContext(ctx, "record count cache holds a non-integer", "key", key, "value", cached)
	case !errors.Is(err, goredis.Nil):
		r.logger.WarnContext(ctx, "record count cache read failed", "key", key, "err", err)
	}

	n, err := r.next.Count(ctx, collectionID)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	if err := r.store.Set(ctx, key, n, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "record count cache write failed", "key", key, "err", err)
	}
	return n, nil
}

func (r *countCachedRecords) ListRange(ctx context.Context, collectionID string, begin, end int) ([]*domain.Record, error) {
	return r.next.ListRange(ctx, collectionID, begin, end)
}
