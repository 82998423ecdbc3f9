package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// WindowStore implements ports.SlidingWindow on Redis sorted sets: one set
// per key, scored by event time in epoch milliseconds. It backs both the
// per-class rate limiter and the fraud engine's failed-attempt counter.
type WindowStore struct {
	client *goredis.Client
	prefix string
}

// NewWindowStore creates a Redis-backed sliding window store.
func NewWindowStore(client *goredis.Client, prefix string) *WindowStore {
	return &WindowStore{client: client, prefix: prefix}
}

// Count prunes entries older than the window, then returns the number of
// remaining events and the oldest remaining timestamp (zero if none).
func (s *WindowStore) Count(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	redisKey := s.prefix + key
	cutoff := time.Now().Add(-window).UnixMilli()

	if err := s.client.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(cutoff, 10)).Err(); err != nil {
		return 0, time.Time{}, fmt.Errorf("redis window prune: %w", err)
	}

	count, err := s.client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis window count: %w", err)
	}
	if count == 0 {
		return 0, time.Time{}, nil
	}

	oldest, err := s.client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis window oldest: %w", err)
	}
	var oldestAt time.Time
	if len(oldest) > 0 {
		oldestAt = time.UnixMilli(int64(oldest[0].Score))
	}
	return count, oldestAt, nil
}

// Record appends one event timestamp and refreshes the key TTL so idle
// windows evict themselves.
func (s *WindowStore) Record(ctx context.Context, key string, at time.Time, window time.Duration) error {
	redisKey := s.prefix + key

	// Member must be unique per event; two events in the same nanosecond
	// would otherwise collapse into one.
	member := strconv.FormatInt(at.UnixNano(), 10) + ":" + uuid.NewString()
	if err := s.client.ZAdd(ctx, redisKey, goredis.Z{
		Score:  float64(at.UnixMilli()),
		Member: member,
	}).Err(); err != nil {
		return fmt.Errorf("redis window record: %w", err)
	}

	// Keep the key around one extra window so a full window is never
	// evicted mid-flight.
	if err := s.client.Expire(ctx, redisKey, 2*window).Err(); err != nil {
		return fmt.Errorf("redis window expire: %w", err)
	}
	return nil
}
