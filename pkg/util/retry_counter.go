package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RetryCounter struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRetryCounter(rdb redis.Cmdable, ttl time.Duration) *RetryCounter {
	return &RetryCounter{rdb: rdb, ttl: ttl}
}

// IncrementAndGet increments the retry count for a given key and returns the new count
func (r *RetryCounter) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	count, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	if count == 1 {
		r.rdb.Expire(ctx, key, r.ttl)
	}

	return count, nil
}

// Reset resets the retry count
func (r *RetryCounter) Reset(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

// FormatRetryKey formats a retry key for a handler and event id
func FormatRetryKey(handler string, eventID string) string {
	return fmt.Sprintf("retry:%s:%s", handler, eventID)
}
