package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deduper struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce tries to acquire a dedup lock for a given handler + event id.
// It returns true the first time an event is seen and false for duplicates.
func (d *Deduper) AcquireOnce(ctx context.Context, handler string, eventID string) bool {
	key := fmt.Sprintf("dedup:%s:%s", handler, eventID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		// redis 不可用时不阻止处理
		d.logger.Warn("Redis dedup check failed, allowing processing",
			zap.String("handler", handler),
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		return true
	}

	if !ok {
		d.logger.Info("Skipped duplicated event",
			zap.String("handler", handler),
			zap.String("event_id", eventID),
			zap.String("dedup_key", key),
		)
	}

	return ok
}

// Release drops the dedup key so a failed event can be processed again.
func (d *Deduper) Release(ctx context.Context, handler string, eventID string) {
	key := fmt.Sprintf("dedup:%s:%s", handler, eventID)
	if err := d.rdb.Del(ctx, key).Err(); err != nil {
		d.logger.Warn("Failed to release dedup key", zap.String("dedup_key", key), zap.Error(err))
	}
}
