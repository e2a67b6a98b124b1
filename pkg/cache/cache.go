package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"schedulectl/pkg/schedule"
)

// Cache stores serialized schedules by subject id. Misses and backend failures both
// report ok=false, a broken cache must never stop a fetch.
type Cache interface {
	Get(ctx context.Context, subjectID string) (schedule.Schedule, bool)
	Put(ctx context.Context, s schedule.Schedule) error
}

// Entry represents the stored data format
type Entry struct {
	Timestamp time.Time         `json:"timestamp"`
	Schedule  schedule.Schedule `json:"schedule"`
}

// Nop is a cache that never hits
type Nop struct{}

func (Nop) Get(context.Context, string) (schedule.Schedule, bool) {
	return schedule.Schedule{}, false
}

func (Nop) Put(context.Context, schedule.Schedule) error {
	return nil
}

// Open returns the Redis cache when an address is configured and reachable, the disk cache otherwise.
func Open(ctx context.Context, redisAddr string, ttl time.Duration, log *zap.Logger) Cache {
	if log == nil {
		log = zap.NewNop()
	}
	if redisAddr == "" {
		return NewDisk(ttl, log)
	}
	r, err := NewRedis(ctx, redisAddr, ttl, log)
	if err != nil {
		log.Warn("redis cache unavailable, falling back to disk", zap.String("addr", redisAddr), zap.Error(err))
		return NewDisk(ttl, log)
	}
	return r
}
