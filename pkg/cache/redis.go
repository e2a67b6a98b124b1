package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"schedulectl/pkg/schedule"
)

const keyPrefix = "schedulectl:schedule:"

// Redis shares parsed schedules between processes, e.g. several widget servers
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedis connects to addr and checks the connection.
func NewRedis(ctx context.Context, addr string, ttl time.Duration, log *zap.Logger) (*Redis, error) {
	if log == nil {
		log = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return &Redis{client: client, ttl: ttl, log: log}, nil
}

// Key returns the redis key of a subject.
func Key(subjectID string) string {
	return keyPrefix + subjectID
}

func (r *Redis) Get(ctx context.Context, subjectID string) (schedule.Schedule, bool) {
	data, err := r.client.Get(ctx, Key(subjectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return schedule.Schedule{}, false
	} else if err != nil {
		r.log.Warn("redis cache read failed", zap.String("subject", subjectID), zap.Error(err))
		return schedule.Schedule{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		r.log.Warn("corrupt redis cache entry ignored", zap.String("subject", subjectID), zap.Error(err))
		return schedule.Schedule{}, false
	}
	return entry.Schedule, true
}

func (r *Redis) Put(ctx context.Context, s schedule.Schedule) error {
	data, err := json.Marshal(Entry{Timestamp: time.Now(), Schedule: s})
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry: %w", err)
	}
	if err := r.client.Set(ctx, Key(s.SubjectID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write redis cache: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
