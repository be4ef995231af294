package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Locker serializes check-then-write sequences that the store cannot make atomic,
// such as the availability/conflict check before a session insert.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// RedisLock is a SetNX-based advisory lock.
type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

func (r *RedisLock) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	ok, err := r.client.SetNX(ctx, lockKey, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquiring lock %s: %w", lockKey, err)
	}
	return ok, nil
}

func (r *RedisLock) Unlock(ctx context.Context, key string) error {
	lockKey := fmt.Sprintf("lock:%s", key)
	if _, err := r.client.Del(ctx, lockKey).Result(); err != nil {
		return fmt.Errorf("releasing lock %s: %w", lockKey, err)
	}
	return nil
}
