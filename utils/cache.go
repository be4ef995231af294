// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"servilink/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (session-config reads and the like).
	CacheClient *redis.Client
	// LockClient is the dedicated client for scheduling advisory locks.
	LockClient *redis.Client
)

// InitRedis initializes all Redis clients.
func InitRedis() {
	InitCache()
	InitLockClient()
}

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitLockClient initializes the Redis client used for advisory locks.
func InitLockClient() {
	LockClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLockDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := LockClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Lock): %v", err)
	}
}

// GetLockClient returns the Redis client for advisory locks.
func GetLockClient() *redis.Client {
	if LockClient == nil {
		InitLockClient()
	}
	return LockClient
}
