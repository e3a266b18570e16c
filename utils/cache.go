// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"ototakibim/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client used for availability snapshots.
var CacheClient *redis.Client

// InitCache initializes the Redis cache client (DB from AppConfig).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}
