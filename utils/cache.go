// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"apptbot/config"

	"github.com/go-redis/redis/v8"
)

// OutcomeClient holds async job outcomes.
var OutcomeClient *redis.Client

// InitOutcomeCache initializes the Redis client for job outcomes (REDIS_OUTCOME_DB).
func InitOutcomeCache() {
	OutcomeClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisOutcomeDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := OutcomeClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Outcomes): %v", err)
	}
}

// GetOutcomeClient returns the outcome cache client.
func GetOutcomeClient() *redis.Client {
	if OutcomeClient == nil {
		InitOutcomeCache()
	}
	return OutcomeClient
}
