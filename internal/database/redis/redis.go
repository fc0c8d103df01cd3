package redis

import (
	"context"
	"geopost-service/internal/config"
	"log"

	"github.com/redis/go-redis/v9"
)

// NewClient returns nil when no address is configured, which disables every
// Redis backed feature
func NewClient(ctx context.Context, cfg *config.RedisConfig) *redis.Client {
	if cfg.Address == "" {
		log.Println("Warning: REDIS_ADDR is empty, pending-upload journal is disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		Protocol: cfg.Protocol,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Error connect to Redis: %s", err)
	}

	return client
}
