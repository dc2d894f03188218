package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"photo-store/infrastructure/logger"
)

// NewCache creates a Redis client and verifies connectivity. A nil client is
// returned when Redis is unreachable so callers can degrade gracefully.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without cache features")
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
