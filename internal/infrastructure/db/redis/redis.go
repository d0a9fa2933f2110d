// Package redis backs the order-creation idempotency store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickbites/ordering-api/internal/infrastructure/config"
)

const (
	// dialTimeout bounds the startup connection check.
	dialTimeout = 5 * time.Second
	// opTimeout bounds individual reads and writes on the client.
	opTimeout = 2 * time.Second
)

// Connect builds a client for the configured instance and verifies it answers
// a ping before returning it.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
