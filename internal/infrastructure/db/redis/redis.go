// Package redis holds the Redis-backed collaborators of the API: the
// connection helper and the fixed-window limiter throttling the auth routes.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config holds the connection settings for the Redis instance backing the
// auth rate limiter and the readiness probe.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Timeout bounds the startup connectivity check; zero selects a default.
	Timeout time.Duration
}

// Connect dials Redis and verifies the instance answers a ping before any
// limiter traffic is sent its way.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}
