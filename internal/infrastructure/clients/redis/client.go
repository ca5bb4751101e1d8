package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	"github.com/EatWhereLa/eat-where-la-backend-server/pkg/config"
)

// Client represents a Redis client
type Client struct {
	client    *redis.Client
	keyPrefix string
}

// NewClient connects to Redis and verifies the connection within DialTimeout.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr(), err)
	}

	observability.LoggerFromContext(ctx).Info().
		Str("addr", cfg.RedisAddr()).
		Int("db", cfg.DB).
		Msg("Redis client connected")

	return &Client{client: client, keyPrefix: cfg.KeyPrefix}, nil
}

// Client returns the underlying Redis client
func (c *Client) Client() *redis.Client {
	return c.client
}

// KeyPrefix is prepended to every cache key.
func (c *Client) KeyPrefix() string {
	return c.keyPrefix
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Ping verifies the connection to Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
