package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/EatWhereLa/eat-where-la-backend-server/pkg/config"
	"github.com/EatWhereLa/eat-where-la-backend-server/pkg/retry"
)

// Client represents a PostgreSQL database client
type Client struct {
	db       *sql.DB
	accessor *Accessor
}

// NewClient creates a new PostgreSQL client. The startup ping retries with
// exponential backoff; connections handed out later go through an Accessor
// that retries on a fixed delay within AcquireTimeout.
func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Test the connection with retry
	retryConfig := retry.DefaultConfig()
	err = retry.DoWithLog(
		context.Background(),
		retryConfig,
		"PostgreSQL",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("PostgreSQL connection attempt failed")
		},
	)

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	log.Info().Int("max_open_conns", cfg.MaxOpenConns).Msg("Successfully connected to PostgreSQL")
	return &Client{
		db: db,
		accessor: NewAccessor(db, AccessorConfig{
			MaxAttempts:    cfg.AcquireAttempts,
			RetryDelay:     cfg.AcquireRetryDelay,
			AcquireTimeout: cfg.AcquireTimeout,
		}),
	}, nil
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Accessor returns the connection accessor bound to this client's pool
func (c *Client) Accessor() *Accessor {
	return c.accessor
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
