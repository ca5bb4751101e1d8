package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
	"github.com/EatWhereLa/eat-where-la-backend-server/pkg/retry"
)

// ConnPool hands out dedicated connections. *sql.DB satisfies it.
type ConnPool interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// AccessorConfig is the acquisition policy: MaxAttempts tries, RetryDelay
// between them, the whole loop bounded by AcquireTimeout.
type AccessorConfig struct {
	MaxAttempts    int
	RetryDelay     time.Duration
	AcquireTimeout time.Duration
}

// DefaultAccessorConfig returns 5 attempts, 3s apart, 15s in total.
func DefaultAccessorConfig() AccessorConfig {
	return AccessorConfig{
		MaxAttempts:    5,
		RetryDelay:     3 * time.Second,
		AcquireTimeout: 15 * time.Second,
	}
}

// Accessor acquires connections from a pool with a fixed-delay retry.
type Accessor struct {
	pool ConnPool
	cfg  AccessorConfig
}

// NewAccessor creates an accessor over pool. Zero fields in cfg fall back to
// DefaultAccessorConfig.
func NewAccessor(pool ConnPool, cfg AccessorConfig) *Accessor {
	defaults := DefaultAccessorConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.AcquireTimeout <= 0 {
		cfg.AcquireTimeout = defaults.AcquireTimeout
	}
	return &Accessor{pool: pool, cfg: cfg}
}

// Config returns the effective acquisition policy.
func (a *Accessor) Config() AccessorConfig {
	return a.cfg
}

// AttemptTimeout is how long a single attempt waits on the pool. Attempts and
// the sleeps between them share AcquireTimeout: what the sleeps leave over is
// split into MaxAttempts+1 slices, one per attempt and one spare, so the last
// attempt still starts inside the budget. With the defaults that is 500ms.
func (c AccessorConfig) AttemptTimeout() time.Duration {
	if c.MaxAttempts <= 0 {
		return c.AcquireTimeout
	}
	waiting := c.AcquireTimeout - time.Duration(c.MaxAttempts-1)*c.RetryDelay
	if waiting <= 0 {
		waiting = c.AcquireTimeout
	}
	return waiting / time.Duration(c.MaxAttempts+1)
}

// Acquire returns a dedicated connection the caller must Close. When every
// attempt fails, or ctx is done while waiting, it returns a POOL_EXHAUSTED
// AppError wrapping the last cause.
func (a *Accessor) Acquire(ctx context.Context) (*sql.Conn, error) {
	ctx, span := observability.StartSpan(ctx, "postgres.acquire")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)
	attempts := 0

	// the acquisition as a whole gets AcquireTimeout, attempts and sleeps included
	ctx, cancel := context.WithTimeout(ctx, a.cfg.AcquireTimeout)
	defer cancel()
	attemptTimeout := a.cfg.AttemptTimeout()

	var conn *sql.Conn
	err := retry.DoWithLog(
		ctx,
		retry.FixedConfig(a.cfg.MaxAttempts, a.cfg.RetryDelay),
		"postgres pool",
		func() error {
			attempts++
			attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
			defer cancel()

			c, err := a.pool.Conn(attemptCtx)
			if err != nil {
				return err
			}
			conn = c
			return nil
		},
		func(attempt int, err error, nextDelay time.Duration) {
			logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", a.cfg.MaxAttempts).
				Dur("retry_in", nextDelay).
				Msg("Failed to acquire postgres connection, retrying")
		},
	)
	observability.SetSpanAttributes(span, attribute.Int("db.acquire.attempts", attempts))

	if err != nil {
		observability.RecordError(span, err)
		logger.Error().Err(err).Int("attempts", attempts).Msg("Postgres connection pool exhausted")
		return nil, apperrors.NewPoolExhaustedError("failed to acquire a connection from the postgres pool", err)
	}

	return conn, nil
}
