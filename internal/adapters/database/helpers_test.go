package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/adapters/database"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/clients/postgres"
)

var testAccessorConfig = postgres.AccessorConfig{
	MaxAttempts:    1,
	RetryDelay:     time.Millisecond,
	AcquireTimeout: time.Second,
}

func newTestAccessor(t *testing.T) (*postgres.Accessor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewAccessor(db, testAccessorConfig), mock
}

func newTestCodec(t *testing.T, format string) *database.RowCodec {
	t.Helper()
	codec, err := database.NewRowCodec(format)
	require.NoError(t, err)
	return codec
}

// downPool never hands out a connection.
type downPool struct{}

func (downPool) Conn(context.Context) (*sql.Conn, error) {
	return nil, errors.New("connection refused")
}

func newDownAccessor() *postgres.Accessor {
	return postgres.NewAccessor(downPool{}, testAccessorConfig)
}
