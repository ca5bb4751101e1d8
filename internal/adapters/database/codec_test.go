package database_test

import (
	"context"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/adapters/database"
)

func TestNewRowCodec(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		want    database.TimestampFormat
		wantErr bool
	}{
		{name: "empty defaults to epoch", format: "", want: database.TimestampEpoch},
		{name: "epoch", format: "epoch", want: database.TimestampEpoch},
		{name: "calendar ignores case", format: " Calendar ", want: database.TimestampCalendar},
		{name: "unknown format", format: "iso8601", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := database.NewRowCodec(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, codec.Format())
		})
	}
}

func TestRowCodec_EncodeTimestamp(t *testing.T) {
	t.Run("epoch keeps seconds", func(t *testing.T) {
		v, err := newTestCodec(t, "epoch").EncodeTimestamp(1700000000)
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), v)
	})

	t.Run("epoch refuses values wider than the column", func(t *testing.T) {
		_, err := newTestCodec(t, "epoch").EncodeTimestamp(math.MaxInt32 + 1)
		assert.Error(t, err)
	})

	t.Run("calendar formats in UTC", func(t *testing.T) {
		v, err := newTestCodec(t, "calendar").EncodeTimestamp(1700000000)
		require.NoError(t, err)
		assert.Equal(t, "2023-11-14 22:13:20", v)
	})
}

func TestRowCodec_DecodeTimestamp(t *testing.T) {
	epoch := newTestCodec(t, "epoch")
	calendar := newTestCodec(t, "calendar")

	t.Run("epoch widens narrower integers", func(t *testing.T) {
		v, err := epoch.DecodeTimestamp(int32(1700000000))
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), v)

		v, err = epoch.DecodeTimestamp(int64(-5))
		require.NoError(t, err)
		assert.Equal(t, int64(-5), v)
	})

	t.Run("epoch rejects values that never fit the column", func(t *testing.T) {
		_, err := epoch.DecodeTimestamp(int64(math.MaxInt32) + 10)
		assert.Error(t, err)
	})

	t.Run("calendar accepts driver time and text", func(t *testing.T) {
		ts := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

		v, err := calendar.DecodeTimestamp(ts)
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), v)

		v, err = calendar.DecodeTimestamp([]byte("2023-11-14 22:13:20"))
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), v)
	})

	t.Run("mixed representations are rejected", func(t *testing.T) {
		_, err := epoch.DecodeTimestamp("2023-11-14 22:13:20")
		assert.ErrorContains(t, err, "mismatch")

		_, err = calendar.DecodeTimestamp(int64(1700000000))
		assert.ErrorContains(t, err, "mismatch")

		_, err = calendar.DecodeTimestamp("14/11/2023")
		assert.ErrorContains(t, err, "mismatch")
	})
}

func TestSchemaStatements(t *testing.T) {
	epochDDL := strings.Join(database.SchemaStatements(newTestCodec(t, "epoch")), "\n")
	assert.Contains(t, epochDDL, `"timestamp" INTEGER NOT NULL`)
	assert.Contains(t, epochDDL, "reservation_timestamp INTEGER NOT NULL")
	assert.Contains(t, epochDDL, "user_ids TEXT[] NOT NULL")

	calendarDDL := strings.Join(database.SchemaStatements(newTestCodec(t, "calendar")), "\n")
	assert.Contains(t, calendarDDL, `"timestamp" TIMESTAMP NOT NULL`)
	assert.Contains(t, calendarDDL, "vote_timestamp TIMESTAMP NOT NULL")
	assert.Contains(t, calendarDDL, "created_at TIMESTAMP NOT NULL")

	for _, table := range []string{"places", "user_favourite_places", "user_reviews", "user_reservations", "voting_history"} {
		assert.Contains(t, epochDDL, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestEnsureSchema(t *testing.T) {
	accessor, mock := newTestAccessor(t)
	codec := newTestCodec(t, "epoch")

	for _, stmt := range database.SchemaStatements(codec) {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, database.EnsureSchema(context.Background(), accessor, codec))
	assert.NoError(t, mock.ExpectationsWereMet())
}
