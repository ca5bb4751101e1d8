package database

import (
	"context"
	"fmt"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/clients/postgres"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
)

// ddl is a schema statement. It carries no arguments.
type ddl string

func (d ddl) ToSQL() (string, []interface{}, error) {
	return string(d), nil, nil
}

// SchemaStatements returns the CREATE statements for every table, with
// timestamp columns typed for the codec's format.
func SchemaStatements(codec *RowCodec) []string {
	ts := codec.TimestampColumnType()
	return []string{
		`CREATE TABLE IF NOT EXISTS places (
	place_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	photo_height INTEGER,
	photo_width INTEGER,
	photo_reference TEXT,
	rating DOUBLE PRECISION NOT NULL DEFAULT 0,
	vicinity TEXT,
	lat DOUBLE PRECISION NOT NULL DEFAULT 0,
	lng DOUBLE PRECISION NOT NULL DEFAULT 0
)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS user_favourite_places (
	user_id TEXT NOT NULL,
	place_id TEXT NOT NULL,
	created_at %s NOT NULL,
	PRIMARY KEY (user_id, place_id)
)`, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS user_reviews (
	user_id TEXT NOT NULL,
	place_id TEXT NOT NULL,
	rating DOUBLE PRECISION NOT NULL,
	description TEXT,
	"timestamp" %s NOT NULL,
	PRIMARY KEY (user_id, place_id)
)`, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS user_reservations (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	place_id TEXT NOT NULL,
	reservation_timestamp %s NOT NULL,
	reservation_pax INTEGER NOT NULL
)`, ts),
		`CREATE INDEX IF NOT EXISTS idx_user_reservations_user ON user_reservations (user_id, reservation_timestamp)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS voting_history (
	id BIGSERIAL PRIMARY KEY,
	user_ids TEXT[] NOT NULL,
	voted_places JSONB NOT NULL DEFAULT '[]'::jsonb,
	vote_timestamp %s NOT NULL
)`, ts),
		`CREATE INDEX IF NOT EXISTS idx_voting_history_user_ids ON voting_history USING GIN (user_ids)`,
	}
}

// EnsureSchema creates any missing tables. It is safe to run on every start.
func EnsureSchema(ctx context.Context, accessor *postgres.Accessor, codec *RowCodec) error {
	s := newStore(accessor, nil)
	for _, stmt := range SchemaStatements(codec) {
		if _, err := s.exec(ctx, "ensure_schema", ddl(stmt)); err != nil {
			return err
		}
	}
	observability.LoggerFromContext(ctx).Info().
		Str("timestamp_format", string(codec.Format())).
		Msg("Database schema ensured")
	return nil
}
