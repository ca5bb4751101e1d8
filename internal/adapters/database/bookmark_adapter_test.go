package database_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/adapters/database"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

func TestBookmarkAdapter_BookmarkPlace(t *testing.T) {
	t.Run("inserts ignoring duplicates", func(t *testing.T) {
		accessor, mock := newTestAccessor(t)
		adapter := database.NewBookmarkAdapter(accessor, newTestCodec(t, "epoch"), nil)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "user_favourite_places" ("user_id", "place_id", "created_at")`) + `.*` + regexp.QuoteMeta(`ON CONFLICT DO NOTHING`)).
			WithArgs("u1", "p1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, adapter.BookmarkPlace(context.Background(), "u1", "p1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second bookmark of the same pair succeeds", func(t *testing.T) {
		accessor, mock := newTestAccessor(t)
		adapter := database.NewBookmarkAdapter(accessor, newTestCodec(t, "epoch"), nil)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "user_favourite_places"`)).
			WithArgs("u1", "p1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "user_favourite_places"`)).
			WithArgs("u1", "p1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, adapter.BookmarkPlace(context.Background(), "u1", "p1"))
		require.NoError(t, adapter.BookmarkPlace(context.Background(), "u1", "p1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("write failure is a storage error", func(t *testing.T) {
		accessor, mock := newTestAccessor(t)
		adapter := database.NewBookmarkAdapter(accessor, newTestCodec(t, "epoch"), nil)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "user_favourite_places"`)).
			WillReturnError(errors.New("connection reset"))

		err := adapter.BookmarkPlace(context.Background(), "u1", "p1")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
	})
}

func TestBookmarkAdapter_RemoveBookmark(t *testing.T) {
	t.Run("deletes the pair", func(t *testing.T) {
		accessor, mock := newTestAccessor(t)
		adapter := database.NewBookmarkAdapter(accessor, newTestCodec(t, "epoch"), nil)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "user_favourite_places"`)).
			WithArgs("u1", "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, adapter.RemoveBookmark(context.Background(), "u1", "p1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing bookmark is not an error", func(t *testing.T) {
		accessor, mock := newTestAccessor(t)
		adapter := database.NewBookmarkAdapter(accessor, newTestCodec(t, "epoch"), nil)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "user_favourite_places"`)).
			WithArgs("u1", "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, adapter.RemoveBookmark(context.Background(), "u1", "missing"))
	})
}

func TestBookmarkAdapter_ListBookmarkedPlaces(t *testing.T) {
	t.Run("joins cached places newest first", func(t *testing.T) {
		accessor, mock := newTestAccessor(t)
		adapter := database.NewBookmarkAdapter(accessor, newTestCodec(t, "epoch"), nil)

		rows := sqlmock.NewRows(placeColumns).
			AddRow("p2", "Laksa", int64(300), int64(300), "ref-2", 4.1, "Katong", 1.30, 103.90).
			AddRow("p1", "Chicken Rice", int64(400), int64(600), "ref-1", 4.5, "Maxwell Road", 1.28, 103.84)
		mock.ExpectQuery(regexp.QuoteMeta(`INNER JOIN "user_favourite_places" AS "f"`) + `.*` + regexp.QuoteMeta(`ORDER BY "f"."created_at" DESC`)).
			WithArgs("u1").
			WillReturnRows(rows)

		restaurants, err := adapter.ListBookmarkedPlaces(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, restaurants, 2)
		assert.Equal(t, "p2", restaurants[0].PlaceID)
		assert.Equal(t, samplePlaces()[0], restaurants[1])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no bookmarks is an empty list", func(t *testing.T) {
		accessor, mock := newTestAccessor(t)
		adapter := database.NewBookmarkAdapter(accessor, newTestCodec(t, "epoch"), nil)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM "places" AS "p"`)).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows(placeColumns))

		restaurants, err := adapter.ListBookmarkedPlaces(context.Background(), "u1")
		require.NoError(t, err)
		assert.NotNil(t, restaurants)
		assert.Empty(t, restaurants)
	})
}
