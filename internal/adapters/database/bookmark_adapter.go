package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/clients/postgres"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

const bookmarksTable = "user_favourite_places"

// BookmarkAdapter implements the BookmarkRepository interface
type BookmarkAdapter struct {
	store store
	codec *RowCodec
	now   func() time.Time
}

// NewBookmarkAdapter creates a new bookmark adapter
func NewBookmarkAdapter(accessor *postgres.Accessor, codec *RowCodec, metrics *observability.Metrics) repositories.BookmarkRepository {
	return &BookmarkAdapter{
		store: newStore(accessor, metrics),
		codec: codec,
		now:   time.Now,
	}
}

// BookmarkPlace records a favourite. Bookmarking the same place twice is a no-op.
func (a *BookmarkAdapter) BookmarkPlace(ctx context.Context, userID, placeID string) error {
	vals, err := a.codec.BookmarkValues(entities.Bookmark{
		UserID:    userID,
		PlaceID:   placeID,
		CreatedAt: a.now().Unix(),
	})
	if err != nil {
		return apperrors.NewStorageError("invalid bookmark", err)
	}

	ds := a.store.insert(bookmarksTable).
		Cols(bookmarkColumns...).
		Vals(vals).
		OnConflict(goqu.DoNothing())

	_, err = a.store.exec(ctx, "bookmark_place", ds)
	return err
}

// RemoveBookmark deletes a favourite. Removing a missing bookmark succeeds.
func (a *BookmarkAdapter) RemoveBookmark(ctx context.Context, userID, placeID string) error {
	ds := a.store.delete(bookmarksTable).
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("place_id").Eq(placeID),
		)

	_, err := a.store.exec(ctx, "remove_bookmark", ds)
	return err
}

// ListBookmarkedPlaces returns the cached places a user bookmarked, newest first.
func (a *BookmarkAdapter) ListBookmarkedPlaces(ctx context.Context, userID string) ([]entities.Restaurant, error) {
	ds := a.store.from(goqu.T(placesTable).As("p")).
		Select(qualify("p", restaurantColumns)...).
		Join(
			goqu.T(bookmarksTable).As("f"),
			goqu.On(goqu.I("f.place_id").Eq(goqu.I("p.place_id"))),
		).
		Where(goqu.I("f.user_id").Eq(userID)).
		Order(goqu.I("f.created_at").Desc())

	restaurants := []entities.Restaurant{}
	err := a.store.query(ctx, "list_bookmarked_places", ds, func(row rowScanner) error {
		restaurant, err := a.codec.ScanRestaurant(row)
		if err != nil {
			return err
		}
		restaurants = append(restaurants, restaurant)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

// qualify prefixes each column with a table alias.
func qualify(alias string, columns []interface{}) []interface{} {
	qualified := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		qualified = append(qualified, goqu.I(alias+"."+col.(string)))
	}
	return qualified
}
