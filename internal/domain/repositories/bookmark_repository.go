package repositories

import (
	"context"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
)

// BookmarkRepository defines the interface for user favourite places.
type BookmarkRepository interface {
	BookmarkPlace(ctx context.Context, userID, placeID string) error
	RemoveBookmark(ctx context.Context, userID, placeID string) error
	ListBookmarkedPlaces(ctx context.Context, userID string) ([]entities.Restaurant, error)
}
