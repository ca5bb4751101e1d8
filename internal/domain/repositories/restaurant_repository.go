package repositories

import (
	"context"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
)

// RestaurantRepository defines the interface for the places cache.
type RestaurantRepository interface {
	// StoreBrowsedPlaces inserts the batch in one statement, ignoring place_ids
	// that are already cached. An empty batch is a no-op.
	StoreBrowsedPlaces(ctx context.Context, restaurants []entities.Restaurant) error

	// GetRestaurant returns nil, nil when the place is not cached.
	GetRestaurant(ctx context.Context, placeID string) (*entities.Restaurant, error)

	// SearchRestaurants matches name case-insensitively as a substring.
	SearchRestaurants(ctx context.Context, name string) ([]entities.Restaurant, error)
}
