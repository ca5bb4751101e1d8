package repositories

import (
	"context"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
)

// ReviewRepository defines the interface for user reviews.
type ReviewRepository interface {
	AddReview(ctx context.Context, review *entities.RestaurantRating) error
	UpdateReview(ctx context.Context, review *entities.RestaurantRating) error
	RemoveReview(ctx context.Context, userID, placeID string) error
	ListUserReviews(ctx context.Context, userID string) ([]entities.RestaurantRating, error)
	ListRestaurantReviews(ctx context.Context, placeID string) ([]entities.RestaurantRating, error)
}
