package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/clients/postgres"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

const reviewsTable = "user_reviews"

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	store store
	codec *RowCodec
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(accessor *postgres.Accessor, codec *RowCodec, metrics *observability.Metrics) repositories.ReviewRepository {
	return &ReviewAdapter{
		store: newStore(accessor, metrics),
		codec: codec,
	}
}

// AddReview inserts a review. A second review for the same user and place is
// rejected with a CONFLICT error.
func (a *ReviewAdapter) AddReview(ctx context.Context, review *entities.RestaurantRating) error {
	if review == nil {
		return apperrors.NewValidationError("review is required")
	}

	vals, err := a.codec.ReviewValues(*review)
	if err != nil {
		return apperrors.NewStorageError("invalid review", err)
	}

	ds := a.store.insert(reviewsTable).
		Cols(reviewColumns...).
		Vals(vals).
		OnConflict(goqu.DoNothing())

	result, err := a.store.exec(ctx, "add_review", ds)
	if err != nil {
		return err
	}

	n, err := rowsAffected(result, "add_review")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NewConflictError("review already exists for this place")
	}
	return nil
}

// UpdateReview replaces the rating, description and timestamp of an existing review.
func (a *ReviewAdapter) UpdateReview(ctx context.Context, review *entities.RestaurantRating) error {
	if review == nil {
		return apperrors.NewValidationError("review is required")
	}

	record, err := a.codec.ReviewUpdate(*review)
	if err != nil {
		return apperrors.NewStorageError("invalid review", err)
	}

	ds := a.store.update(reviewsTable).
		Set(record).
		Where(
			goqu.C("user_id").Eq(review.UserID),
			goqu.C("place_id").Eq(review.PlaceID),
		)

	result, err := a.store.exec(ctx, "update_review", ds)
	if err != nil {
		return err
	}

	n, err := rowsAffected(result, "update_review")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NewNotFoundError("review not found")
	}
	return nil
}

// RemoveReview deletes a review. Removing a missing review succeeds.
func (a *ReviewAdapter) RemoveReview(ctx context.Context, userID, placeID string) error {
	ds := a.store.delete(reviewsTable).
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("place_id").Eq(placeID),
		)

	_, err := a.store.exec(ctx, "remove_review", ds)
	return err
}

// ListUserReviews returns a user's reviews, newest first.
func (a *ReviewAdapter) ListUserReviews(ctx context.Context, userID string) ([]entities.RestaurantRating, error) {
	return a.list(ctx, "list_user_reviews", goqu.C("user_id").Eq(userID))
}

// ListRestaurantReviews returns the reviews of a place, newest first.
func (a *ReviewAdapter) ListRestaurantReviews(ctx context.Context, placeID string) ([]entities.RestaurantRating, error) {
	return a.list(ctx, "list_restaurant_reviews", goqu.C("place_id").Eq(placeID))
}

func (a *ReviewAdapter) list(ctx context.Context, operation string, filter goqu.Expression) ([]entities.RestaurantRating, error) {
	ds := a.store.from(reviewsTable).
		Select(reviewColumns...).
		Where(filter).
		Order(goqu.C("timestamp").Desc())

	reviews := []entities.RestaurantRating{}
	err := a.store.query(ctx, operation, ds, func(row rowScanner) error {
		review, err := a.codec.ScanReview(row)
		if err != nil {
			return err
		}
		reviews = append(reviews, review)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
