package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

// ReviewService handles user reviews.
type ReviewService struct {
	repo repositories.ReviewRepository
	now  func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(repo repositories.ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo, now: time.Now}
}

// Add stores a new review, stamping it with the current time when unset.
func (s *ReviewService) Add(ctx context.Context, review *entities.RestaurantRating) error {
	if err := validateReview(review); err != nil {
		return err
	}
	if review.Timestamp == 0 {
		review.Timestamp = s.now().Unix()
	}
	if err := requireStorable("timestamp", review.Timestamp); err != nil {
		return err
	}
	return s.repo.AddReview(ctx, review)
}

// Update replaces an existing review and restamps it.
func (s *ReviewService) Update(ctx context.Context, review *entities.RestaurantRating) error {
	if err := validateReview(review); err != nil {
		return err
	}
	review.Timestamp = s.now().Unix()
	return s.repo.UpdateReview(ctx, review)
}

// Remove deletes a review.
func (s *ReviewService) Remove(ctx context.Context, userID, placeID string) error {
	if err := requirePair(userID, placeID); err != nil {
		return err
	}
	return s.repo.RemoveReview(ctx, userID, placeID)
}

// ListByUser returns a user's reviews.
func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]entities.RestaurantRating, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user_id is required")
	}
	return s.repo.ListUserReviews(ctx, userID)
}

// ListByRestaurant returns the reviews of a place.
func (s *ReviewService) ListByRestaurant(ctx context.Context, placeID string) ([]entities.RestaurantRating, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, apperrors.NewValidationError("place_id is required")
	}
	return s.repo.ListRestaurantReviews(ctx, placeID)
}

func validateReview(review *entities.RestaurantRating) error {
	if review == nil {
		return apperrors.NewValidationError("review is required")
	}
	if err := requirePair(review.UserID, review.PlaceID); err != nil {
		return err
	}
	if review.Rating < 0 || review.Rating > 5 {
		return apperrors.NewValidationError("rating must be between 0 and 5")
	}
	return nil
}

func requirePair(userID, placeID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperrors.NewValidationError("user_id is required")
	}
	if strings.TrimSpace(placeID) == "" {
		return apperrors.NewValidationError("place_id is required")
	}
	return nil
}

// requireStorable rejects values that do not fit the 32-bit columns holding
// timestamps and party sizes, so oversized input is a client error rather
// than a storage failure.
func requireStorable(field string, v int64) error {
	if v < 0 || v > math.MaxInt32 {
		return apperrors.NewValidationError(fmt.Sprintf("%s must be between 0 and %d", field, int64(math.MaxInt32)))
	}
	return nil
}
