package handlers

import (
	"context"
	"net/http"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
)

// ReviewManager is the review behaviour the handler depends on.
type ReviewManager interface {
	Add(ctx context.Context, review *entities.RestaurantRating) error
	Update(ctx context.Context, review *entities.RestaurantRating) error
	Remove(ctx context.Context, userID, placeID string) error
	ListByUser(ctx context.Context, userID string) ([]entities.RestaurantRating, error)
	ListByRestaurant(ctx context.Context, placeID string) ([]entities.RestaurantRating, error)
}

// ReviewHandler handles user reviews
type ReviewHandler struct {
	service ReviewManager
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewManager) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// AddReview handles POST /api/reviews
func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var review entities.RestaurantRating
	if err := decodeJSON(r, &review); err != nil {
		respondWithAppError(w, r, err, "invalid request")
		return
	}

	if err := h.service.Add(r.Context(), &review); err != nil {
		respondWithAppError(w, r, err, "failed to add review")
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// UpdateReview handles PUT /api/reviews
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var review entities.RestaurantRating
	if err := decodeJSON(r, &review); err != nil {
		respondWithAppError(w, r, err, "invalid request")
		return
	}

	if err := h.service.Update(r.Context(), &review); err != nil {
		respondWithAppError(w, r, err, "failed to update review")
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// RemoveReview handles DELETE /api/reviews?user_id=&place_id=
func (h *ReviewHandler) RemoveReview(w http.ResponseWriter, r *http.Request) {
	params, err := requireQuery(r, "user_id", "place_id")
	if err != nil {
		respondWithAppError(w, r, err, "invalid request")
		return
	}

	if err := h.service.Remove(r.Context(), params[0], params[1]); err != nil {
		respondWithAppError(w, r, err, "failed to remove review")
		return
	}

	respondWithMessage(w, http.StatusOK, "Successfully removed review")
}

// ListUserReviews handles GET /api/reviews/user?user_id=
func (h *ReviewHandler) ListUserReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListByUser(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		respondWithAppError(w, r, err, "failed to retrieve user reviews")
		return
	}

	respondWithJSON(w, http.StatusOK, reviews)
}

// ListRestaurantReviews handles GET /api/reviews/restaurant?place_id=
func (h *ReviewHandler) ListRestaurantReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListByRestaurant(r.Context(), r.URL.Query().Get("place_id"))
	if err != nil {
		respondWithAppError(w, r, err, "failed to retrieve restaurant reviews")
		return
	}

	respondWithJSON(w, http.StatusOK, reviews)
}
