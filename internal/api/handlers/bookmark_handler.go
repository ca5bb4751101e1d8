package handlers

import (
	"net/http"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
)

// BookmarkHandler handles favourite places
type BookmarkHandler struct {
	repo repositories.BookmarkRepository
}

// NewBookmarkHandler creates a new bookmark handler
func NewBookmarkHandler(repo repositories.BookmarkRepository) *BookmarkHandler {
	return &BookmarkHandler{repo: repo}
}

type bookmarkRequest struct {
	UserID  string `json:"user_id"`
	PlaceID string `json:"place_id"`
}

// BookmarkPlace handles POST /api/bookmarks
func (h *BookmarkHandler) BookmarkPlace(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err, "invalid request")
		return
	}
	if req.UserID == "" || req.PlaceID == "" {
		respondWithError(w, http.StatusBadRequest, "user_id and place_id are required")
		return
	}

	if err := h.repo.BookmarkPlace(r.Context(), req.UserID, req.PlaceID); err != nil {
		respondWithAppError(w, r, err, "failed to add bookmark")
		return
	}

	respondWithMessage(w, http.StatusOK, "Successfully bookmarked restaurant")
}

// RemoveBookmark handles DELETE /api/bookmarks?user_id=&place_id=
func (h *BookmarkHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	params, err := requireQuery(r, "user_id", "place_id")
	if err != nil {
		respondWithAppError(w, r, err, "invalid request")
		return
	}

	if err := h.repo.RemoveBookmark(r.Context(), params[0], params[1]); err != nil {
		respondWithAppError(w, r, err, "failed to remove bookmark")
		return
	}

	respondWithMessage(w, http.StatusOK, "Successfully removed bookmarked restaurant")
}

// ListBookmarkedRestaurants handles GET /api/bookmarks/restaurants?user_id=
func (h *BookmarkHandler) ListBookmarkedRestaurants(w http.ResponseWriter, r *http.Request) {
	params, err := requireQuery(r, "user_id")
	if err != nil {
		respondWithAppError(w, r, err, "invalid request")
		return
	}

	restaurants, err := h.repo.ListBookmarkedPlaces(r.Context(), params[0])
	if err != nil {
		respondWithAppError(w, r, err, "failed to retrieve favourite restaurants")
		return
	}

	respondWithJSON(w, http.StatusOK, restaurants)
}
