package handlers

import (
	"net/http"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
)

// RestaurantHandler serves the places cache
type RestaurantHandler struct {
	repo repositories.RestaurantRepository
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(repo repositories.RestaurantRepository) *RestaurantHandler {
	return &RestaurantHandler{repo: repo}
}

// GetRestaurant handles GET /api/restaurants?place_id=
func (h *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	params, err := requireQuery(r, "place_id")
	if err != nil {
		respondWithAppError(w, r, err, "invalid request")
		return
	}

	restaurant, err := h.repo.GetRestaurant(r.Context(), params[0])
	if err != nil {
		respondWithAppError(w, r, err, "failed to retrieve restaurant")
		return
	}
	// an uncached place is an empty result, not an error
	if restaurant == nil {
		respondWithJSON(w, http.StatusOK, struct{}{})
		return
	}

	respondWithJSON(w, http.StatusOK, restaurant)
}

// SearchRestaurants handles GET /api/restaurants/search?name=
func (h *RestaurantHandler) SearchRestaurants(w http.ResponseWriter, r *http.Request) {
	params, err := requireQuery(r, "name")
	if err != nil {
		respondWithAppError(w, r, err, "invalid request")
		return
	}

	restaurants, err := h.repo.SearchRestaurants(r.Context(), params[0])
	if err != nil {
		respondWithAppError(w, r, err, "failed to search restaurants")
		return
	}

	respondWithJSON(w, http.StatusOK, restaurants)
}
