package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/providers"
)

// PlaceSearcher is the place search behaviour the handler depends on.
type PlaceSearcher interface {
	SearchNearby(ctx context.Context, params providers.NearbySearchParams) ([]entities.Restaurant, error)
	PhotoURL(ctx context.Context, photoReference string) (*entities.RestaurantImage, error)
	PlaceDetails(ctx context.Context, placeID string) (json.RawMessage, error)
}

// PlacesHandler proxies the external places API
type PlacesHandler struct {
	service PlaceSearcher
}

// NewPlacesHandler creates a new places handler
func NewPlacesHandler(service PlaceSearcher) *PlacesHandler {
	return &PlacesHandler{service: service}
}

// SearchNearby handles GET /api/places
func (h *PlacesHandler) SearchNearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := providers.NearbySearchParams{
		Location: query.Get("location"),
		Radius:   query.Get("radius"),
		Type:     query.Get("type"),
		MinPrice: query.Get("minprice"),
	}

	restaurants, err := h.service.SearchNearby(r.Context(), params)
	if err != nil {
		respondWithAppError(w, r, err, "failed to search nearby places")
		return
	}

	respondWithJSON(w, http.StatusOK, restaurants)
}

// GetPhoto handles GET /api/places/photo
func (h *PlacesHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	image, err := h.service.PhotoURL(r.Context(), r.URL.Query().Get("photo_reference"))
	if err != nil {
		respondWithAppError(w, r, err, "failed to resolve photo")
		return
	}

	respondWithJSON(w, http.StatusOK, image)
}

// GetDetails handles GET /api/places/details
func (h *PlacesHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.PlaceDetails(r.Context(), r.URL.Query().Get("place_id"))
	if err != nil {
		respondWithAppError(w, r, err, "failed to get place details")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(details)
}
