package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/providers"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

// PlaceSearchService browses nearby places and keeps the places cache filled.
type PlaceSearchService struct {
	places     providers.PlacesProvider
	normalizer *PlaceNormalizer
	repo       repositories.RestaurantRepository
}

// NewPlaceSearchService creates a new place search service
func NewPlaceSearchService(places providers.PlacesProvider, normalizer *PlaceNormalizer, repo repositories.RestaurantRepository) *PlaceSearchService {
	return &PlaceSearchService{
		places:     places,
		normalizer: normalizer,
		repo:       repo,
	}
}

// SearchNearby queries the places API, normalizes the results and caches them
// before returning them in API order.
func (s *PlaceSearchService) SearchNearby(ctx context.Context, params providers.NearbySearchParams) ([]entities.Restaurant, error) {
	if strings.TrimSpace(params.Location) == "" {
		return nil, apperrors.NewValidationError("location is required")
	}

	ctx, span := observability.StartSpan(ctx, "places.search_nearby")
	defer span.End()

	doc, err := s.places.NearbySearch(ctx, params)
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewExternalError("nearby search failed", err)
	}

	restaurants := s.normalizer.Normalize(ctx, doc)
	if err := s.repo.StoreBrowsedPlaces(ctx, restaurants); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("location", params.Location).
		Int("count", len(restaurants)).
		Msg("Nearby search completed")
	return restaurants, nil
}

// PhotoURL resolves a photo reference to an image URL.
func (s *PlaceSearchService) PhotoURL(ctx context.Context, photoReference string) (*entities.RestaurantImage, error) {
	if strings.TrimSpace(photoReference) == "" {
		return nil, apperrors.NewValidationError("photo_reference is required")
	}
	imageURL, err := s.places.PhotoURL(ctx, photoReference)
	if err != nil {
		return nil, apperrors.NewExternalError("photo lookup failed", err)
	}
	return &entities.RestaurantImage{ImageURL: imageURL}, nil
}

// PlaceDetails returns the places API details document unchanged.
func (s *PlaceSearchService) PlaceDetails(ctx context.Context, placeID string) (json.RawMessage, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, apperrors.NewValidationError("place_id is required")
	}
	details, err := s.places.PlaceDetails(ctx, placeID)
	if err != nil {
		return nil, apperrors.NewExternalError("place details lookup failed", err)
	}
	return details, nil
}
