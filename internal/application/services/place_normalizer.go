package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

var nameQuoteStripper = strings.NewReplacer(`"`, "", `'`, "")

// PlaceNormalizer turns nearby-search payloads into Restaurant records.
type PlaceNormalizer struct {
	metrics *observability.Metrics
}

// NewPlaceNormalizer creates a new place normalizer
func NewPlaceNormalizer(metrics *observability.Metrics) *PlaceNormalizer {
	return &PlaceNormalizer{metrics: metrics}
}

// Normalize extracts one Restaurant per element of doc["results"], in input
// order. Malformed elements are skipped and logged; they never fail the batch.
func (n *PlaceNormalizer) Normalize(ctx context.Context, doc interface{}) []entities.Restaurant {
	logger := observability.LoggerFromContext(ctx)
	restaurants := []entities.Restaurant{}

	root, ok := doc.(map[string]interface{})
	if !ok {
		logger.Warn().Str("type", fmt.Sprintf("%T", doc)).Msg("Places payload is not a JSON object")
		return restaurants
	}
	results, ok := root["results"].([]interface{})
	if !ok {
		logger.Warn().Interface("status", root["status"]).Msg("Places payload has no results array")
		return restaurants
	}

	skipped := 0
	for i, element := range results {
		restaurant, err := NormalizePlace(element)
		if err != nil {
			skipped++
			logger.Warn().Err(err).Int("index", i).Msg("Skipping malformed place")
			continue
		}
		restaurants = append(restaurants, restaurant)
	}

	if skipped > 0 {
		observability.RecordPlacesSkipped(ctx, n.metrics, skipped)
	}
	return restaurants
}

// NormalizePlace converts a single search result. Any missing or ill-typed
// field yields a NORMALIZATION_SKIP error.
func NormalizePlace(element interface{}) (entities.Restaurant, error) {
	place, ok := element.(map[string]interface{})
	if !ok {
		return entities.Restaurant{}, skip("result is not an object")
	}

	var (
		r   entities.Restaurant
		err error
	)
	if r.PlaceID, err = stringField(place, "place_id"); err != nil {
		return entities.Restaurant{}, err
	}
	name, err := stringField(place, "name")
	if err != nil {
		return entities.Restaurant{}, err
	}
	r.Name = nameQuoteStripper.Replace(name)

	photos, ok := place["photos"].([]interface{})
	if !ok || len(photos) == 0 {
		return entities.Restaurant{}, skip(fmt.Sprintf("place %s has no photos", r.PlaceID))
	}
	photo, ok := photos[0].(map[string]interface{})
	if !ok {
		return entities.Restaurant{}, skip(fmt.Sprintf("place %s photo is not an object", r.PlaceID))
	}
	if r.Photos.Height, err = intField(photo, "height"); err != nil {
		return entities.Restaurant{}, err
	}
	if r.Photos.Width, err = intField(photo, "width"); err != nil {
		return entities.Restaurant{}, err
	}
	if r.Photos.PhotoReference, err = stringField(photo, "photo_reference"); err != nil {
		return entities.Restaurant{}, err
	}

	if r.Rating, err = floatField(place, "rating"); err != nil {
		return entities.Restaurant{}, err
	}
	if r.Vicinity, err = stringField(place, "vicinity"); err != nil {
		return entities.Restaurant{}, err
	}

	geometry, ok := place["geometry"].(map[string]interface{})
	if !ok {
		return entities.Restaurant{}, skip(fmt.Sprintf("place %s has no geometry", r.PlaceID))
	}
	location, ok := geometry["location"].(map[string]interface{})
	if !ok {
		return entities.Restaurant{}, skip(fmt.Sprintf("place %s has no geometry.location", r.PlaceID))
	}
	if r.Geometry.Lat, err = floatField(location, "lat"); err != nil {
		return entities.Restaurant{}, err
	}
	if r.Geometry.Lng, err = floatField(location, "lng"); err != nil {
		return entities.Restaurant{}, err
	}

	return r, nil
}

func skip(message string) error {
	return apperrors.NewNormalizationSkip(message)
}

func stringField(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key].(string)
	if !ok {
		return "", skip(fmt.Sprintf("missing string field %q", key))
	}
	return v, nil
}

func floatField(m map[string]interface{}, key string) (float64, error) {
	switch v := m[key].(type) {
	case float64:
		return v, nil
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, nil
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, nil
		}
	}
	return 0, skip(fmt.Sprintf("missing numeric field %q", key))
}

func intField(m map[string]interface{}, key string) (int64, error) {
	f, err := floatField(m, key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, skip(fmt.Sprintf("field %q is not an integer", key))
	}
	return int64(f), nil
}
