package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/providers"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
)

// restaurantByIDTTL is long because cached places are never rewritten.
const restaurantByIDTTL = 24 * 60 * 60

const restaurantCacheName = "restaurant"

func restaurantCacheKey(placeID string) string {
	return fmt.Sprintf("restaurant:%s", placeID)
}

// CachedRestaurantAdapter wraps a RestaurantRepository with a read-through
// cache for single place lookups.
type CachedRestaurantAdapter struct {
	adapter repositories.RestaurantRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedRestaurantAdapter creates a new cached restaurant adapter
func NewCachedRestaurantAdapter(adapter repositories.RestaurantRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.RestaurantRepository {
	return &CachedRestaurantAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// StoreBrowsedPlaces writes through to the database. Existing rows are never
// overwritten, so cached entries stay valid.
func (a *CachedRestaurantAdapter) StoreBrowsedPlaces(ctx context.Context, restaurants []entities.Restaurant) error {
	return a.adapter.StoreBrowsedPlaces(ctx, restaurants)
}

// GetRestaurant retrieves a place, consulting the cache first
func (a *CachedRestaurantAdapter) GetRestaurant(ctx context.Context, placeID string) (*entities.Restaurant, error) {
	logger := observability.LoggerFromContext(ctx)
	cacheKey := restaurantCacheKey(placeID)

	cached, err := a.cache.Get(ctx, cacheKey)
	switch {
	case err == nil:
		var restaurant entities.Restaurant
		decodeErr := json.Unmarshal(cached, &restaurant)
		if decodeErr == nil {
			observability.RecordCacheHit(ctx, a.metrics, restaurantCacheName)
			return &restaurant, nil
		}
		logger.Warn().Err(decodeErr).Str("place_id", placeID).Msg("Discarding unreadable cached restaurant")
	case !errors.Is(err, providers.ErrCacheMiss):
		logger.Warn().Err(err).Str("place_id", placeID).Msg("Restaurant cache unavailable")
	}
	observability.RecordCacheMiss(ctx, a.metrics, restaurantCacheName)

	restaurant, err := a.adapter.GetRestaurant(ctx, placeID)
	if err != nil || restaurant == nil {
		return restaurant, err
	}

	if data, err := json.Marshal(restaurant); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, restaurantByIDTTL); err != nil {
			logger.Warn().Err(err).Str("place_id", placeID).Msg("Failed to cache restaurant")
		}
	}
	return restaurant, nil
}

// SearchRestaurants is not cached; results change as places are browsed.
func (a *CachedRestaurantAdapter) SearchRestaurants(ctx context.Context, name string) ([]entities.Restaurant, error) {
	return a.adapter.SearchRestaurants(ctx, name)
}
