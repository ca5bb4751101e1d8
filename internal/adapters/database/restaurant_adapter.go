package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/clients/postgres"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

const placesTable = "places"

// RestaurantAdapter implements the RestaurantRepository interface
type RestaurantAdapter struct {
	store store
	codec *RowCodec
}

// NewRestaurantAdapter creates a new restaurant adapter
func NewRestaurantAdapter(accessor *postgres.Accessor, codec *RowCodec, metrics *observability.Metrics) repositories.RestaurantRepository {
	return &RestaurantAdapter{
		store: newStore(accessor, metrics),
		codec: codec,
	}
}

// StoreBrowsedPlaces caches a normalized batch in a single insert. Places
// already cached are left untouched.
func (a *RestaurantAdapter) StoreBrowsedPlaces(ctx context.Context, restaurants []entities.Restaurant) error {
	if len(restaurants) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(restaurants))
	for _, restaurant := range restaurants {
		vals, err := a.codec.RestaurantValues(restaurant)
		if err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("invalid place %s", restaurant.PlaceID), err)
		}
		rows = append(rows, vals)
	}

	ds := a.store.insert(placesTable).
		Cols(restaurantColumns...).
		Vals(rows...).
		OnConflict(goqu.DoNothing())

	if _, err := a.store.exec(ctx, "store_browsed_places", ds); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Debug().Int("count", len(restaurants)).Msg("Stored browsed places")
	return nil
}

// GetRestaurant retrieves a cached place by ID
func (a *RestaurantAdapter) GetRestaurant(ctx context.Context, placeID string) (*entities.Restaurant, error) {
	ds := a.store.from(placesTable).
		Select(restaurantColumns...).
		Where(goqu.C("place_id").Eq(placeID))

	var restaurant entities.Restaurant
	found, err := a.store.queryRow(ctx, "get_restaurant", ds, func(row rowScanner) error {
		var err error
		restaurant, err = a.codec.ScanRestaurant(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &restaurant, nil
}

// SearchRestaurants finds cached places whose name contains name, ignoring case
func (a *RestaurantAdapter) SearchRestaurants(ctx context.Context, name string) ([]entities.Restaurant, error) {
	ds := a.store.from(placesTable).
		Select(restaurantColumns...).
		Where(goqu.C("name").ILike("%" + escapeLike(name) + "%")).
		Order(goqu.C("name").Asc())

	restaurants := []entities.Restaurant{}
	err := a.store.query(ctx, "search_restaurants", ds, func(row rowScanner) error {
		restaurant, err := a.codec.ScanRestaurant(row)
		if err != nil {
			return err
		}
		restaurants = append(restaurants, restaurant)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
