package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/application/services"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/providers"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

// Mocks

type MockPlacesProvider struct {
	mock.Mock
}

func (m *MockPlacesProvider) NearbySearch(ctx context.Context, params providers.NearbySearchParams) (any, error) {
	args := m.Called(ctx, params)
	return args.Get(0), args.Error(1)
}

func (m *MockPlacesProvider) PhotoURL(ctx context.Context, photoReference string) (string, error) {
	args := m.Called(ctx, photoReference)
	return args.String(0), args.Error(1)
}

func (m *MockPlacesProvider) PlaceDetails(ctx context.Context, placeID string) (json.RawMessage, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) StoreBrowsedPlaces(ctx context.Context, restaurants []entities.Restaurant) error {
	args := m.Called(ctx, restaurants)
	return args.Error(0)
}

func (m *MockRestaurantRepository) GetRestaurant(ctx context.Context, placeID string) (*entities.Restaurant, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) SearchRestaurants(ctx context.Context, name string) ([]entities.Restaurant, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Restaurant), args.Error(1)
}

// Tests

func TestPlaceSearchService_SearchNearby(t *testing.T) {
	params := providers.NearbySearchParams{Location: "1.3,103.8", Radius: "1500", Type: "restaurant", MinPrice: "1"}
	payload := `{"results":[` + placeJSON("a", "Alpha", true) + `,` + placeJSON("b", "Bravo", false) + `]}`

	t.Run("normalizes and stores before returning", func(t *testing.T) {
		places := new(MockPlacesProvider)
		repo := new(MockRestaurantRepository)
		service := services.NewPlaceSearchService(places, services.NewPlaceNormalizer(nil), repo)

		places.On("NearbySearch", mock.Anything, params).Return(decode(t, payload), nil)
		repo.On("StoreBrowsedPlaces", mock.Anything, mock.MatchedBy(func(rs []entities.Restaurant) bool {
			return len(rs) == 1 && rs[0].PlaceID == "a"
		})).Return(nil)

		restaurants, err := service.SearchNearby(context.Background(), params)
		require.NoError(t, err)
		require.Len(t, restaurants, 1)
		assert.Equal(t, "Alpha", restaurants[0].Name)
		places.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("store failure is surfaced", func(t *testing.T) {
		places := new(MockPlacesProvider)
		repo := new(MockRestaurantRepository)
		service := services.NewPlaceSearchService(places, services.NewPlaceNormalizer(nil), repo)

		places.On("NearbySearch", mock.Anything, params).Return(decode(t, payload), nil)
		repo.On("StoreBrowsedPlaces", mock.Anything, mock.Anything).
			Return(apperrors.NewStorageError("failed to execute store_browsed_places", errors.New("disk full")))

		_, err := service.SearchNearby(context.Background(), params)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
	})

	t.Run("places API failure is external", func(t *testing.T) {
		places := new(MockPlacesProvider)
		repo := new(MockRestaurantRepository)
		service := services.NewPlaceSearchService(places, services.NewPlaceNormalizer(nil), repo)

		places.On("NearbySearch", mock.Anything, params).Return(nil, errors.New("timeout"))

		_, err := service.SearchNearby(context.Background(), params)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
		repo.AssertNotCalled(t, "StoreBrowsedPlaces", mock.Anything, mock.Anything)
	})

	t.Run("location is required", func(t *testing.T) {
		service := services.NewPlaceSearchService(new(MockPlacesProvider), services.NewPlaceNormalizer(nil), new(MockRestaurantRepository))

		_, err := service.SearchNearby(context.Background(), providers.NearbySearchParams{})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestPlaceSearchService_PhotoAndDetails(t *testing.T) {
	places := new(MockPlacesProvider)
	service := services.NewPlaceSearchService(places, services.NewPlaceNormalizer(nil), new(MockRestaurantRepository))
	ctx := context.Background()

	places.On("PhotoURL", ctx, "ref-1").Return("https://lh3.googleusercontent.com/p/abc", nil)
	places.On("PlaceDetails", ctx, "p1").Return(json.RawMessage(`{"result":{"name":"x"}}`), nil)
	places.On("PlaceDetails", ctx, "p2").Return(nil, errors.New("quota"))

	image, err := service.PhotoURL(ctx, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "https://lh3.googleusercontent.com/p/abc", image.ImageURL)

	details, err := service.PlaceDetails(ctx, "p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":{"name":"x"}}`, string(details))

	_, err = service.PlaceDetails(ctx, "p2")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))

	_, err = service.PhotoURL(ctx, " ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
