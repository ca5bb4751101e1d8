package services_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/application/services"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

// Mocks

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) AddReview(ctx context.Context, review *entities.RestaurantRating) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) UpdateReview(ctx context.Context, review *entities.RestaurantRating) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) RemoveReview(ctx context.Context, userID, placeID string) error {
	return m.Called(ctx, userID, placeID).Error(0)
}

func (m *MockReviewRepository) ListUserReviews(ctx context.Context, userID string) ([]entities.RestaurantRating, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]entities.RestaurantRating), args.Error(1)
}

func (m *MockReviewRepository) ListRestaurantReviews(ctx context.Context, placeID string) ([]entities.RestaurantRating, error) {
	args := m.Called(ctx, placeID)
	return args.Get(0).([]entities.RestaurantRating), args.Error(1)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) AddReservation(ctx context.Context, reservation *entities.Reservation) error {
	return m.Called(ctx, reservation).Error(0)
}

func (m *MockReservationRepository) RemoveReservation(ctx context.Context, userID, placeID string) error {
	return m.Called(ctx, userID, placeID).Error(0)
}

func (m *MockReservationRepository) ListReservations(ctx context.Context, userID string) ([]entities.Reservation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]entities.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListValidReservations(ctx context.Context, userID string, asOf time.Time) ([]entities.Reservation, error) {
	args := m.Called(ctx, userID, asOf)
	return args.Get(0).([]entities.Reservation), args.Error(1)
}

type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) StoreVoteHistory(ctx context.Context, history *entities.VoteHistory) error {
	return m.Called(ctx, history).Error(0)
}

func (m *MockVoteRepository) ListUserVoteHistory(ctx context.Context, userID string) ([]entities.VoteHistory, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]entities.VoteHistory), args.Error(1)
}

// Tests

func TestReviewService(t *testing.T) {
	ctx := context.Background()

	t.Run("add stamps missing timestamp", func(t *testing.T) {
		repo := new(MockReviewRepository)
		service := services.NewReviewService(repo)

		review := &entities.RestaurantRating{UserID: "u1", PlaceID: "p1", Rating: 4}
		repo.On("AddReview", ctx, review).Return(nil)

		before := time.Now().Unix()
		require.NoError(t, service.Add(ctx, review))
		assert.GreaterOrEqual(t, review.Timestamp, before)
		repo.AssertExpectations(t)
	})

	t.Run("conflict from storage passes through", func(t *testing.T) {
		repo := new(MockReviewRepository)
		service := services.NewReviewService(repo)

		review := &entities.RestaurantRating{UserID: "u1", PlaceID: "p1", Rating: 4, Timestamp: 10}
		repo.On("AddReview", ctx, review).Return(apperrors.NewConflictError("review already exists for this place"))

		err := service.Add(ctx, review)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
		assert.Equal(t, int64(10), review.Timestamp)
	})

	t.Run("update restamps", func(t *testing.T) {
		repo := new(MockReviewRepository)
		service := services.NewReviewService(repo)

		review := &entities.RestaurantRating{UserID: "u1", PlaceID: "p1", Rating: 2, Timestamp: 10}
		repo.On("UpdateReview", ctx, review).Return(nil)

		require.NoError(t, service.Update(ctx, review))
		assert.Greater(t, review.Timestamp, int64(10))
	})

	t.Run("rejects invalid input without touching storage", func(t *testing.T) {
		repo := new(MockReviewRepository)
		service := services.NewReviewService(repo)

		assert.True(t, apperrors.IsType(service.Add(ctx, &entities.RestaurantRating{PlaceID: "p1", Rating: 1}), apperrors.ErrorTypeValidation))
		assert.True(t, apperrors.IsType(service.Add(ctx, &entities.RestaurantRating{UserID: "u1", PlaceID: "p1", Rating: 9}), apperrors.ErrorTypeValidation))
		assert.True(t, apperrors.IsType(service.Remove(ctx, "u1", ""), apperrors.ErrorTypeValidation))
		_, err := service.ListByRestaurant(ctx, "")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		repo.AssertExpectations(t)
	})

	t.Run("rejects timestamps outside the storable range", func(t *testing.T) {
		repo := new(MockReviewRepository)
		service := services.NewReviewService(repo)

		err := service.Add(ctx, &entities.RestaurantRating{UserID: "u1", PlaceID: "p1", Rating: 3, Timestamp: math.MaxInt32 + 1})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		err = service.Add(ctx, &entities.RestaurantRating{UserID: "u1", PlaceID: "p1", Rating: 3, Timestamp: -5})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		repo.AssertNotCalled(t, "AddReview", mock.Anything, mock.Anything)
	})
}

func TestReservationService(t *testing.T) {
	ctx := context.Background()

	t.Run("valid list is evaluated against now", func(t *testing.T) {
		repo := new(MockReservationRepository)
		service := services.NewReservationService(repo)

		future := entities.Reservation{UserID: "u1", PlaceID: "p1", ReservationTimestamp: time.Now().Add(time.Hour).Unix(), ReservationPax: 2}
		repo.On("ListValidReservations", ctx, "u1", mock.MatchedBy(func(asOf time.Time) bool {
			return time.Since(asOf) < time.Minute
		})).Return([]entities.Reservation{future}, nil)

		reservations, err := service.ListValid(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []entities.Reservation{future}, reservations)
	})

	t.Run("past reservations are still listed in full history", func(t *testing.T) {
		repo := new(MockReservationRepository)
		service := services.NewReservationService(repo)

		past := entities.Reservation{UserID: "u1", PlaceID: "p1", ReservationTimestamp: 1000, ReservationPax: 2}
		repo.On("ListReservations", ctx, "u1").Return([]entities.Reservation{past}, nil)

		reservations, err := service.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, reservations, 1)
		assert.False(t, reservations[0].IsValidAt(time.Now()))
	})

	t.Run("rejects empty party", func(t *testing.T) {
		service := services.NewReservationService(new(MockReservationRepository))

		err := service.Add(ctx, &entities.Reservation{UserID: "u1", PlaceID: "p1", ReservationTimestamp: 1800000000})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("rejects values the 32-bit columns cannot hold", func(t *testing.T) {
		repo := new(MockReservationRepository)
		service := services.NewReservationService(repo)

		tests := []struct {
			name        string
			reservation entities.Reservation
		}{
			{name: "after 2038-01-19", reservation: entities.Reservation{UserID: "u1", PlaceID: "p1", ReservationTimestamp: math.MaxInt32 + 1, ReservationPax: 2}},
			{name: "year 2100", reservation: entities.Reservation{UserID: "u1", PlaceID: "p1", ReservationTimestamp: 4102444800, ReservationPax: 2}},
			{name: "oversized party", reservation: entities.Reservation{UserID: "u1", PlaceID: "p1", ReservationTimestamp: 1800000000, ReservationPax: math.MaxInt32 + 1}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				reservation := tt.reservation
				err := service.Add(ctx, &reservation)
				assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			})
		}
		repo.AssertNotCalled(t, "AddReservation", mock.Anything, mock.Anything)
	})

	t.Run("accepts the last storable second", func(t *testing.T) {
		repo := new(MockReservationRepository)
		service := services.NewReservationService(repo)

		reservation := &entities.Reservation{UserID: "u1", PlaceID: "p1", ReservationTimestamp: math.MaxInt32, ReservationPax: 2}
		repo.On("AddReservation", ctx, reservation).Return(nil)

		require.NoError(t, service.Add(ctx, reservation))
		repo.AssertExpectations(t)
	})
}

func TestVoteService(t *testing.T) {
	ctx := context.Background()

	t.Run("records a session", func(t *testing.T) {
		repo := new(MockVoteRepository)
		service := services.NewVoteService(repo)

		history := &entities.VoteHistory{
			UserIDs:     []string{"u1", "u2"},
			VotedPlaces: []json.RawMessage{json.RawMessage(`{"place_id":"p1"}`)},
		}
		repo.On("StoreVoteHistory", ctx, history).Return(nil)

		require.NoError(t, service.Record(ctx, history))
		assert.NotZero(t, history.VoteTimestamp)
		repo.AssertExpectations(t)
	})

	t.Run("rejects sessions without participants or with broken payloads", func(t *testing.T) {
		service := services.NewVoteService(new(MockVoteRepository))

		assert.True(t, apperrors.IsType(service.Record(ctx, &entities.VoteHistory{}), apperrors.ErrorTypeValidation))
		assert.True(t, apperrors.IsType(service.Record(ctx, &entities.VoteHistory{
			UserIDs:     []string{"u1"},
			VotedPlaces: []json.RawMessage{json.RawMessage(`{broken`)},
		}), apperrors.ErrorTypeValidation))
	})

	t.Run("rejects timestamps outside the storable range", func(t *testing.T) {
		repo := new(MockVoteRepository)
		service := services.NewVoteService(repo)

		err := service.Record(ctx, &entities.VoteHistory{UserIDs: []string{"u1"}, VoteTimestamp: math.MaxInt32 + 1})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		repo.AssertNotCalled(t, "StoreVoteHistory", mock.Anything, mock.Anything)
	})
}
