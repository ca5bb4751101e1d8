package services

import (
	"context"
	"strings"
	"time"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

// ReservationService handles table reservations.
type ReservationService struct {
	repo repositories.ReservationRepository
	now  func() time.Time
}

// NewReservationService creates a new reservation service.
func NewReservationService(repo repositories.ReservationRepository) *ReservationService {
	return &ReservationService{repo: repo, now: time.Now}
}

// Add stores a reservation.
func (s *ReservationService) Add(ctx context.Context, reservation *entities.Reservation) error {
	if reservation == nil {
		return apperrors.NewValidationError("reservation is required")
	}
	if err := requirePair(reservation.UserID, reservation.PlaceID); err != nil {
		return err
	}
	if reservation.ReservationPax <= 0 {
		return apperrors.NewValidationError("reservation_pax must be positive")
	}
	if reservation.ReservationTimestamp <= 0 {
		return apperrors.NewValidationError("reservation_timestamp is required")
	}
	if err := requireStorable("reservation_timestamp", reservation.ReservationTimestamp); err != nil {
		return err
	}
	if err := requireStorable("reservation_pax", reservation.ReservationPax); err != nil {
		return err
	}
	return s.repo.AddReservation(ctx, reservation)
}

// Remove deletes every reservation the user holds at the place.
func (s *ReservationService) Remove(ctx context.Context, userID, placeID string) error {
	if err := requirePair(userID, placeID); err != nil {
		return err
	}
	return s.repo.RemoveReservation(ctx, userID, placeID)
}

// List returns all of a user's reservations, past ones included.
func (s *ReservationService) List(ctx context.Context, userID string) ([]entities.Reservation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user_id is required")
	}
	return s.repo.ListReservations(ctx, userID)
}

// ListValid returns the reservations that have not elapsed yet.
func (s *ReservationService) ListValid(ctx context.Context, userID string) ([]entities.Reservation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user_id is required")
	}
	return s.repo.ListValidReservations(ctx, userID, s.now())
}
