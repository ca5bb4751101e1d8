package repositories

import (
	"context"
	"time"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
)

// ReservationRepository defines the interface for user reservations.
type ReservationRepository interface {
	AddReservation(ctx context.Context, reservation *entities.Reservation) error
	RemoveReservation(ctx context.Context, userID, placeID string) error
	ListReservations(ctx context.Context, userID string) ([]entities.Reservation, error)

	// ListValidReservations returns reservations whose time is after asOf.
	ListValidReservations(ctx context.Context, userID string, asOf time.Time) ([]entities.Reservation, error)
}
