package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/clients/postgres"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

const reservationsTable = "user_reservations"

// ReservationAdapter implements the ReservationRepository interface
type ReservationAdapter struct {
	store store
	codec *RowCodec
}

// NewReservationAdapter creates a new reservation adapter
func NewReservationAdapter(accessor *postgres.Accessor, codec *RowCodec, metrics *observability.Metrics) repositories.ReservationRepository {
	return &ReservationAdapter{
		store: newStore(accessor, metrics),
		codec: codec,
	}
}

// AddReservation inserts a reservation. A user may hold several at the same place.
func (a *ReservationAdapter) AddReservation(ctx context.Context, reservation *entities.Reservation) error {
	if reservation == nil {
		return apperrors.NewValidationError("reservation is required")
	}

	vals, err := a.codec.ReservationValues(*reservation)
	if err != nil {
		return apperrors.NewStorageError("invalid reservation", err)
	}

	ds := a.store.insert(reservationsTable).
		Cols(reservationColumns...).
		Vals(vals)

	_, err = a.store.exec(ctx, "add_reservation", ds)
	return err
}

// RemoveReservation deletes every reservation the user holds at the place.
func (a *ReservationAdapter) RemoveReservation(ctx context.Context, userID, placeID string) error {
	ds := a.store.delete(reservationsTable).
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("place_id").Eq(placeID),
		)

	_, err := a.store.exec(ctx, "remove_reservation", ds)
	return err
}

// ListReservations returns all of a user's reservations ordered by time.
func (a *ReservationAdapter) ListReservations(ctx context.Context, userID string) ([]entities.Reservation, error) {
	return a.list(ctx, "list_reservations", goqu.C("user_id").Eq(userID))
}

// ListValidReservations returns the reservations still ahead of asOf.
func (a *ReservationAdapter) ListValidReservations(ctx context.Context, userID string, asOf time.Time) ([]entities.Reservation, error) {
	cutoff, err := a.codec.EncodeTimestamp(asOf.Unix())
	if err != nil {
		return nil, apperrors.NewStorageError("invalid reservation cutoff", err)
	}

	return a.list(ctx, "list_valid_reservations", goqu.And(
		goqu.C("user_id").Eq(userID),
		goqu.C("reservation_timestamp").Gt(cutoff),
	))
}

func (a *ReservationAdapter) list(ctx context.Context, operation string, filter goqu.Expression) ([]entities.Reservation, error) {
	ds := a.store.from(reservationsTable).
		Select(reservationColumns...).
		Where(filter).
		Order(goqu.C("reservation_timestamp").Asc())

	reservations := []entities.Reservation{}
	err := a.store.query(ctx, operation, ds, func(row rowScanner) error {
		reservation, err := a.codec.ScanReservation(row)
		if err != nil {
			return err
		}
		reservations = append(reservations, reservation)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservations, nil
}
