package database_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/adapters/database"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

var reservationRowColumns = []string{"user_id", "place_id", "reservation_timestamp", "reservation_pax"}

func TestReservationAdapter_AddReservation(t *testing.T) {
	t.Run("inserts without uniqueness", func(t *testing.T) {
		accessor, mock := newTestAccessor(t)
		adapter := database.NewReservationAdapter(accessor, newTestCodec(t, "epoch"), nil)

		reservation := &entities.Reservation{UserID: "u1", PlaceID: "p1", ReservationTimestamp: 1800000000, ReservationPax: 4}
		for i := 0; i < 2; i++ {
			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "user_reservations" ("user_id", "place_id", "reservation_timestamp", "reservation_pax")`)).
				WithArgs("u1", "p1", int64(1800000000), int64(4)).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}

		require.NoError(t, adapter.AddReservation(context.Background(), reservation))
		require.NoError(t, adapter.AddReservation(context.Background(), reservation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pax beyond 32 bits is rejected before sending", func(t *testing.T) {
		accessor, mock := newTestAccessor(t)
		adapter := database.NewReservationAdapter(accessor, newTestCodec(t, "epoch"), nil)

		err := adapter.AddReservation(context.Background(), &entities.Reservation{UserID: "u1", PlaceID: "p1", ReservationTimestamp: 1800000000, ReservationPax: 1 << 33})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationAdapter_RemoveReservation(t *testing.T) {
	accessor, mock := newTestAccessor(t)
	adapter := database.NewReservationAdapter(accessor, newTestCodec(t, "epoch"), nil)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "user_reservations"`)).
		WithArgs("u1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, adapter.RemoveReservation(context.Background(), "u1", "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationAdapter_ListReservations(t *testing.T) {
	accessor, mock := newTestAccessor(t)
	adapter := database.NewReservationAdapter(accessor, newTestCodec(t, "epoch"), nil)

	rows := sqlmock.NewRows(reservationRowColumns).
		AddRow("u1", "p1", int64(1600000000), int64(2)).
		AddRow("u1", "p2", int64(1900000000), int64(6))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "user_reservations" WHERE ("user_id" = $1) ORDER BY "reservation_timestamp" ASC`)).
		WithArgs("u1").
		WillReturnRows(rows)

	reservations, err := adapter.ListReservations(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, reservations, 2)
	assert.Equal(t, entities.Reservation{UserID: "u1", PlaceID: "p1", ReservationTimestamp: 1600000000, ReservationPax: 2}, reservations[0])
	assert.Equal(t, int64(6), reservations[1].ReservationPax)
}

func TestReservationAdapter_ListValidReservations(t *testing.T) {
	asOf := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("epoch cutoff", func(t *testing.T) {
		accessor, mock := newTestAccessor(t)
		adapter := database.NewReservationAdapter(accessor, newTestCodec(t, "epoch"), nil)

		rows := sqlmock.NewRows(reservationRowColumns).
			AddRow("u1", "p2", int64(1900000000), int64(6))
		mock.ExpectQuery(regexp.QuoteMeta(`("reservation_timestamp" > $2)`)).
			WithArgs("u1", asOf.Unix()).
			WillReturnRows(rows)

		reservations, err := adapter.ListValidReservations(context.Background(), "u1", asOf)
		require.NoError(t, err)
		require.Len(t, reservations, 1)
		assert.True(t, reservations[0].IsValidAt(asOf))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("calendar cutoff", func(t *testing.T) {
		accessor, mock := newTestAccessor(t)
		adapter := database.NewReservationAdapter(accessor, newTestCodec(t, "calendar"), nil)

		later := time.Date(2024, 6, 1, 19, 30, 0, 0, time.UTC)
		rows := sqlmock.NewRows(reservationRowColumns).
			AddRow("u1", "p2", later, int64(2))
		mock.ExpectQuery(regexp.QuoteMeta(`("reservation_timestamp" > $2)`)).
			WithArgs("u1", "2024-05-01 12:00:00").
			WillReturnRows(rows)

		reservations, err := adapter.ListValidReservations(context.Background(), "u1", asOf)
		require.NoError(t, err)
		require.Len(t, reservations, 1)
		assert.Equal(t, later.Unix(), reservations[0].ReservationTimestamp)
	})
}
