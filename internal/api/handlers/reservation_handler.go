package handlers

import (
	"context"
	"net/http"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
)

// ReservationManager is the reservation behaviour the handler depends on.
type ReservationManager interface {
	Add(ctx context.Context, reservation *entities.Reservation) error
	Remove(ctx context.Context, userID, placeID string) error
	List(ctx context.Context, userID string) ([]entities.Reservation, error)
	ListValid(ctx context.Context, userID string) ([]entities.Reservation, error)
}

// ReservationHandler handles table reservations
type ReservationHandler struct {
	service ReservationManager
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(service ReservationManager) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// AddReservation handles POST /api/reservations
func (h *ReservationHandler) AddReservation(w http.ResponseWriter, r *http.Request) {
	var reservation entities.Reservation
	if err := decodeJSON(r, &reservation); err != nil {
		respondWithAppError(w, r, err, "invalid request")
		return
	}

	if err := h.service.Add(r.Context(), &reservation); err != nil {
		respondWithAppError(w, r, err, "failed to add reservation")
		return
	}

	respondWithJSON(w, http.StatusCreated, reservation)
}

// RemoveReservation handles DELETE /api/reservations?user_id=&place_id=
func (h *ReservationHandler) RemoveReservation(w http.ResponseWriter, r *http.Request) {
	params, err := requireQuery(r, "user_id", "place_id")
	if err != nil {
		respondWithAppError(w, r, err, "invalid request")
		return
	}

	if err := h.service.Remove(r.Context(), params[0], params[1]); err != nil {
		respondWithAppError(w, r, err, "failed to remove reservation")
		return
	}

	respondWithMessage(w, http.StatusOK, "Successfully removed reservation")
}

// ListValidReservations handles GET /api/reservations?user_id=
func (h *ReservationHandler) ListValidReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.service.ListValid(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		respondWithAppError(w, r, err, "failed to retrieve reservations")
		return
	}

	respondWithJSON(w, http.StatusOK, reservations)
}

// ListReservations handles GET /api/reservations/list?user_id=
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.service.List(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		respondWithAppError(w, r, err, "failed to retrieve reservations")
		return
	}

	respondWithJSON(w, http.StatusOK, reservations)
}
