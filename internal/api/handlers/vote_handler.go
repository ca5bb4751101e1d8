package handlers

import (
	"context"
	"net/http"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
)

// VoteRecorder is the vote behaviour the handler depends on.
type VoteRecorder interface {
	Record(ctx context.Context, history *entities.VoteHistory) error
	ListByUser(ctx context.Context, userID string) ([]entities.VoteHistory, error)
}

// VoteHandler handles voting sessions
type VoteHandler struct {
	service VoteRecorder
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(service VoteRecorder) *VoteHandler {
	return &VoteHandler{service: service}
}

// StoreVoteHistory handles POST /api/votes
func (h *VoteHandler) StoreVoteHistory(w http.ResponseWriter, r *http.Request) {
	var history entities.VoteHistory
	if err := decodeJSON(r, &history); err != nil {
		respondWithAppError(w, r, err, "invalid request")
		return
	}

	if err := h.service.Record(r.Context(), &history); err != nil {
		respondWithAppError(w, r, err, "failed to store vote history")
		return
	}

	respondWithJSON(w, http.StatusCreated, history)
}

// ListUserVoteHistory handles GET /api/votes?user_id=
func (h *VoteHandler) ListUserVoteHistory(w http.ResponseWriter, r *http.Request) {
	histories, err := h.service.ListByUser(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		respondWithAppError(w, r, err, "failed to retrieve vote history")
		return
	}

	respondWithJSON(w, http.StatusOK, histories)
}
