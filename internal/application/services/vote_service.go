package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

// VoteService records voting sessions.
type VoteService struct {
	repo repositories.VoteRepository
	now  func() time.Time
}

// NewVoteService creates a new vote service.
func NewVoteService(repo repositories.VoteRepository) *VoteService {
	return &VoteService{repo: repo, now: time.Now}
}

// Record stores a session. Voted places are kept as sent; each must be valid JSON.
func (s *VoteService) Record(ctx context.Context, history *entities.VoteHistory) error {
	if history == nil || len(history.UserIDs) == 0 {
		return apperrors.NewValidationError("user_ids must not be empty")
	}
	for _, id := range history.UserIDs {
		if strings.TrimSpace(id) == "" {
			return apperrors.NewValidationError("user_ids must not contain blanks")
		}
	}
	for _, place := range history.VotedPlaces {
		if !json.Valid(place) {
			return apperrors.NewValidationError("voted_places must be JSON documents")
		}
	}
	if history.VoteTimestamp == 0 {
		history.VoteTimestamp = s.now().Unix()
	}
	if err := requireStorable("vote_timestamp", history.VoteTimestamp); err != nil {
		return err
	}
	return s.repo.StoreVoteHistory(ctx, history)
}

// ListByUser returns the sessions a user took part in.
func (s *VoteService) ListByUser(ctx context.Context, userID string) ([]entities.VoteHistory, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user_id is required")
	}
	return s.repo.ListUserVoteHistory(ctx, userID)
}
