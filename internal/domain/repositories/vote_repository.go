package repositories

import (
	"context"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
)

// VoteRepository defines the interface for voting session history.
type VoteRepository interface {
	StoreVoteHistory(ctx context.Context, history *entities.VoteHistory) error
	ListUserVoteHistory(ctx context.Context, userID string) ([]entities.VoteHistory, error)
}
