package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/repositories"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/clients/postgres"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

const votesTable = "voting_history"

// VoteAdapter implements the VoteRepository interface
type VoteAdapter struct {
	store store
	codec *RowCodec
}

// NewVoteAdapter creates a new vote adapter
func NewVoteAdapter(accessor *postgres.Accessor, codec *RowCodec, metrics *observability.Metrics) repositories.VoteRepository {
	return &VoteAdapter{
		store: newStore(accessor, metrics),
		codec: codec,
	}
}

// StoreVoteHistory appends a voting session.
func (a *VoteAdapter) StoreVoteHistory(ctx context.Context, history *entities.VoteHistory) error {
	if history == nil {
		return apperrors.NewValidationError("vote history is required")
	}

	vals, err := a.codec.VoteValues(*history)
	if err != nil {
		return apperrors.NewStorageError("invalid vote history", err)
	}

	ds := a.store.insert(votesTable).
		Cols(voteColumns...).
		Vals(vals)

	_, err = a.store.exec(ctx, "store_vote_history", ds)
	return err
}

// ListUserVoteHistory returns the sessions a user took part in, newest first.
func (a *VoteAdapter) ListUserVoteHistory(ctx context.Context, userID string) ([]entities.VoteHistory, error) {
	ds := a.store.from(votesTable).
		Select(voteColumns...).
		Where(goqu.L("? = ANY(?)", userID, goqu.C("user_ids"))).
		Order(goqu.C("vote_timestamp").Desc())

	histories := []entities.VoteHistory{}
	err := a.store.query(ctx, "list_user_vote_history", ds, func(row rowScanner) error {
		history, err := a.codec.ScanVoteHistory(row)
		if err != nil {
			return err
		}
		histories = append(histories, history)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return histories, nil
}
