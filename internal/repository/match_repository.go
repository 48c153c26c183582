package repository

import (
	"context"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
)

// MatchRepository stores matches keyed by the canonical user pair.
// Implementations canonicalize the key on every read and write.
type MatchRepository interface {
	// Create, FindByPair and UpdateScores are the step-by-step form of
	// Upsert for callers outside the batch, such as imports and admin tools.
	Create(ctx context.Context, match *domain.Match) error
	GetByID(ctx context.Context, id string) (*domain.Match, error)
	FindByPair(ctx context.Context, user1ID, user2ID string) (*domain.Match, error)
	UpdateScores(ctx context.Context, id string, update domain.ScoreUpdate) error
	// Upsert atomically creates the match for update.Key or refreshes its
	// score fields. created is true when a new row was inserted.
	Upsert(ctx context.Context, update domain.ScoreUpdate) (match *domain.Match, created bool, err error)
	UpdateStatus(ctx context.Context, match *domain.Match) error
	// ListForUser returns the user's matches by score desc, then newest first.
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Match, error)
	CountForUser(ctx context.Context, userID string) (int, error)
}
