package repository

import (
	"context"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
)

// CheckpointRepository persists batch progress. Load returns
// domain.ErrCheckpointNotFound when nothing was saved.
type CheckpointRepository interface {
	Load(ctx context.Context) (*domain.Checkpoint, error)
	Save(ctx context.Context, cp *domain.Checkpoint) error
	Clear(ctx context.Context) error
}
