package memory

import (
	"context"
	"sync"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gdugdh24/devmatch-backend/internal/repository"
)

type checkpointRepository struct {
	mu sync.Mutex
	cp *domain.Checkpoint
}

func NewCheckpointRepository() repository.CheckpointRepository {
	return &checkpointRepository{}
}

func (r *checkpointRepository) Load(_ context.Context) (*domain.Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cp == nil {
		return nil, domain.ErrCheckpointNotFound
	}
	cp := *r.cp
	return &cp, nil
}

func (r *checkpointRepository) Save(_ context.Context, cp *domain.Checkpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *cp
	r.cp = &saved
	return nil
}

func (r *checkpointRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	r.cp = nil
	r.mu.Unlock()
	return nil
}
