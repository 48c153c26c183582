package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gdugdh24/devmatch-backend/internal/repository"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const DefaultCheckpointKey = "matcher:batch:checkpoint"

type checkpointRepository struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewCheckpointRepository stores the checkpoint as JSON under key. A zero
// ttl keeps it until Clear.
func NewCheckpointRepository(client *redis.Client, key string, ttl time.Duration) repository.CheckpointRepository {
	if key == "" {
		key = DefaultCheckpointKey
	}
	return &checkpointRepository{client: client, key: key, ttl: ttl}
}

func (r *checkpointRepository) Load(ctx context.Context) (*domain.Checkpoint, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}

	var cp domain.Checkpoint
	if err := json.Unmarshal(b, &cp); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	return &cp, nil
}

func (r *checkpointRepository) Save(ctx context.Context, cp *domain.Checkpoint) error {
	b, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (r *checkpointRepository) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
