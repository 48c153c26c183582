package repository

import (
	"context"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
)

type ProfileRepository interface {
	ListAll(ctx context.Context) ([]*domain.UserProfile, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.UserProfile, error)
}
