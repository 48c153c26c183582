package memory

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gdugdh24/devmatch-backend/internal/repository"
	"github.com/goccy/go-json"
)

type profileRepository struct {
	profiles []*domain.UserProfile
	byID     map[string]*domain.UserProfile
}

// NewProfileRepository serves a fixed snapshot, sorted by id.
func NewProfileRepository(profiles []*domain.UserProfile) repository.ProfileRepository {
	sorted := make([]*domain.UserProfile, len(profiles))
	copy(sorted, profiles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[string]*domain.UserProfile, len(sorted))
	for _, p := range sorted {
		byID[p.ID] = p
	}
	return &profileRepository{profiles: sorted, byID: byID}
}

// LoadProfiles reads a JSON array of profiles from path.
func LoadProfiles(path string) ([]*domain.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	var profiles []*domain.UserProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles %s: %w", path, err)
	}
	seen := make(map[string]struct{}, len(profiles))
	for i, p := range profiles {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("profile #%d: %w: missing id", i, domain.ErrInvalidInput)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("profile #%d: %w: duplicate id %q", i, domain.ErrInvalidInput, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return profiles, nil
}

func (r *profileRepository) ListAll(_ context.Context) ([]*domain.UserProfile, error) {
	out := make([]*domain.UserProfile, len(r.profiles))
	copy(out, r.profiles)
	return out, nil
}

func (r *profileRepository) GetByIDs(_ context.Context, ids []string) (map[string]*domain.UserProfile, error) {
	out := make(map[string]*domain.UserProfile, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
