// Package memory holds process-local repository implementations used for
// dry runs and tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gdugdh24/devmatch-backend/internal/repository"
	"github.com/google/uuid"
)

type matchRepository struct {
	mu    sync.RWMutex
	byKey map[domain.PairKey]*domain.Match
	byID  map[string]domain.PairKey
	now   func() time.Time
}

func NewMatchRepository() repository.MatchRepository {
	return &matchRepository{
		byKey: make(map[domain.PairKey]*domain.Match),
		byID:  make(map[string]domain.PairKey),
		now:   time.Now,
	}
}

func (r *matchRepository) Create(_ context.Context, match *domain.Match) error {
	key := match.Key()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[key]; exists {
		return domain.ErrInvalidInput
	}
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.Status == "" {
		match.Status = domain.MatchStatusPending
	}
	match.UserA, match.UserB = key.A, key.B
	match.CreatedAt = r.now()

	r.byKey[key] = clone(match)
	r.byID[match.ID] = key
	return nil
}

func (r *matchRepository) GetByID(_ context.Context, id string) (*domain.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return clone(r.byKey[key]), nil
}

func (r *matchRepository) FindByPair(_ context.Context, user1ID, user2ID string) (*domain.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byKey[domain.NewPairKey(user1ID, user2ID)]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return clone(m), nil
}

func (r *matchRepository) UpdateScores(_ context.Context, id string, u domain.ScoreUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.byID[id]
	if !ok {
		return domain.ErrMatchNotFound
	}
	r.byKey[key].ApplyScores(u)
	return nil
}

func (r *matchRepository) Upsert(_ context.Context, u domain.ScoreUpdate) (*domain.Match, bool, error) {
	key := domain.NewPairKey(u.Key.A, u.Key.B)

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.byKey[key]; ok {
		m.ApplyScores(u)
		return clone(m), false, nil
	}

	m := &domain.Match{
		ID:          uuid.NewString(),
		UserA:       key.A,
		UserB:       key.B,
		Status:      domain.MatchStatusPending,
		ContactedBy: []string{},
		CreatedAt:   r.now(),
	}
	m.ApplyScores(u)
	r.byKey[key] = m
	r.byID[m.ID] = key
	return clone(m), true, nil
}

func (r *matchRepository) UpdateStatus(_ context.Context, match *domain.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.byID[match.ID]
	if !ok {
		return domain.ErrMatchNotFound
	}
	stored := r.byKey[key]
	stored.Status = match.Status
	stored.ContactedBy = slices.Clone(match.ContactedBy)
	return nil
}

func (r *matchRepository) ListForUser(_ context.Context, userID string, limit, offset int) ([]*domain.Match, error) {
	r.mu.RLock()
	var matches []*domain.Match
	for _, m := range r.byKey {
		if m.HasUser(userID) {
			matches = append(matches, clone(m))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CompatibilityScore != matches[j].CompatibilityScore {
			return matches[i].CompatibilityScore > matches[j].CompatibilityScore
		}
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})

	if offset >= len(matches) {
		return []*domain.Match{}, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *matchRepository) CountForUser(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, m := range r.byKey {
		if m.HasUser(userID) {
			n++
		}
	}
	return n, nil
}

func clone(m *domain.Match) *domain.Match {
	c := *m
	c.Badges = slices.Clone(m.Badges)
	c.ContactedBy = slices.Clone(m.ContactedBy)
	if m.Scores.Personal != nil {
		p := *m.Scores.Personal
		c.Scores.Personal = &p
	}
	return &c
}
