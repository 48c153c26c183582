package match

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gdugdh24/devmatch-backend/internal/repository"
	"github.com/gdugdh24/devmatch-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hookCall struct {
	key   domain.PairKey
	score int
}

type hookRecorder struct {
	mu    sync.Mutex
	calls []hookCall
}

func (h *hookRecorder) hook(_ context.Context, key domain.PairKey, score int) {
	h.mu.Lock()
	h.calls = append(h.calls, hookCall{key: key, score: score})
	h.mu.Unlock()
}

func city(s string) *string { return &s }

func setup(t *testing.T) (*MatchUseCase, repository.MatchRepository, *hookRecorder) {
	t.Helper()
	matches := memory.NewMatchRepository()
	profiles := memory.NewProfileRepository([]*domain.UserProfile{
		{ID: "alice", Username: "alice", Status: domain.StatusOfferHelp, City: city("Tartu")},
		{ID: "bob", Username: "bob", Status: domain.StatusSearchHelp},
		{ID: "carol", Username: "carol"},
	})
	rec := &hookRecorder{}
	return NewMatchUseCase(matches, profiles, rec.hook, nil), matches, rec
}

func seed(t *testing.T, repo repository.MatchRepository, a, b string, score int) *domain.Match {
	t.Helper()
	m, _, err := repo.Upsert(context.Background(), domain.ScoreUpdate{
		Key:                domain.NewPairKey(a, b),
		CompatibilityScore: score,
		MatchType:          domain.MatchTypeNetworking,
		Quality:            domain.QualityFair,
		CalculatedAt:       time.Now(),
	})
	require.NoError(t, err)
	return m
}

func TestContactFlowFiresHookOnce(t *testing.T) {
	ctx := context.Background()
	uc, repo, rec := setup(t)
	m := seed(t, repo, "alice", "bob", 82)

	resp, err := uc.Contact(ctx, m.ID, "alice")
	require.NoError(t, err)
	assert.False(t, resp.Connected)
	assert.Equal(t, domain.MatchStatusContacted, resp.Match.Status)
	assert.Equal(t, "bob", resp.Match.OtherUser.ID)
	assert.Equal(t, domain.StatusSearchHelp, resp.Match.OtherUser.Status)

	// repeated contact is idempotent
	resp, err = uc.Contact(ctx, m.ID, "alice")
	require.NoError(t, err)
	assert.False(t, resp.Connected)
	assert.Empty(t, rec.calls)

	resp, err = uc.Contact(ctx, m.ID, "bob")
	require.NoError(t, err)
	assert.True(t, resp.Connected)
	assert.Equal(t, domain.MatchStatusConnected, resp.Match.Status)
	assert.Equal(t, "Tartu", domain.Value(resp.Match.OtherUser.City))

	require.Len(t, rec.calls, 1)
	assert.Equal(t, domain.PairKey{A: "alice", B: "bob"}, rec.calls[0].key)
	assert.Equal(t, 82, rec.calls[0].score)

	_, err = uc.Contact(ctx, m.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, rec.calls, 1)

	stored, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, stored.ContactedBy)
}

func TestConcurrentContactConnectsOnce(t *testing.T) {
	ctx := context.Background()
	uc, repo, rec := setup(t)
	m := seed(t, repo, "alice", "bob", 70)

	var wg sync.WaitGroup
	for _, u := range []string{"alice", "bob", "alice", "bob"} {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			_, _ = uc.Contact(ctx, m.ID, u)
		}(u)
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MatchStatusConnected, stored.Status)
	assert.Len(t, rec.calls, 1)

	uc.locksMu.Lock()
	defer uc.locksMu.Unlock()
	assert.Empty(t, uc.locks)
}

func TestMatchLocksAreReleased(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := setup(t)

	for i := 0; i < 5; i++ {
		m := seed(t, repo, "alice", fmt.Sprintf("user-%d", i), 60)
		_, err := uc.Contact(ctx, m.ID, "alice")
		require.NoError(t, err)
		_, err = uc.Dismiss(ctx, m.ID, "alice")
		require.NoError(t, err)
	}
	_, err := uc.Contact(ctx, "missing", "alice")
	require.ErrorIs(t, err, domain.ErrMatchNotFound)

	uc.locksMu.Lock()
	defer uc.locksMu.Unlock()
	assert.Empty(t, uc.locks)
}

func TestContactRejectsOutsider(t *testing.T) {
	uc, repo, _ := setup(t)
	m := seed(t, repo, "alice", "bob", 60)

	_, err := uc.Contact(context.Background(), m.ID, "carol")
	assert.ErrorIs(t, err, domain.ErrNotMatchMember)

	_, err = uc.Dismiss(context.Background(), m.ID, "carol")
	assert.ErrorIs(t, err, domain.ErrNotMatchMember)
}

func TestContactUnknownMatch(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.Contact(context.Background(), "nope", "alice")
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
}

func TestDismiss(t *testing.T) {
	ctx := context.Background()
	uc, repo, rec := setup(t)
	m := seed(t, repo, "alice", "bob", 60)

	resp, err := uc.Dismiss(ctx, m.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchStatusDismissed, resp.Match.Status)

	_, err = uc.Contact(ctx, m.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, rec.calls)
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := setup(t)
	seed(t, repo, "alice", "bob", 60)
	seed(t, repo, "carol", "alice", 90)
	seed(t, repo, "alice", "ghost", 75)
	seed(t, repo, "bob", "carol", 99)

	resp, err := uc.ListForUser(ctx, "alice", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Pagination{Limit: DefaultLimit, Offset: 0, Total: 3}, resp.Pagination)
	require.Len(t, resp.Matches, 3)

	assert.Equal(t, "carol", resp.Matches[0].OtherUser.ID)
	assert.Equal(t, 90, resp.Matches[0].CompatibilityScore)
	assert.Equal(t, "ghost", resp.Matches[1].OtherUser.ID)
	assert.Empty(t, resp.Matches[1].OtherUser.Username)
	assert.Equal(t, "bob", resp.Matches[2].OtherUser.ID)
	assert.NotNil(t, resp.Matches[2].Badges)

	page, err := uc.ListForUser(ctx, "alice", 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Matches, 1)
	assert.Equal(t, "ghost", page.Matches[0].OtherUser.ID)
	assert.Equal(t, 3, page.Pagination.Total)
}

func TestListForUserLimits(t *testing.T) {
	uc, _, _ := setup(t)

	resp, err := uc.ListForUser(context.Background(), "alice", 1000, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, resp.Pagination.Limit)
	assert.Empty(t, resp.Matches)

	_, err = uc.ListForUser(context.Background(), "alice", 10, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
