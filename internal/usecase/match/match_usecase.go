package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gdugdh24/devmatch-backend/internal/repository"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// EligibilityHook is called once when a match becomes connected through
// mutual contact. Delivery to users is up to the subscriber.
type EligibilityHook func(ctx context.Context, key domain.PairKey, score int)

type MatchUseCase struct {
	matchRepo   repository.MatchRepository
	profileRepo repository.ProfileRepository
	hook        EligibilityHook
	logger      *zap.Logger

	// serializes status changes per match; entries live only while held
	locksMu sync.Mutex
	locks   map[string]*matchLock
}

type matchLock struct {
	mu   sync.Mutex
	refs int
}

func NewMatchUseCase(
	matchRepo repository.MatchRepository,
	profileRepo repository.ProfileRepository,
	hook EligibilityHook,
	logger *zap.Logger,
) *MatchUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchUseCase{
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		hook:        hook,
		logger:      logger.Named("match"),
		locks:       make(map[string]*matchLock),
	}
}

// ActionRequest is the body of contact and dismiss calls.
type ActionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// UserSummary is the short profile shown next to a match.
type UserSummary struct {
	ID            string               `json:"id"`
	Username      string               `json:"username,omitempty"`
	Status        domain.UserStatus    `json:"status,omitempty"`
	DevExperience domain.DevExperience `json:"dev_experience,omitempty"`
	TechArea      []string             `json:"tech_area,omitempty"`
	Country       *string              `json:"country,omitempty"`
	City          *string              `json:"city,omitempty"`
}

type MatchResponse struct {
	MatchID            string             `json:"match_id"`
	OtherUser          *UserSummary       `json:"other_user"`
	CompatibilityScore int                `json:"compatibility_score"`
	Scores             domain.Scores      `json:"scores"`
	Badges             []domain.Badge     `json:"badges"`
	MatchType          domain.MatchType   `json:"match_type"`
	Quality            domain.Quality     `json:"quality"`
	Status             domain.MatchStatus `json:"status"`
	LastCalculated     time.Time          `json:"last_calculated"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

type MatchListResponse struct {
	Matches    []MatchResponse `json:"matches"`
	Pagination Pagination      `json:"pagination"`
}

// ActionResponse is returned by Contact and Dismiss.
type ActionResponse struct {
	Match     MatchResponse `json:"match"`
	Connected bool          `json:"connected"`
}

// ListForUser returns userID's matches ranked by score, newest first on ties.
func (uc *MatchUseCase) ListForUser(ctx context.Context, userID string, limit, offset int) (*MatchListResponse, error) {
	if userID == "" || offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	total, err := uc.matchRepo.CountForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}

	matches, err := uc.matchRepo.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	otherIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		if other, ok := m.GetOtherUserID(userID); ok {
			otherIDs = append(otherIDs, other)
		}
	}
	profiles, err := uc.profileRepo.GetByIDs(ctx, otherIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	response := &MatchListResponse{
		Matches:    make([]MatchResponse, 0, len(matches)),
		Pagination: Pagination{Limit: limit, Offset: offset, Total: total},
	}
	for _, m := range matches {
		other, _ := m.GetOtherUserID(userID)
		response.Matches = append(response.Matches, toResponse(m, summarize(other, profiles[other])))
	}
	return response, nil
}

// Contact records that userID reached out. When the other side already did,
// the match becomes connected and the eligibility hook fires.
func (uc *MatchUseCase) Contact(ctx context.Context, matchID, userID string) (*ActionResponse, error) {
	unlock := uc.lock(matchID)
	defer unlock()

	m, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	connected, err := m.Contact(userID)
	if err != nil {
		return nil, err
	}
	if err := uc.matchRepo.UpdateStatus(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}

	if connected {
		uc.logger.Info("match connected",
			zap.String("match_id", m.ID),
			zap.String("pair", m.Key().String()),
			zap.Int("score", m.CompatibilityScore),
		)
		if uc.hook != nil {
			uc.hook(ctx, m.Key(), m.CompatibilityScore)
		}
	}

	return uc.actionResponse(ctx, m, userID, connected)
}

func (uc *MatchUseCase) Dismiss(ctx context.Context, matchID, userID string) (*ActionResponse, error) {
	unlock := uc.lock(matchID)
	defer unlock()

	m, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := m.Dismiss(userID); err != nil {
		return nil, err
	}
	if err := uc.matchRepo.UpdateStatus(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}

	return uc.actionResponse(ctx, m, userID, false)
}

func (uc *MatchUseCase) actionResponse(ctx context.Context, m *domain.Match, userID string, connected bool) (*ActionResponse, error) {
	other, _ := m.GetOtherUserID(userID)
	profiles, err := uc.profileRepo.GetByIDs(ctx, []string{other})
	if err != nil {
		// the status change is already stored
		uc.logger.Warn("failed to load profile for response", zap.String("user_id", other), zap.Error(err))
		profiles = nil
	}
	return &ActionResponse{
		Match:     toResponse(m, summarize(other, profiles[other])),
		Connected: connected,
	}, nil
}

func (uc *MatchUseCase) lock(matchID string) func() {
	uc.locksMu.Lock()
	l, ok := uc.locks[matchID]
	if !ok {
		l = &matchLock{}
		uc.locks[matchID] = l
	}
	l.refs++
	uc.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		uc.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(uc.locks, matchID)
		}
		uc.locksMu.Unlock()
	}
}

func summarize(id string, p *domain.UserProfile) *UserSummary {
	if p == nil {
		return &UserSummary{ID: id}
	}
	return &UserSummary{
		ID:            p.ID,
		Username:      p.Username,
		Status:        p.Status,
		DevExperience: p.DevExperience,
		TechArea:      p.TechArea,
		Country:       p.Country,
		City:          p.City,
	}
}

func toResponse(m *domain.Match, other *UserSummary) MatchResponse {
	badges := m.Badges
	if badges == nil {
		badges = []domain.Badge{}
	}
	return MatchResponse{
		MatchID:            m.ID,
		OtherUser:          other,
		CompatibilityScore: m.CompatibilityScore,
		Scores:             m.Scores,
		Badges:             badges,
		MatchType:          m.MatchType,
		Quality:            m.Quality,
		Status:             m.Status,
		LastCalculated:     m.LastCalculated,
	}
}
