package domain

import (
	"slices"
	"time"
)

type MatchType string

const (
	MatchTypeMentorMentee MatchType = "mentor-mentee"
	MatchTypeLearnPartner MatchType = "learnpartner"
	MatchTypeNetworking   MatchType = "networking"
)

type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusContacted MatchStatus = "contacted"
	MatchStatusConnected MatchStatus = "connected"
	MatchStatusDismissed MatchStatus = "dismissed"
)

type Badge string

const (
	BadgeNoobConnection   Badge = "noob-connection"
	BadgeSyntaxMasters    Badge = "syntax-masters"
	BadgeNightOwls        Badge = "night-owls"
	BadgeEarlyBirds       Badge = "early-birds"
	BadgeLocalLegends     Badge = "local-legends"
	BadgeCaffeineAddicts  Badge = "caffeine-addicts"
	BadgeHydroHomies      Badge = "hydro-homies"
	BadgeMetalCoders      Badge = "metal-coders"
	BadgeLinuxUltras      Badge = "linux-ultras"
	BadgePCMasterRace     Badge = "pc-master-race"
	BadgeMobileGamers     Badge = "mobile-gamers"
	BadgeGoldenConnection Badge = "golden-connection"
)

// PairKey identifies an unordered user pair. A is always the smaller id in
// byte order, which is how the matches table collates user ids.
type PairKey struct {
	A string
	B string
}

// NewPairKey canonicalizes the two ids.
func NewPairKey(id1, id2 string) PairKey {
	if id2 < id1 {
		id1, id2 = id2, id1
	}
	return PairKey{A: id1, B: id2}
}

func (k PairKey) String() string {
	return k.A + ":" + k.B
}

// Scores holds the rounded per-dimension scores. Personal is nil when no
// personal data applied to the pair.
type Scores struct {
	Technical     int  `json:"technical"`
	GoalAlignment int  `json:"goal_alignment"`
	Personal      *int `json:"personal"`
}

// Match is a persisted edge of the match graph.
type Match struct {
	ID                 string      `json:"id" db:"id"`
	UserA              string      `json:"user_a" db:"user_a_id"`
	UserB              string      `json:"user_b" db:"user_b_id"`
	CompatibilityScore int         `json:"compatibility_score" db:"compatibility_score"`
	Scores             Scores      `json:"scores"`
	Badges             []Badge     `json:"badges"`
	MatchType          MatchType   `json:"match_type" db:"match_type"`
	Quality            Quality     `json:"quality" db:"quality"`
	Status             MatchStatus `json:"status" db:"status"`
	ContactedBy        []string    `json:"contacted_by"`
	LastCalculated     time.Time   `json:"last_calculated" db:"last_calculated"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
}

// ScoreUpdate is the part of a match the batch runner owns. Applying it
// never touches status or contactedBy.
type ScoreUpdate struct {
	Key                PairKey
	CompatibilityScore int
	Scores             Scores
	Badges             []Badge
	MatchType          MatchType
	Quality            Quality
	CalculatedAt       time.Time
}

func (m *Match) Key() PairKey {
	return NewPairKey(m.UserA, m.UserB)
}

func (m *Match) HasUser(userID string) bool {
	return m.UserA == userID || m.UserB == userID
}

func (m *Match) GetOtherUserID(userID string) (string, bool) {
	if m.UserA == userID {
		return m.UserB, true
	}
	if m.UserB == userID {
		return m.UserA, true
	}
	return "", false
}

// ApplyScores overwrites the computed fields and bumps LastCalculated.
func (m *Match) ApplyScores(u ScoreUpdate) {
	m.CompatibilityScore = u.CompatibilityScore
	m.Scores = u.Scores
	m.Badges = slices.Clone(u.Badges)
	m.MatchType = u.MatchType
	m.Quality = u.Quality
	m.LastCalculated = u.CalculatedAt
}

// Contact records that userID reached out. It returns true when this call
// moved the match into the connected state.
func (m *Match) Contact(userID string) (bool, error) {
	if !m.HasUser(userID) {
		return false, ErrNotMatchMember
	}
	switch m.Status {
	case MatchStatusConnected, MatchStatusDismissed:
		return false, ErrInvalidTransition
	}
	if slices.Contains(m.ContactedBy, userID) {
		return false, nil
	}
	m.ContactedBy = append(m.ContactedBy, userID)
	if len(m.ContactedBy) >= 2 {
		m.Status = MatchStatusConnected
		return true, nil
	}
	m.Status = MatchStatusContacted
	return false, nil
}

func (m *Match) Dismiss(userID string) error {
	if !m.HasUser(userID) {
		return ErrNotMatchMember
	}
	switch m.Status {
	case MatchStatusPending, MatchStatusContacted:
		m.Status = MatchStatusDismissed
		return nil
	case MatchStatusDismissed:
		return nil
	default:
		return ErrInvalidTransition
	}
}
