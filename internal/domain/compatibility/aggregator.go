// Package compatibility scores how well two developer profiles fit together.
//
// Scoring is pure: the same two profiles always produce the same Result, in
// either argument order.
package compatibility

import (
	"math"
	"slices"
	"time"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
)

// MatchThreshold is the minimum overall score a pair needs to be kept in
// the match graph.
const MatchThreshold = 45

const goldenThreshold = 95

type Result struct {
	Technical     float64
	GoalAlignment float64
	Personal      *float64

	Overall   int
	Quality   domain.Quality
	MatchType domain.MatchType
	Badges    []domain.Badge
}

// Compute scores two raw profiles.
func Compute(a, b *domain.UserProfile) Result {
	return Evaluate(Extract(a), Extract(b))
}

// Evaluate scores two pre-extracted profiles.
func Evaluate(a, b *Features) Result {
	r := Result{
		Technical:     TechnicalScore(a, b),
		GoalAlignment: GoalAlignmentScore(a, b),
		Personal:      PersonalScore(a, b),
	}

	var overall float64
	if r.Personal == nil {
		overall = r.Technical*0.75 + r.GoalAlignment*0.25
	} else {
		overall = r.Technical*0.6 + r.GoalAlignment*0.3 + *r.Personal*0.1
	}
	r.Overall = clampScore(int(math.Round(overall)))
	r.Quality = QualityFor(r.Overall)
	r.MatchType = MatchTypeFor(a, b)

	r.Badges = Badges(a, b)
	if r.Overall >= goldenThreshold {
		r.Badges = append(r.Badges, domain.BadgeGoldenConnection)
		slices.Sort(r.Badges)
	}
	return r
}

// Eligible reports whether the pair should be kept in the match graph.
func (r Result) Eligible() bool {
	return r.Overall >= MatchThreshold
}

func (r Result) Scores() domain.Scores {
	s := domain.Scores{
		Technical:     clampScore(int(math.Round(r.Technical))),
		GoalAlignment: clampScore(int(math.Round(r.GoalAlignment))),
	}
	if r.Personal != nil {
		p := clampScore(int(math.Round(*r.Personal)))
		s.Personal = &p
	}
	return s
}

// ScoreUpdate converts the result into the fields a match refresh writes.
func (r Result) ScoreUpdate(key domain.PairKey, at time.Time) domain.ScoreUpdate {
	return domain.ScoreUpdate{
		Key:                key,
		CompatibilityScore: r.Overall,
		Scores:             r.Scores(),
		Badges:             r.Badges,
		MatchType:          r.MatchType,
		Quality:            r.Quality,
		CalculatedAt:       at,
	}
}

func QualityFor(score int) domain.Quality {
	switch {
	case score >= 80:
		return domain.QualityExcellent
	case score >= 65:
		return domain.QualityGood
	case score >= 45:
		return domain.QualityFair
	default:
		return domain.QualityPoor
	}
}

func MatchTypeFor(a, b *Features) domain.MatchType {
	switch {
	case isReciprocalHelp(a.Status, b.Status) && abs(a.Experience-b.Experience) >= 1:
		return domain.MatchTypeMentorMentee
	case a.Status == domain.StatusLearnPartner && b.Status == domain.StatusLearnPartner:
		return domain.MatchTypeLearnPartner
	default:
		return domain.MatchTypeNetworking
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
