package compatibility

import "github.com/gdugdh24/devmatch-backend/internal/domain"

const (
	statusWeight     = 0.7
	experienceWeight = 0.3
)

func GoalAlignmentScore(a, b *Features) float64 {
	return statusScore(a.Status, b.Status)*statusWeight +
		experienceScore(a.Experience, b.Experience)*experienceWeight
}

// statusScore looks the pair up regardless of order. Any two equal statuses
// that no other row covers score 80, unrecognized ones included.
func statusScore(a, b domain.UserStatus) float64 {
	switch {
	case isReciprocalHelp(a, b):
		return 100
	case a == domain.StatusLearnPartner && b == domain.StatusLearnPartner:
		return 100
	case a == domain.StatusNetworking || b == domain.StatusNetworking:
		return 70
	case a == b:
		return 80
	default:
		return 40
	}
}

func experienceScore(a, b int) float64 {
	switch abs(a - b) {
	case 0:
		return 100
	case 1:
		return 70
	default:
		return 30
	}
}

func isReciprocalHelp(a, b domain.UserStatus) bool {
	return (a == domain.StatusSearchHelp && b == domain.StatusOfferHelp) ||
		(a == domain.StatusOfferHelp && b == domain.StatusSearchHelp)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
