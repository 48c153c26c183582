package compatibility

import "math"

const (
	languageWeight  = 0.5
	techAreaWeight  = 0.3
	techStackWeight = 0.2
)

// TechnicalScore is the weighted sum of the language, tech area and tech
// stack similarities. A dimension only contributes when both profiles have
// data for it, and the weights are intentionally not renormalized, so a
// pair sharing only one dimension tops out below 100.
func TechnicalScore(a, b *Features) float64 {
	score := 0.0
	if a.Profile.HasProgrammingLanguages() && b.Profile.HasProgrammingLanguages() {
		score += languageScore(a.LanguageSkills, b.LanguageSkills) * languageWeight
	}
	if a.Profile.HasTechArea() && b.Profile.HasTechArea() {
		score += Jaccard(a.TechArea, b.TechArea) * 100 * techAreaWeight
	}
	if a.Profile.HasTechStack() && b.Profile.HasTechStack() {
		score += Jaccard(a.TechStack, b.TechStack) * 100 * techStackWeight
	}
	return score
}

// languageScore averages max(0, 100 - 10*|skillA-skillB|) over the
// languages both sides list.
func languageScore(a, b map[string]int) float64 {
	total := 0.0
	compared := 0
	for name, skillA := range a {
		skillB, ok := b[name]
		if !ok {
			continue
		}
		diff := math.Abs(float64(skillA - skillB))
		total += math.Max(0, 100-10*diff)
		compared++
	}
	if compared == 0 {
		return 0
	}
	return total / float64(compared)
}
