package compatibility

import "math"

const (
	interestsWeight  = 0.4
	codingTimeWeight = 0.3
	locationWeight   = 0.15
	spokenWeight     = 0.15

	jaccardShare   = 0.6
	lifestyleShare = 0.4

	oneSidedInterests = 20
	sharedBonus       = 20
)

type weighted struct {
	value  float64
	weight float64
}

// PersonalScore combines the applicable personal sub-scores, renormalized
// by the weights of the ones that applied. It returns nil when none did.
func PersonalScore(a, b *Features) *float64 {
	var parts []weighted
	add := func(v *float64, w float64) {
		if v != nil {
			parts = append(parts, weighted{value: *v, weight: w})
		}
	}

	add(interestScore(a, b), interestsWeight)
	add(codingTimeScore(a, b), codingTimeWeight)
	add(locationScore(a, b), locationWeight)
	add(spokenLanguageScore(a, b), spokenWeight)

	if len(parts) == 0 {
		return nil
	}
	sum, weights := 0.0, 0.0
	for _, p := range parts {
		sum += p.value * p.weight
		weights += p.weight
	}
	score := sum / weights
	return &score
}

func interestScore(a, b *Features) *float64 {
	emptyA, emptyB := len(a.Interests) == 0, len(b.Interests) == 0
	switch {
	case emptyA && emptyB:
		return nil
	case emptyA || emptyB:
		return ptr(oneSidedInterests)
	}

	overlap := Jaccard(a.Interests, b.Interests) * 100
	if a.Interests.Intersect(b.Interests) > 0 {
		overlap = math.Min(100, overlap+sharedBonus)
	}

	lifestyle := lifestyleScore(a, b)
	if lifestyle == nil {
		return &overlap
	}
	return ptr(overlap*jaccardShare + *lifestyle*lifestyleShare)
}

// lifestyleScore averages the music and drink comparisons that apply.
func lifestyleScore(a, b *Features) *float64 {
	var vals []float64
	if v := compareLifestyle(a.Music, b.Music, 100, 60, 40); v != nil {
		vals = append(vals, *v)
	}
	if v := compareLifestyle(a.Drink, b.Drink, 100, 70, 50); v != nil {
		vals = append(vals, *v)
	}
	if len(vals) == 0 {
		return nil
	}
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return ptr(total / float64(len(vals)))
}

func compareLifestyle(a, b string, same, different, oneMissing float64) *float64 {
	switch {
	case a == "" && b == "":
		return nil
	case a == "" || b == "":
		return ptr(oneMissing)
	case a == b:
		return ptr(same)
	default:
		return ptr(different)
	}
}

func codingTimeScore(a, b *Features) *float64 {
	if a.TimeBucket == 0 || b.TimeBucket == 0 {
		return nil
	}
	switch abs(a.TimeBucket - b.TimeBucket) {
	case 0:
		return ptr(100)
	case 1:
		return ptr(80)
	case 2:
		return ptr(60)
	default:
		return ptr(30)
	}
}

// locationScore compares countries only. City does not feed the score.
func locationScore(a, b *Features) *float64 {
	if a.Country == "" || b.Country == "" {
		return nil
	}
	if a.Country == b.Country {
		return ptr(100)
	}
	return ptr(40)
}

func spokenLanguageScore(a, b *Features) *float64 {
	if len(a.Spoken) == 0 || len(b.Spoken) == 0 {
		return nil
	}
	common := a.Spoken.Intersect(b.Spoken)
	if common == 0 {
		return ptr(0)
	}
	return ptr(math.Min(100, 60+15*float64(common)))
}

func ptr(v float64) *float64 {
	return &v
}
