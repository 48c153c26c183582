package compatibility

import (
	"strconv"
	"strings"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
)

// Set is a set of normalized strings.
type Set map[string]struct{}

func NewSet(values []string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

func (s Set) Add(v string) {
	if n := normalize(v); n != "" {
		s[n] = struct{}{}
	}
}

func (s Set) Contains(v string) bool {
	_, ok := s[normalize(v)]
	return ok
}

// Intersect returns the number of elements present in both sets.
func (s Set) Intersect(other Set) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for k := range small {
		if _, ok := large[k]; ok {
			n++
		}
	}
	return n
}

// Jaccard returns |a ∩ b| / |a ∪ b| in [0,1]. Two empty sets score 0.
func Jaccard(a, b Set) float64 {
	common := a.Intersect(b)
	union := len(a) + len(b) - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

// Features are the comparable values derived from one profile. They are
// extracted once per user so a batch run does not redo it per pair.
type Features struct {
	Profile *domain.UserProfile

	LanguageSkills map[string]int
	TechArea       Set
	TechStack      Set
	Spoken         Set
	Interests      Set

	Experience int
	Status     domain.UserStatus

	// TimeBucket is 0 when the profile has no coding time.
	TimeBucket int
	TimeKey    string

	Music   string
	Drink   string
	Gaming  string
	OS      string
	Country string
	City    string
}

// Extract derives Features from p. Missing optional fields become zero
// values; nothing here fails.
func Extract(p *domain.UserProfile) *Features {
	f := &Features{
		Profile:        p,
		LanguageSkills: make(map[string]int, len(p.ProgrammingLanguages)),
		TechArea:       NewSet(p.TechArea),
		TechStack:      NewSet(p.TechStack),
		Spoken:         NewSet(p.Languages),
		Interests:      NewSet(p.OtherInterests),
		Experience:     p.DevExperience.Level(),
		Status:         domain.UserStatus(normalize(string(p.Status))),
		Music:          normalize(domain.Value(p.MusicGenre)),
		Drink:          normalize(domain.Value(p.FavoriteDrink)),
		Gaming:         normalize(domain.Value(p.Gaming)),
		OS:             normalize(domain.Value(p.PreferredOS)),
		Country:        normalize(domain.Value(p.Country)),
		City:           normalize(domain.Value(p.City)),
	}

	for _, l := range p.ProgrammingLanguages {
		name := normalize(l.Name)
		if name == "" || l.Skill <= 0 {
			continue
		}
		if _, seen := f.LanguageSkills[name]; !seen {
			f.LanguageSkills[name] = l.Skill
		}
	}

	if p.FavoriteShowMovie != nil {
		f.Interests.Add(*p.FavoriteShowMovie)
	}
	if f.Gaming != "" && f.Gaming != "none" {
		f.Interests.Add("gaming:" + f.Gaming)
	}

	if p.HasCodingTime() {
		f.TimeKey = compact(*p.FavoriteTimeToCode)
		f.TimeBucket = TimeBucket(*p.FavoriteTimeToCode)
	}

	return f
}

var timeBuckets = map[string]int{
	"earlybird":    1,
	"earlymorning": 1,
	"dawn":         1,
	"sunrise":      1,
	"morning":      2,
	"forenoon":     2,
	"day":          2,
	"daytime":      2,
	"noon":         2,
	"midday":       2,
	"afternoon":    3,
	"evening":      4,
	"night":        4,
	"nightowl":     5,
	"latenight":    5,
	"midnight":     5,
}

// TimeBucket maps a free-form time of day to 1 (early) .. 5 (late night).
// Unrecognized values land in the middle bucket.
func TimeBucket(raw string) int {
	key := compact(raw)
	if b, ok := timeBuckets[key]; ok {
		return b
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 5 {
		return n
	}
	return 3
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// compact lowercases and strips separators so "Night Owl" and "night-owl"
// compare equal to "nightowl".
func compact(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func containsAny(s string, needles ...string) bool {
	if s == "" {
		return false
	}
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
