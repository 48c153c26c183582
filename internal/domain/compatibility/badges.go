package compatibility

import (
	"slices"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
)

type badgeRule struct {
	badge domain.Badge
	holds func(a, b *Features) bool
}

// both lifts a single-profile predicate to a pair predicate.
func both(pred func(f *Features) bool) func(a, b *Features) bool {
	return func(a, b *Features) bool {
		return pred(a) && pred(b)
	}
}

var (
	coffeeFamily = []string{"coffee", "espresso", "latte", "cappuccino"}
	waterFamily  = []string{"water", "h2o"}
	metalFamily  = []string{"metal", "rock", "hardcore"}
)

var badgeRules = []badgeRule{
	{domain.BadgeNoobConnection, both(allSkills(func(s int) bool { return s <= 3 }))},
	{domain.BadgeSyntaxMasters, both(allSkills(func(s int) bool { return s >= 9 }))},
	{domain.BadgeNightOwls, both(func(f *Features) bool { return f.TimeKey == "nightowl" })},
	{domain.BadgeEarlyBirds, both(func(f *Features) bool { return f.TimeKey == "earlybird" })},
	{domain.BadgeLocalLegends, sameCityAndCountry},
	{domain.BadgeCaffeineAddicts, both(func(f *Features) bool { return containsAny(f.Drink, coffeeFamily...) })},
	{domain.BadgeHydroHomies, both(func(f *Features) bool { return containsAny(f.Drink, waterFamily...) })},
	{domain.BadgeMetalCoders, both(func(f *Features) bool { return containsAny(f.Music, metalFamily...) })},
	{domain.BadgeLinuxUltras, both(func(f *Features) bool { return f.OS == "linux" })},
	{domain.BadgePCMasterRace, both(func(f *Features) bool { return f.Gaming == "pc" })},
	{domain.BadgeMobileGamers, both(func(f *Features) bool { return f.Gaming == "mobile" })},
}

// Badges evaluates every rule and returns the ones that hold, sorted.
func Badges(a, b *Features) []domain.Badge {
	badges := make([]domain.Badge, 0, 2)
	for _, r := range badgeRules {
		if r.holds(a, b) {
			badges = append(badges, r.badge)
		}
	}
	slices.Sort(badges)
	return badges
}

func allSkills(pred func(skill int) bool) func(f *Features) bool {
	return func(f *Features) bool {
		langs := f.Profile.ProgrammingLanguages
		if len(langs) == 0 {
			return false
		}
		for _, l := range langs {
			if !pred(l.Skill) {
				return false
			}
		}
		return true
	}
}

func sameCityAndCountry(a, b *Features) bool {
	return a.City != "" && a.Country != "" &&
		a.City == b.City && a.Country == b.Country
}
