package compatibility

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func langs(pairs ...any) []domain.LanguageSkill {
	out := make([]domain.LanguageSkill, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.LanguageSkill{Name: pairs[i].(string), Skill: pairs[i+1].(int)})
	}
	return out
}

func TestLanguageScoreAveragesSharedLanguages(t *testing.T) {
	a := Extract(&domain.UserProfile{ID: "a", ProgrammingLanguages: langs("JavaScript", 8, "Python", 7)})
	b := Extract(&domain.UserProfile{ID: "b", ProgrammingLanguages: langs("javascript", 8, "Python", 9)})

	assert.InDelta(t, 90.0, languageScore(a.LanguageSkills, b.LanguageSkills), 1e-9)
	assert.InDelta(t, 45.0, TechnicalScore(a, b), 1e-9)
}

func TestLanguageScoreFloorsAtZero(t *testing.T) {
	a := Extract(&domain.UserProfile{ID: "a", ProgrammingLanguages: langs("Go", 1, "Rust", 0)})
	b := Extract(&domain.UserProfile{ID: "b", ProgrammingLanguages: langs("Go", 10, "Rust", 5)})

	// Rust is ignored on the side with skill 0; Go differs by 9.
	assert.InDelta(t, 10.0, languageScore(a.LanguageSkills, b.LanguageSkills), 1e-9)
}

func TestTechnicalScoreDoesNotRenormalize(t *testing.T) {
	a := Extract(&domain.UserProfile{ID: "a", TechArea: []string{"Backend", "DevOps"}})
	b := Extract(&domain.UserProfile{ID: "b", TechArea: []string{"backend"}, TechStack: []string{"Docker"}})

	// Only tech area applies: jaccard 1/2 scaled by its 0.3 weight.
	assert.InDelta(t, 15.0, TechnicalScore(a, b), 1e-9)

	empty := Extract(&domain.UserProfile{ID: "c"})
	assert.Zero(t, TechnicalScore(a, empty))
}

func TestStatusScoreTable(t *testing.T) {
	tests := []struct {
		a, b domain.UserStatus
		want float64
	}{
		{domain.StatusSearchHelp, domain.StatusOfferHelp, 100},
		{domain.StatusOfferHelp, domain.StatusSearchHelp, 100},
		{domain.StatusLearnPartner, domain.StatusLearnPartner, 100},
		{domain.StatusNetworking, domain.StatusSearchHelp, 70},
		{domain.StatusNetworking, domain.StatusNetworking, 70},
		{domain.StatusSearchHelp, domain.StatusSearchHelp, 80},
		{domain.StatusOfferHelp, domain.StatusOfferHelp, 80},
		{domain.StatusSearchHelp, domain.StatusLearnPartner, 40},
		{"", "", 80},
		{"mentoring", "mentoring", 80},
		{"mentoring", "", 40},
		{"wizard", domain.StatusNetworking, 70},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, statusScore(tt.a, tt.b))
			assert.Equal(t, tt.want, statusScore(tt.b, tt.a))
		})
	}
}

func TestExperienceScore(t *testing.T) {
	assert.Equal(t, 100.0, experienceScore(2, 2))
	assert.Equal(t, 70.0, experienceScore(1, 2))
	assert.Equal(t, 30.0, experienceScore(3, 1))
}

func TestGoalAlignmentScore(t *testing.T) {
	a := Extract(&domain.UserProfile{ID: "a", Status: domain.StatusSearchHelp, DevExperience: domain.ExperienceBeginner})
	b := Extract(&domain.UserProfile{ID: "b", Status: domain.StatusOfferHelp, DevExperience: domain.ExperienceExpert})

	assert.InDelta(t, 79.0, GoalAlignmentScore(a, b), 1e-9)
}

func TestInterestScore(t *testing.T) {
	t.Run("both empty is excluded", func(t *testing.T) {
		a := Extract(&domain.UserProfile{ID: "a"})
		b := Extract(&domain.UserProfile{ID: "b", Gaming: str("none")})
		assert.Nil(t, interestScore(a, b))
	})

	t.Run("one side empty scores fixed value", func(t *testing.T) {
		a := Extract(&domain.UserProfile{ID: "a", OtherInterests: []string{"chess"}})
		b := Extract(&domain.UserProfile{ID: "b"})
		require.NotNil(t, interestScore(a, b))
		assert.Equal(t, 20.0, *interestScore(a, b))
	})

	t.Run("shared interest gets bonus", func(t *testing.T) {
		a := Extract(&domain.UserProfile{ID: "a", OtherInterests: []string{"Chess", "hiking"}})
		b := Extract(&domain.UserProfile{ID: "b", OtherInterests: []string{" chess "}})
		require.NotNil(t, interestScore(a, b))
		assert.InDelta(t, 70.0, *interestScore(a, b), 1e-9)
	})

	t.Run("bonus is capped", func(t *testing.T) {
		a := Extract(&domain.UserProfile{ID: "a", FavoriteShowMovie: str("The Matrix")})
		b := Extract(&domain.UserProfile{ID: "b", FavoriteShowMovie: str("the  matrix")})
		assert.InDelta(t, 100.0, *interestScore(a, b), 1e-9)
	})

	t.Run("lifestyle blends in", func(t *testing.T) {
		a := Extract(&domain.UserProfile{ID: "a", OtherInterests: []string{"chess"}, MusicGenre: str("Rock"), FavoriteDrink: str("coffee")})
		b := Extract(&domain.UserProfile{ID: "b", OtherInterests: []string{"go"}, MusicGenre: str("rock"), FavoriteDrink: str("tea")})
		// jaccard 0, lifestyle (100 + 70) / 2 = 85
		assert.InDelta(t, 34.0, *interestScore(a, b), 1e-9)
	})

	t.Run("gaming is a tagged interest", func(t *testing.T) {
		a := Extract(&domain.UserProfile{ID: "a", Gaming: str("PC")})
		assert.True(t, a.Interests.Contains("gaming:pc"))
	})
}

func TestLifestyleOneMissing(t *testing.T) {
	a := Extract(&domain.UserProfile{ID: "a", MusicGenre: str("jazz")})
	b := Extract(&domain.UserProfile{ID: "b", FavoriteDrink: str("water")})

	// music one missing 40, drink one missing 50
	require.NotNil(t, lifestyleScore(a, b))
	assert.InDelta(t, 45.0, *lifestyleScore(a, b), 1e-9)
}

func TestCodingTimeScore(t *testing.T) {
	owl := Extract(&domain.UserProfile{ID: "a", FavoriteTimeToCode: str("Night Owl")})
	evening := Extract(&domain.UserProfile{ID: "b", FavoriteTimeToCode: str("evening")})
	bird := Extract(&domain.UserProfile{ID: "c", FavoriteTimeToCode: str("earlybird")})
	none := Extract(&domain.UserProfile{ID: "d"})

	assert.Equal(t, 80.0, *codingTimeScore(owl, evening))
	assert.Equal(t, 30.0, *codingTimeScore(owl, bird))
	assert.Nil(t, codingTimeScore(owl, none))
	assert.Equal(t, 3, TimeBucket("whenever I feel like it"))
	assert.Equal(t, 5, TimeBucket("night-owl"))
}

func TestSpokenLanguageScore(t *testing.T) {
	a := Extract(&domain.UserProfile{ID: "a", Languages: []string{"en", "de"}})
	b := Extract(&domain.UserProfile{ID: "b", Languages: []string{"EN", "de", "fr"}})
	c := Extract(&domain.UserProfile{ID: "c", Languages: []string{"fi"}})
	d := Extract(&domain.UserProfile{ID: "d"})

	assert.Equal(t, 90.0, *spokenLanguageScore(a, b))
	assert.Equal(t, 0.0, *spokenLanguageScore(a, c))
	assert.Nil(t, spokenLanguageScore(a, d))
}

func TestPersonalScoreRenormalizes(t *testing.T) {
	a := Extract(&domain.UserProfile{ID: "a", Country: str("Estonia"), Languages: []string{"en", "et"}})
	b := Extract(&domain.UserProfile{ID: "b", Country: str("estonia"), Languages: []string{"et", "en"}})

	// location 100 and spoken 90, both weighted 0.15
	got := PersonalScore(a, b)
	require.NotNil(t, got)
	assert.InDelta(t, 95.0, *got, 1e-9)
}

func TestPersonalNullUsesTechnicalGoalSplit(t *testing.T) {
	a := &domain.UserProfile{ID: "a", ProgrammingLanguages: langs("Go", 5), Status: domain.StatusLearnPartner}
	b := &domain.UserProfile{ID: "b", ProgrammingLanguages: langs("go", 5), Status: domain.StatusLearnPartner}

	r := Compute(a, b)

	assert.Nil(t, r.Personal)
	assert.Nil(t, r.Scores().Personal)
	// 50 * 0.75 + 100 * 0.25
	assert.Equal(t, 63, r.Overall)
	assert.Equal(t, domain.QualityFair, r.Quality)
	assert.Equal(t, domain.MatchTypeLearnPartner, r.MatchType)
	assert.True(t, r.Eligible())
}

func TestMatchType(t *testing.T) {
	tests := []struct {
		name   string
		a, b   *domain.UserProfile
		expect domain.MatchType
	}{
		{
			name:   "mentor mentee",
			a:      &domain.UserProfile{ID: "a", Status: domain.StatusSearchHelp, DevExperience: domain.ExperienceBeginner},
			b:      &domain.UserProfile{ID: "b", Status: domain.StatusOfferHelp, DevExperience: domain.ExperienceExpert},
			expect: domain.MatchTypeMentorMentee,
		},
		{
			name:   "reciprocal help at same level is networking",
			a:      &domain.UserProfile{ID: "a", Status: domain.StatusSearchHelp, DevExperience: domain.ExperienceExpert},
			b:      &domain.UserProfile{ID: "b", Status: domain.StatusOfferHelp, DevExperience: domain.ExperienceExpert},
			expect: domain.MatchTypeNetworking,
		},
		{
			name:   "learn partners",
			a:      &domain.UserProfile{ID: "a", Status: domain.StatusLearnPartner},
			b:      &domain.UserProfile{ID: "b", Status: domain.StatusLearnPartner},
			expect: domain.MatchTypeLearnPartner,
		},
		{
			name:   "default",
			a:      &domain.UserProfile{ID: "a", Status: domain.StatusNetworking},
			b:      &domain.UserProfile{ID: "b", Status: domain.StatusLearnPartner},
			expect: domain.MatchTypeNetworking,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Compute(tt.a, tt.b).MatchType)
			assert.Equal(t, tt.expect, Compute(tt.b, tt.a).MatchType)
		})
	}
}

func TestQualityBoundaries(t *testing.T) {
	tests := map[int]domain.Quality{
		0:   domain.QualityPoor,
		44:  domain.QualityPoor,
		45:  domain.QualityFair,
		64:  domain.QualityFair,
		65:  domain.QualityGood,
		79:  domain.QualityGood,
		80:  domain.QualityExcellent,
		100: domain.QualityExcellent,
	}
	for score, want := range tests {
		assert.Equal(t, want, QualityFor(score), "score %d", score)
	}
}

func twin(id string) *domain.UserProfile {
	return &domain.UserProfile{
		ID:                   id,
		ProgrammingLanguages: langs("Go", 9, "Rust", 10),
		TechArea:             []string{"backend"},
		TechStack:            []string{"postgres", "kubernetes"},
		Languages:            []string{"en"},
		OtherInterests:       []string{"chess"},
		Status:               domain.StatusLearnPartner,
		DevExperience:        domain.ExperienceExpert,
		Country:              str("Finland"),
		City:                 str("Helsinki"),
		FavoriteTimeToCode:   str("nightowl"),
		FavoriteDrink:        str("Double Espresso"),
		MusicGenre:           str("metal"),
		Gaming:               str("pc"),
		PreferredOS:          str("Linux"),
	}
}

func TestGoldenConnection(t *testing.T) {
	r := Compute(twin("a"), twin("b"))

	require.NotNil(t, r.Personal)
	// interests 100, time 100, location 100, spoken 75
	assert.InDelta(t, 96.25, *r.Personal, 1e-9)
	assert.Equal(t, 100, r.Overall)
	assert.Equal(t, []domain.Badge{
		domain.BadgeCaffeineAddicts,
		domain.BadgeGoldenConnection,
		domain.BadgeLinuxUltras,
		domain.BadgeLocalLegends,
		domain.BadgeMetalCoders,
		domain.BadgeNightOwls,
		domain.BadgePCMasterRace,
		domain.BadgeSyntaxMasters,
	}, r.Badges)
}

func TestBadges(t *testing.T) {
	a := &domain.UserProfile{
		ID:                   "a",
		ProgrammingLanguages: langs("Python", 2, "HTML", 3),
		FavoriteTimeToCode:   str("earlybird"),
		FavoriteDrink:        str("sparkling water"),
		Gaming:               str("Mobile"),
		Country:              str("Spain"),
		City:                 str("Madrid"),
	}
	b := &domain.UserProfile{
		ID:                   "b",
		ProgrammingLanguages: langs("Python", 1),
		FavoriteTimeToCode:   str("EarlyBird"),
		FavoriteDrink:        str("H2O"),
		Gaming:               str("mobile"),
		Country:              str("Spain"),
		City:                 str("Barcelona"),
	}

	got := Badges(Extract(a), Extract(b))

	assert.Equal(t, []domain.Badge{
		domain.BadgeEarlyBirds,
		domain.BadgeHydroHomies,
		domain.BadgeMobileGamers,
		domain.BadgeNoobConnection,
	}, got)
	assert.Equal(t, got, Badges(Extract(b), Extract(a)))
}

func TestBadgesNeedBothSides(t *testing.T) {
	a := Extract(&domain.UserProfile{ID: "a", PreferredOS: str("linux"), ProgrammingLanguages: langs("C", 9)})
	b := Extract(&domain.UserProfile{ID: "b", PreferredOS: str("macOS")})

	assert.Empty(t, Badges(a, b))
}

func randomProfile(rng *rand.Rand, id string) *domain.UserProfile {
	pick := func(opts ...string) *string {
		v := opts[rng.Intn(len(opts))]
		if v == "" {
			return nil
		}
		return &v
	}
	subset := func(opts ...string) []string {
		var out []string
		for _, o := range opts {
			if rng.Intn(2) == 0 {
				out = append(out, o)
			}
		}
		return out
	}

	p := &domain.UserProfile{
		ID:                 id,
		TechStack:          subset("react", "postgres", "docker", "kafka"),
		TechArea:           subset("frontend", "backend", "ml"),
		Languages:          subset("en", "de", "es"),
		OtherInterests:     subset("chess", "climbing", "anime", "cooking"),
		Status:             domain.UserStatus(*pick("searchhelp", "offerhelp", "networking", "learnpartner", "unknown")),
		DevExperience:      domain.DevExperience(*pick("beginner", "intermediate", "expert", "guru")),
		Country:            pick("", "Germany", "Spain"),
		City:               pick("", "Berlin", "Madrid"),
		FavoriteTimeToCode: pick("", "nightowl", "earlybird", "afternoon", "sometimes"),
		FavoriteDrink:      pick("", "coffee", "water", "tea"),
		MusicGenre:         pick("", "rock", "jazz"),
		FavoriteShowMovie:  pick("", "Dark", "Severance"),
		Gaming:             pick("", "pc", "mobile", "none"),
		PreferredOS:        pick("", "Linux", "Windows"),
	}
	for _, name := range subset("Go", "Python", "TypeScript") {
		p.ProgrammingLanguages = append(p.ProgrammingLanguages, domain.LanguageSkill{Name: name, Skill: rng.Intn(11)})
	}
	return p
}

func TestComputeIsBoundedAndSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	profiles := make([]*domain.UserProfile, 40)
	for i := range profiles {
		profiles[i] = randomProfile(rng, fmt.Sprintf("u%02d", i))
	}

	for i := range profiles {
		for j := i + 1; j < len(profiles); j++ {
			ab := Compute(profiles[i], profiles[j])
			ba := Compute(profiles[j], profiles[i])

			require.GreaterOrEqual(t, ab.Overall, 0)
			require.LessOrEqual(t, ab.Overall, 100)
			assert.Equal(t, QualityFor(ab.Overall), ab.Quality)

			assert.Equal(t, ab.Overall, ba.Overall)
			assert.InDelta(t, ab.Technical, ba.Technical, 1e-9)
			assert.InDelta(t, ab.GoalAlignment, ba.GoalAlignment, 1e-9)
			if ab.Personal == nil {
				assert.Nil(t, ba.Personal)
			} else {
				require.NotNil(t, ba.Personal)
				assert.InDelta(t, *ab.Personal, *ba.Personal, 1e-9)
			}
			assert.Equal(t, ab.Badges, ba.Badges)
			assert.Equal(t, ab.MatchType, ba.MatchType)
		}
	}
}

func TestJaccard(t *testing.T) {
	assert.Zero(t, Jaccard(NewSet(nil), NewSet(nil)))
	assert.InDelta(t, 1.0/3.0, Jaccard(NewSet([]string{"a", "b"}), NewSet([]string{"B", "c"})), 1e-9)
	assert.Equal(t, 1.0, Jaccard(NewSet([]string{"Go"}), NewSet([]string{"go "})))
}
