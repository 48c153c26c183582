package domain

import "strings"

type UserStatus string

const (
	StatusSearchHelp   UserStatus = "searchhelp"
	StatusOfferHelp    UserStatus = "offerhelp"
	StatusNetworking   UserStatus = "networking"
	StatusLearnPartner UserStatus = "learnpartner"
)

type DevExperience string

const (
	ExperienceBeginner     DevExperience = "beginner"
	ExperienceIntermediate DevExperience = "intermediate"
	ExperienceExpert       DevExperience = "expert"
)

// Level maps the experience to 1..3. Unknown values count as beginner.
func (e DevExperience) Level() int {
	switch DevExperience(strings.ToLower(strings.TrimSpace(string(e)))) {
	case ExperienceIntermediate:
		return 2
	case ExperienceExpert:
		return 3
	default:
		return 1
	}
}

// LanguageSkill is a programming language with a self-assessed skill of 1-10.
type LanguageSkill struct {
	Name  string `json:"name"`
	Skill int    `json:"skill"`
}

// UserProfile is the read-only snapshot the matcher scores.
type UserProfile struct {
	ID                   string          `json:"id"`
	Username             string          `json:"username"`
	ProgrammingLanguages []LanguageSkill `json:"programming_languages"`
	TechStack            []string        `json:"tech_stack"`
	TechArea             []string        `json:"tech_area"`
	Languages            []string        `json:"languages"`
	OtherInterests       []string        `json:"other_interests"`
	Status               UserStatus      `json:"status"`
	DevExperience        DevExperience   `json:"dev_experience"`
	Country              *string         `json:"country"`
	City                 *string         `json:"city"`
	FavoriteTimeToCode   *string         `json:"favorite_time_to_code"`
	FavoriteDrink        *string         `json:"favorite_drink_while_coding"`
	MusicGenre           *string         `json:"music_genre_while_coding"`
	FavoriteShowMovie    *string         `json:"favorite_show_movie"`
	Gaming               *string         `json:"gaming"`
	PreferredOS          *string         `json:"preferred_os"`
	Contacts             []string        `json:"contacts"`
}

// Present reports whether an optional string holds a non-blank value.
func Present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// Value returns the trimmed value of an optional string, or "".
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (p *UserProfile) HasProgrammingLanguages() bool { return len(p.ProgrammingLanguages) > 0 }
func (p *UserProfile) HasTechStack() bool            { return hasAny(p.TechStack) }
func (p *UserProfile) HasTechArea() bool             { return hasAny(p.TechArea) }
func (p *UserProfile) HasSpokenLanguages() bool      { return hasAny(p.Languages) }
func (p *UserProfile) HasCountry() bool              { return Present(p.Country) }
func (p *UserProfile) HasCity() bool                 { return Present(p.City) }
func (p *UserProfile) HasCodingTime() bool           { return Present(p.FavoriteTimeToCode) }
func (p *UserProfile) HasDrink() bool                { return Present(p.FavoriteDrink) }
func (p *UserProfile) HasMusicGenre() bool           { return Present(p.MusicGenre) }

// HasContact reports whether userID is already one of p's contacts.
func (p *UserProfile) HasContact(userID string) bool {
	for _, c := range p.Contacts {
		if c == userID {
			return true
		}
	}
	return false
}

// IsConnectedTo reports whether either side lists the other as a contact.
func (p *UserProfile) IsConnectedTo(other *UserProfile) bool {
	return p.HasContact(other.ID) || other.HasContact(p.ID)
}

func hasAny(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
