package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gdugdh24/devmatch-backend/internal/repository"
	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const profileColumns = `id, username, programming_languages, tech_stack, tech_area,
	languages, other_interests, status, dev_experience, country, city,
	favorite_time_to_code, favorite_drink_while_coding, music_genre_while_coding,
	favorite_show_movie, gaming, preferred_os, contacts`

// languageList is the JSONB programming_languages column.
type languageList []domain.LanguageSkill

func (l languageList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *languageList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("scan programming_languages: unsupported type %T", value)
	}
}

type profileRow struct {
	ID                   string         `db:"id"`
	Username             string         `db:"username"`
	ProgrammingLanguages languageList   `db:"programming_languages"`
	TechStack            pq.StringArray `db:"tech_stack"`
	TechArea             pq.StringArray `db:"tech_area"`
	Languages            pq.StringArray `db:"languages"`
	OtherInterests       pq.StringArray `db:"other_interests"`
	Status               *string        `db:"status"`
	DevExperience        *string        `db:"dev_experience"`
	Country              *string        `db:"country"`
	City                 *string        `db:"city"`
	FavoriteTimeToCode   *string        `db:"favorite_time_to_code"`
	FavoriteDrink        *string        `db:"favorite_drink_while_coding"`
	MusicGenre           *string        `db:"music_genre_while_coding"`
	FavoriteShowMovie    *string        `db:"favorite_show_movie"`
	Gaming               *string        `db:"gaming"`
	PreferredOS          *string        `db:"preferred_os"`
	Contacts             pq.StringArray `db:"contacts"`
}

func (r *profileRow) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		ID:                   r.ID,
		Username:             r.Username,
		ProgrammingLanguages: []domain.LanguageSkill(r.ProgrammingLanguages),
		TechStack:            []string(r.TechStack),
		TechArea:             []string(r.TechArea),
		Languages:            []string(r.Languages),
		OtherInterests:       []string(r.OtherInterests),
		Status:               domain.UserStatus(domain.Value(r.Status)),
		DevExperience:        domain.DevExperience(domain.Value(r.DevExperience)),
		Country:              r.Country,
		City:                 r.City,
		FavoriteTimeToCode:   r.FavoriteTimeToCode,
		FavoriteDrink:        r.FavoriteDrink,
		MusicGenre:           r.MusicGenre,
		FavoriteShowMovie:    r.FavoriteShowMovie,
		Gaming:               r.Gaming,
		PreferredOS:          r.PreferredOS,
		Contacts:             []string(r.Contacts),
	}
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

// ListAll loads the full snapshot ordered by id, which gives the batch a
// stable pair enumeration.
func (r *profileRepository) ListAll(ctx context.Context) ([]*domain.UserProfile, error) {
	var rows []profileRow
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]*domain.UserProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].toDomain())
	}
	return profiles, nil
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.UserProfile, error) {
	out := make(map[string]*domain.UserProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []profileRow
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ANY($1)`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	for i := range rows {
		p := rows[i].toDomain()
		out[p.ID] = p
	}
	return out, nil
}
