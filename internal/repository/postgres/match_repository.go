package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gdugdh24/devmatch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const matchColumns = `id, user_a_id, user_b_id, compatibility_score,
	technical_score, goal_alignment_score, personal_score,
	badges, match_type, quality, status, contacted_by,
	last_calculated, created_at`

type matchRow struct {
	ID                 string         `db:"id"`
	UserA              string         `db:"user_a_id"`
	UserB              string         `db:"user_b_id"`
	CompatibilityScore int            `db:"compatibility_score"`
	TechnicalScore     int            `db:"technical_score"`
	GoalAlignmentScore int            `db:"goal_alignment_score"`
	PersonalScore      sql.NullInt64  `db:"personal_score"`
	Badges             pq.StringArray `db:"badges"`
	MatchType          string         `db:"match_type"`
	Quality            string         `db:"quality"`
	Status             string         `db:"status"`
	ContactedBy        pq.StringArray `db:"contacted_by"`
	LastCalculated     time.Time      `db:"last_calculated"`
	CreatedAt          time.Time      `db:"created_at"`
}

func (r *matchRow) toDomain() *domain.Match {
	m := &domain.Match{
		ID:                 r.ID,
		UserA:              r.UserA,
		UserB:              r.UserB,
		CompatibilityScore: r.CompatibilityScore,
		Scores: domain.Scores{
			Technical:     r.TechnicalScore,
			GoalAlignment: r.GoalAlignmentScore,
		},
		Badges:         make([]domain.Badge, 0, len(r.Badges)),
		MatchType:      domain.MatchType(r.MatchType),
		Quality:        domain.Quality(r.Quality),
		Status:         domain.MatchStatus(r.Status),
		ContactedBy:    []string(r.ContactedBy),
		LastCalculated: r.LastCalculated,
		CreatedAt:      r.CreatedAt,
	}
	if r.PersonalScore.Valid {
		p := int(r.PersonalScore.Int64)
		m.Scores.Personal = &p
	}
	for _, b := range r.Badges {
		m.Badges = append(m.Badges, domain.Badge(b))
	}
	return m
}

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	key := match.Key()
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.Status == "" {
		match.Status = domain.MatchStatusPending
	}

	query := `
		INSERT INTO matches (
			id, user_a_id, user_b_id, compatibility_score,
			technical_score, goal_alignment_score, personal_score,
			badges, match_type, quality, status, contacted_by, last_calculated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		match.ID, key.A, key.B, match.CompatibilityScore,
		match.Scores.Technical, match.Scores.GoalAlignment, match.Scores.Personal,
		pq.Array(badgeStrings(match.Badges)), string(match.MatchType), string(match.Quality),
		string(match.Status), pq.Array(nonNil(match.ContactedBy)), match.LastCalculated,
	).Scan(&match.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", key, err)
	}

	match.UserA, match.UserB = key.A, key.B
	return nil
}

func (r *matchRepository) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	var row matchRow
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *matchRepository) FindByPair(ctx context.Context, user1ID, user2ID string) (*domain.Match, error) {
	key := domain.NewPairKey(user1ID, user2ID)

	var row matchRow
	query := `SELECT ` + matchColumns + ` FROM matches WHERE user_a_id = $1 AND user_b_id = $2`
	if err := r.db.GetContext(ctx, &row, query, key.A, key.B); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *matchRepository) UpdateScores(ctx context.Context, id string, u domain.ScoreUpdate) error {
	query := `
		UPDATE matches
		SET compatibility_score = $1, technical_score = $2, goal_alignment_score = $3,
		    personal_score = $4, badges = $5, match_type = $6, quality = $7,
		    last_calculated = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		u.CompatibilityScore, u.Scores.Technical, u.Scores.GoalAlignment, u.Scores.Personal,
		pq.Array(badgeStrings(u.Badges)), string(u.MatchType), string(u.Quality),
		u.CalculatedAt, id,
	)
	if err != nil {
		return err
	}
	return expectOneRow(result, domain.ErrMatchNotFound)
}

func (r *matchRepository) Upsert(ctx context.Context, u domain.ScoreUpdate) (*domain.Match, bool, error) {
	key := domain.NewPairKey(u.Key.A, u.Key.B)

	// xmax is 0 only for rows inserted by this statement.
	query := `
		INSERT INTO matches (
			id, user_a_id, user_b_id, compatibility_score,
			technical_score, goal_alignment_score, personal_score,
			badges, match_type, quality, status, contacted_by, last_calculated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'pending', '{}', $11)
		ON CONFLICT (user_a_id, user_b_id) DO UPDATE
		SET compatibility_score = EXCLUDED.compatibility_score,
		    technical_score = EXCLUDED.technical_score,
		    goal_alignment_score = EXCLUDED.goal_alignment_score,
		    personal_score = EXCLUDED.personal_score,
		    badges = EXCLUDED.badges,
		    match_type = EXCLUDED.match_type,
		    quality = EXCLUDED.quality,
		    last_calculated = EXCLUDED.last_calculated
		RETURNING ` + matchColumns + `, (xmax = 0) AS inserted
	`
	var row struct {
		matchRow
		Inserted bool `db:"inserted"`
	}
	err := r.db.QueryRowxContext(ctx, query,
		uuid.NewString(), key.A, key.B, u.CompatibilityScore,
		u.Scores.Technical, u.Scores.GoalAlignment, u.Scores.Personal,
		pq.Array(badgeStrings(u.Badges)), string(u.MatchType), string(u.Quality),
		u.CalculatedAt,
	).StructScan(&row)
	if err != nil {
		return nil, false, fmt.Errorf("upsert match %s: %w", key, err)
	}
	return row.toDomain(), row.Inserted, nil
}

func (r *matchRepository) UpdateStatus(ctx context.Context, match *domain.Match) error {
	query := `UPDATE matches SET status = $1, contacted_by = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, string(match.Status), pq.Array(nonNil(match.ContactedBy)), match.ID)
	if err != nil {
		return err
	}
	return expectOneRow(result, domain.ErrMatchNotFound)
}

func (r *matchRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Match, error) {
	var rows []matchRow
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE user_a_id = $1 OR user_b_id = $1
		ORDER BY compatibility_score DESC, created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, err
	}

	matches := make([]*domain.Match, 0, len(rows))
	for i := range rows {
		matches = append(matches, rows[i].toDomain())
	}
	return matches, nil
}

func (r *matchRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM matches WHERE user_a_id = $1 OR user_b_id = $1`
	err := r.db.GetContext(ctx, &total, query, userID)
	return total, err
}

func expectOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func badgeStrings(badges []domain.Badge) []string {
	out := make([]string, 0, len(badges))
	for _, b := range badges {
		out = append(out, string(b))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
