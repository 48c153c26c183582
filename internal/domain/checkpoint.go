package domain

import "time"

// Checkpoint marks how far a batch run got. Every pair index up to and
// including PairIndex has been fully processed.
type Checkpoint struct {
	RunID     string    `json:"run_id"`
	UserCount int       `json:"user_count"`
	PairIndex int64     `json:"pair_index"`
	UpdatedAt time.Time `json:"updated_at"`
}
