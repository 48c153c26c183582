package domain

import "errors"

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	ErrInvalidTransition  = errors.New("invalid match status transition")
	ErrNotMatchMember     = errors.New("user is not part of this match")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBatchInProgress    = errors.New("batch run already in progress")
)
