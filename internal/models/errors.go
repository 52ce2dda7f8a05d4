package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrInvalidSport    = errors.New("unknown sport")
	ErrMissingGameDate = errors.New("game date is required")
)
