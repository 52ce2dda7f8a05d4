package model

import "errors"

// Custom errors
var (
	ErrConnectionFailed = errors.New("failed to connect to model service")
	ErrInvalidResponse  = errors.New("invalid model service response")
	ErrOutputShape      = errors.New("model output shape mismatch")
	ErrNoModelForSport  = errors.New("no model registered for sport")
	ErrEmptyEnsemble    = errors.New("ensemble has no members")
)
