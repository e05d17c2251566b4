package model

import "errors"

// Sentinel kinds for model validation errors.
var (
	ErrEmptyTitle       = errors.New("event title must not be empty")
	ErrInvalidTime      = errors.New("invalid time of day")
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownFrequency = errors.New("unknown dose frequency")
)
