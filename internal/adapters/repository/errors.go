package repository

import "errors"

// Sentinel kinds for calendar store errors.
var (
	ErrNotFound    = errors.New("event not found")
	ErrDuplicateID = errors.New("event id already stored")
)
