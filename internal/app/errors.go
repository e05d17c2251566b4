package service

import (
	"errors"
	"fmt"

	"github.com/carebridge/carebridge/internal/adapters/repository"
)

// Sentinel error kinds for this package; callers match with errors.Is.
var (
	// ErrNotStarted is returned when an operation needs a started service.
	ErrNotStarted = errors.New("service not started")

	// ErrDuplicateEvent is returned when an event id was already accepted.
	// The first accepted event is unchanged. It wraps the repository kind so
	// callers holding either sentinel can match it.
	ErrDuplicateEvent = fmt.Errorf("duplicate event: %w", repository.ErrDuplicateID)
)
