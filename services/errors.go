package services

import (
	"errors"
	"fmt"
)

// Domain errors. Every operation either succeeds or fails with one of these
// and leaves all entities unchanged; callers translate them to HTTP responses.
var (
	ErrLimitReached      = errors.New("limit reached")
	ErrDuplicate         = errors.New("already selected")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// CooldownActiveError blocks a new collaboration until the cooldown elapses.
type CooldownActiveError struct {
	DaysLeft int
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("cooldown remaining: %d days", e.DaysLeft)
}
