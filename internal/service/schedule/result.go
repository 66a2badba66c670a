package schedule

import (
	"fmt"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

// CreateEventResult is the stored event plus the advisory conflicts found for it.
type CreateEventResult struct {
	Event     *domain.Event
	Conflicts []domain.ConflictEntry
}

// CommitResult lists the records written by a committed move.
type CommitResult struct {
	Resolution domain.MoveResolution
	Events     []domain.Event
}

// ConflictError refuses a write because of conflicts the caller asked to be
// strict about. It matches domain.ErrConflict via errors.Is.
type ConflictError struct {
	Conflicts []domain.ConflictEntry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %d resource(s) double-booked", domain.ErrConflict, len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error { return domain.ErrConflict }
