package schedule

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
	maxLocationLength    = 300
	maxParticipants      = 500
)

// CheckConflictsInput holds the parameters of a conflict check.
type CheckConflictsInput struct {
	Candidate      domain.Interval
	RoomID         *uuid.UUID
	ParticipantIDs []uuid.UUID
	GroupIDs       []uuid.UUID
	// ExcludeEventID ignores an event being updated in place, its own
	// occurrences and the detached occurrences pointing at it.
	ExcludeEventID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i CheckConflictsInput) Validate() error {
	if !i.Candidate.IsValid() {
		return domain.ErrInvalidInterval
	}

	var errs []domain.FieldError
	if len(i.ParticipantIDs)+len(i.GroupIDs) > maxParticipants {
		errs = append(errs, domain.FieldError{Field: "participants", Message: "too many participants"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateEventInput holds the parameters for creating an event.
// Start and End are either zoned instants or naive wall clocks read in Timezone.
type CreateEventInput struct {
	CalendarID     uuid.UUID
	Title          string
	Description    string
	Location       string
	Timezone       string
	Start          string
	End            string
	AllDay         bool
	Status         domain.EventStatus
	RoomID         *uuid.UUID
	ParticipantIDs []uuid.UUID
	GroupIDs       []uuid.UUID
	Recurrence     *domain.RecurrenceRule
	// RequireNoConflicts turns advisory conflicts into a refusal.
	RequireNoConflicts bool
}

// Validate checks all fields and collects all errors.
func (i CreateEventInput) Validate() error {
	var errs []domain.FieldError

	if i.CalendarID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "calendar_id", Message: "required"})
	}
	title := strings.TrimSpace(i.Title)
	if title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(title) > maxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 200 characters"})
	}
	if len(i.Description) > maxDescriptionLength {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 5000 characters"})
	}
	if len(i.Location) > maxLocationLength {
		errs = append(errs, domain.FieldError{Field: "location", Message: "max 300 characters"})
	}
	if strings.TrimSpace(i.Start) == "" {
		errs = append(errs, domain.FieldError{Field: "start", Message: "required"})
	}
	if strings.TrimSpace(i.End) == "" {
		errs = append(errs, domain.FieldError{Field: "end", Message: "required"})
	}
	if i.Status != "" && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be confirmed, tentative or cancelled"})
	}
	if len(i.ParticipantIDs)+len(i.GroupIDs) > maxParticipants {
		errs = append(errs, domain.FieldError{Field: "participants", Message: "too many participants"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// MoveInput describes a drag or resize of one occurrence.
type MoveInput struct {
	EventID uuid.UUID
	// OccurrenceIndex addresses occurrence #k of a series; 0 for single events.
	OccurrenceIndex int
	NewStart        time.Time
	NewEnd          time.Time
}

// Validate checks all fields and collects all errors.
func (i MoveInput) Validate() error {
	var errs []domain.FieldError

	if i.EventID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "event_id", Message: "required"})
	}
	if i.OccurrenceIndex < 0 {
		errs = append(errs, domain.FieldError{Field: "occurrence_index", Message: "must be >= 0"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}

	if !i.NewStart.Before(i.NewEnd) {
		return domain.ErrInvalidInterval
	}
	return nil
}

// WindowInput is a query window for expansion and listing.
type WindowInput struct {
	Start time.Time
	End   time.Time
}

func (w WindowInput) validate(maxWindow time.Duration) error {
	if !w.Start.Before(w.End) {
		return domain.ErrInvalidInterval
	}
	if w.End.Sub(w.Start) > maxWindow {
		return domain.NewValidationError("window", "exceeds maximum length")
	}
	return nil
}
