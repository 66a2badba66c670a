package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecurrenceRule describes how a series head repeats.
// At most one of Count and Until is set; both nil means the series is unbounded.
type RecurrenceRule struct {
	Frequency Frequency
	Interval  int
	Count     *int
	Until     *time.Time
}

// Validate checks the rule's internal consistency.
func (r RecurrenceRule) Validate() error {
	var errs []FieldError

	if !r.Frequency.IsValid() {
		errs = append(errs, FieldError{Field: "frequency", Message: "must be daily, weekly or monthly"})
	}
	if r.Interval < 1 {
		errs = append(errs, FieldError{Field: "interval", Message: "must be >= 1"})
	}
	if r.Count != nil && r.Until != nil {
		errs = append(errs, FieldError{Field: "count", Message: "count and until are mutually exclusive"})
	}
	if r.Count != nil && *r.Count < 1 {
		errs = append(errs, FieldError{Field: "count", Message: "must be >= 1"})
	}

	if len(errs) > 0 {
		return &RuleError{Fields: errs}
	}
	return nil
}

// IsBounded reports whether the rule ends by itself (count or until).
func (r RecurrenceRule) IsBounded() bool {
	return r.Count != nil || r.Until != nil
}

// RuleError carries the field details of an invalid recurrence rule.
// It matches ErrInvalidRecurrenceRule via errors.Is.
type RuleError struct {
	Fields []FieldError
}

func (e *RuleError) Error() string {
	if len(e.Fields) == 1 {
		return ErrInvalidRecurrenceRule.Error() + ": " + e.Fields[0].Field + " " + e.Fields[0].Message
	}
	return ErrInvalidRecurrenceRule.Error()
}

func (e *RuleError) Unwrap() error { return ErrInvalidRecurrenceRule }

// Event is a stored calendar booking. A series head carries Recurrence;
// a detached occurrence carries RecurrenceParentID and OriginalStart instead.
type Event struct {
	ID          uuid.UUID
	CalendarID  uuid.UUID
	RoomID      *uuid.UUID
	Title       string
	Description string
	Location    string
	Timezone    string
	StartsAt    time.Time
	EndsAt      time.Time
	AllDay      bool
	Status      EventStatus
	Recurrence  *RecurrenceRule

	// RecurrenceParentID is a lookup key only; the detached record lives on
	// its own when the head is deleted.
	RecurrenceParentID *uuid.UUID
	// OriginalStart is the series slot this detached occurrence replaces.
	OriginalStart *time.Time

	ParticipantIDs []uuid.UUID
	GroupIDs       []uuid.UUID

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the stored [StartsAt, EndsAt) range.
func (e *Event) Interval() Interval {
	return Interval{Start: e.StartsAt, End: e.EndsAt}
}

func (e *Event) Duration() time.Duration {
	return e.EndsAt.Sub(e.StartsAt)
}

// IsSeriesHead reports whether the event owns a recurrence rule.
func (e *Event) IsSeriesHead() bool {
	return e.Recurrence != nil
}

// IsDetached reports whether the event was split off a series.
func (e *Event) IsDetached() bool {
	return e.RecurrenceParentID != nil
}

// SeriesID returns the id of the series this event belongs to,
// or uuid.Nil for a plain single event.
func (e *Event) SeriesID() uuid.UUID {
	switch {
	case e.IsSeriesHead():
		return e.ID
	case e.IsDetached():
		return *e.RecurrenceParentID
	}
	return uuid.Nil
}

// Validate checks the stored-record invariants.
func (e *Event) Validate() error {
	if !e.StartsAt.Before(e.EndsAt) {
		return ErrInvalidInterval
	}
	if e.RecurrenceParentID != nil && e.Recurrence != nil {
		return &RuleError{Fields: []FieldError{{Field: "recurrence", Message: "a detached occurrence cannot carry a rule"}}}
	}
	if e.Recurrence != nil {
		return e.Recurrence.Validate()
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing slices or pointers.
func (e Event) Clone() Event {
	out := e
	if e.RoomID != nil {
		id := *e.RoomID
		out.RoomID = &id
	}
	if e.Recurrence != nil {
		r := *e.Recurrence
		if r.Count != nil {
			c := *r.Count
			r.Count = &c
		}
		if r.Until != nil {
			u := *r.Until
			r.Until = &u
		}
		out.Recurrence = &r
	}
	if e.RecurrenceParentID != nil {
		id := *e.RecurrenceParentID
		out.RecurrenceParentID = &id
	}
	if e.OriginalStart != nil {
		t := *e.OriginalStart
		out.OriginalStart = &t
	}
	out.ParticipantIDs = append([]uuid.UUID(nil), e.ParticipantIDs...)
	out.GroupIDs = append([]uuid.UUID(nil), e.GroupIDs...)
	return out
}

// Occurrence is one concrete instance of an event, derived on demand.
type Occurrence struct {
	EventID uuid.UUID
	Index   int
	Start   time.Time
	End     time.Time
}

func (o Occurrence) Interval() Interval {
	return Interval{Start: o.Start, End: o.End}
}
