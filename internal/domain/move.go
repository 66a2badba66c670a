package domain

import (
	"time"

	"github.com/google/uuid"
)

// PendingMove is the transient state of a drag or resize awaiting confirmation.
// OriginalStart and OriginalEnd are captured once at proposal time; every
// resolution computes its delta against them, never against a re-read record.
//
// SeriesHead is set when Event is a detached occurrence: it is the head
// snapshot a series-scope move re-anchors. Detached holds the series' detached
// occurrences as they were at proposal time.
type PendingMove struct {
	ID              uuid.UUID
	Event           Event
	SeriesHead      *Event
	Detached        []Event
	OccurrenceIndex int
	OriginalStart   time.Time
	OriginalEnd     time.Time
	NewStart        time.Time
	NewEnd          time.Time
	Scope           MutationScope
	State           MoveState
	ProposedAt      time.Time
}

// Delta is the start shift requested by the move.
func (m *PendingMove) Delta() time.Duration {
	return m.NewStart.Sub(m.OriginalStart)
}

// Target returns the requested interval.
func (m *PendingMove) Target() Interval {
	return Interval{Start: m.NewStart, End: m.NewEnd}
}

// MoveResolution is the instruction set handed to persistence.
// Mutations holds records to write: created ones have Version 0.
type MoveResolution struct {
	Scope     MutationScope
	Delta     time.Duration
	Mutations []Event
}
