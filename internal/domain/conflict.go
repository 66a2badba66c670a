package domain

import (
	"cmp"
	"time"

	"github.com/google/uuid"
)

// Resource is something that can be double-booked: a room or a participant.
type Resource struct {
	Type  ConflictType
	ID    uuid.UUID
	Label string
}

// ConflictEntry groups all bookings colliding with a candidate on one resource.
type ConflictEntry struct {
	Type          ConflictType
	ResourceID    uuid.UUID
	ResourceLabel string
	SlotStart     time.Time
	SlotEnd       time.Time
	Events        []Event
}

// CompareConflicts orders rooms before participants, then by label, then by id.
func CompareConflicts(a, b ConflictEntry) int {
	if c := cmp.Compare(a.Type.rank(), b.Type.rank()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ResourceLabel, b.ResourceLabel); c != 0 {
		return c
	}
	return cmp.Compare(a.ResourceID.String(), b.ResourceID.String())
}
