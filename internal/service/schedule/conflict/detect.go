// Package conflict finds bookings that collide with a candidate interval and
// groups them per resource. It is pure; fetching and expansion happen in the
// schedule service.
package conflict

import (
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

// Booking is one concrete occupation of a resource: an occurrence of Event.
type Booking struct {
	Resource domain.Resource
	Event    domain.Event
	Interval domain.Interval
}

type resourceKey struct {
	typ domain.ConflictType
	id  uuid.UUID
}

type group struct {
	resource domain.Resource
	slot     domain.Interval
	events   []domain.Event
	seen     map[uuid.UUID]struct{}
}

// Detect returns one entry per resource that has at least one booking strictly
// overlapping candidate. Touching intervals do not collide. Cancelled events
// never collide. When exclude is set, the event with that id, its occurrences
// and the detached occurrences pointing at it are ignored.
//
// SlotStart/SlotEnd run from the earliest to the latest instant of candidate
// covered by a colliding booking. When two bookings collide with disjoint
// parts of candidate, the slot also spans the free gap between them; Events
// lists every booking, so callers that need the exact pieces can intersect
// them with candidate. Entries are ordered rooms first, then by label, then by id.
func Detect(candidate domain.Interval, bookings []Booking, exclude uuid.UUID) []domain.ConflictEntry {
	if !candidate.IsValid() {
		return nil
	}

	groups := make(map[resourceKey]*group)
	for _, b := range bookings {
		if !b.Event.Status.Blocks() || excluded(b.Event, exclude) {
			continue
		}
		overlap, ok := candidate.Intersect(b.Interval)
		if !ok {
			continue
		}

		key := resourceKey{b.Resource.Type, b.Resource.ID}
		g, ok := groups[key]
		if !ok {
			g = &group{resource: b.Resource, slot: overlap, seen: make(map[uuid.UUID]struct{})}
			groups[key] = g
		}
		if overlap.Start.Before(g.slot.Start) {
			g.slot.Start = overlap.Start
		}
		if overlap.End.After(g.slot.End) {
			g.slot.End = overlap.End
		}
		if g.resource.Label == "" {
			g.resource.Label = b.Resource.Label
		}
		if _, dup := g.seen[b.Event.ID]; !dup {
			g.seen[b.Event.ID] = struct{}{}
			g.events = append(g.events, b.Event)
		}
	}

	out := make([]domain.ConflictEntry, 0, len(groups))
	for _, g := range groups {
		out = append(out, domain.ConflictEntry{
			Type:          g.resource.Type,
			ResourceID:    g.resource.ID,
			ResourceLabel: g.resource.Label,
			SlotStart:     g.slot.Start,
			SlotEnd:       g.slot.End,
			Events:        g.events,
		})
	}
	slices.SortFunc(out, domain.CompareConflicts)
	return out
}

func excluded(ev domain.Event, exclude uuid.UUID) bool {
	if exclude == uuid.Nil {
		return false
	}
	if ev.ID == exclude {
		return true
	}
	return ev.RecurrenceParentID != nil && *ev.RecurrenceParentID == exclude
}
