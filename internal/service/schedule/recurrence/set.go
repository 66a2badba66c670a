package recurrence

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

// Instance is an occurrence together with the record that produced it.
type Instance struct {
	Event      domain.Event
	Occurrence domain.Occurrence
}

type slotKey struct {
	series uuid.UUID
	start  int64
}

// ExpandSet expands a mixed set of single events, series heads and detached
// occurrences over one window. A detached occurrence replaces the series slot
// named by its OriginalStart, so a moved occurrence is never counted twice.
// limit caps the occurrences taken from one series; zero means no cap.
// The result is ordered by start, then by event id.
func ExpandSet(events []domain.Event, windowStart, windowEnd time.Time, limit int) ([]Instance, error) {
	replaced := make(map[slotKey]struct{})
	for i := range events {
		ev := &events[i]
		if ev.IsDetached() && ev.OriginalStart != nil {
			replaced[slotKey{*ev.RecurrenceParentID, ev.OriginalStart.UnixNano()}] = struct{}{}
		}
	}

	var out []Instance
	for _, ev := range events {
		seq, err := All(ev, windowStart, windowEnd)
		if err != nil {
			return nil, fmt.Errorf("expand event %s: %w", ev.ID, err)
		}

		taken := 0
		for occ := range seq {
			if ev.IsSeriesHead() {
				if _, ok := replaced[slotKey{ev.ID, occ.Start.UnixNano()}]; ok {
					continue
				}
			}
			out = append(out, Instance{Event: ev, Occurrence: occ})
			taken++
			if limit > 0 && taken >= limit {
				break
			}
		}
	}

	slices.SortStableFunc(out, func(a, b Instance) int {
		if c := a.Occurrence.Start.Compare(b.Occurrence.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Event.ID.String(), b.Event.ID.String())
	})
	return out, nil
}
