// Package recurrence expands a series head into the concrete occurrences that
// intersect a query window.
//
// Expansion is a pure function of the head and the window: nothing is cached
// and every call starts from the head's own anchor. Calendar arithmetic runs on
// the wall clock of the event's authored timezone, so a 10:00 weekly meeting
// stays at 10:00 local time across DST changes.
package recurrence

import (
	"fmt"
	"iter"
	"time"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/timegrid"
)

// skipMargin keeps the fast-forward estimate safely before the window so that
// DST shifts and long durations never hide an intersecting occurrence.
const skipMargin = 48 * time.Hour

// Occurrences further than this from the anchor are treated as past the end
// of the series; it keeps step arithmetic inside time.Date's range.
const (
	horizonDays   = 10000 * 366
	horizonMonths = 10000 * 12
)

// Expand returns the occurrences of head intersecting [windowStart, windowEnd),
// ordered by start. A head without a rule yields its own interval as index 0.
func Expand(head domain.Event, windowStart, windowEnd time.Time) ([]domain.Occurrence, error) {
	seq, err := All(head, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	var out []domain.Occurrence
	for occ := range seq {
		out = append(out, occ)
	}
	return out, nil
}

// All is the lazy form of Expand. The returned sequence may be ranged over
// any number of times; each pass recomputes from the anchor.
func All(head domain.Event, windowStart, windowEnd time.Time) (iter.Seq[domain.Occurrence], error) {
	if !windowStart.Before(windowEnd) {
		return nil, fmt.Errorf("%w: window start must be before window end", domain.ErrInvalidInterval)
	}
	if !head.StartsAt.Before(head.EndsAt) {
		return nil, fmt.Errorf("%w: event %s", domain.ErrInvalidInterval, head.ID)
	}

	window := domain.Interval{Start: windowStart, End: windowEnd}

	if head.Recurrence == nil {
		return func(yield func(domain.Occurrence) bool) {
			occ := domain.Occurrence{EventID: head.ID, Index: 0, Start: head.StartsAt.UTC(), End: head.EndsAt.UTC()}
			if occ.Interval().Overlaps(window) {
				yield(occ)
			}
		}, nil
	}

	rule := *head.Recurrence
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	s := newSeries(head, rule)
	first := s.firstCandidate(windowStart)

	return func(yield func(domain.Occurrence) bool) {
		for i := first; ; i++ {
			start, ok := s.start(i)
			if !ok || !start.Before(windowEnd) {
				return
			}
			occ := domain.Occurrence{EventID: head.ID, Index: i, Start: start, End: start.Add(s.duration)}
			if !occ.End.After(windowStart) {
				continue
			}
			if !yield(occ) {
				return
			}
		}
	}, nil
}

// OccurrenceAt resolves occurrence #index of head without a window.
// It fails with ErrNotFound when the series ends before that index.
func OccurrenceAt(head domain.Event, index int) (domain.Occurrence, error) {
	if index < 0 {
		return domain.Occurrence{}, fmt.Errorf("%w: negative occurrence index %d", domain.ErrValidation, index)
	}
	if !head.StartsAt.Before(head.EndsAt) {
		return domain.Occurrence{}, fmt.Errorf("%w: event %s", domain.ErrInvalidInterval, head.ID)
	}

	if head.Recurrence == nil {
		if index != 0 {
			return domain.Occurrence{}, fmt.Errorf("occurrence %d of single event: %w", index, domain.ErrNotFound)
		}
		return domain.Occurrence{EventID: head.ID, Start: head.StartsAt.UTC(), End: head.EndsAt.UTC()}, nil
	}

	rule := *head.Recurrence
	if err := rule.Validate(); err != nil {
		return domain.Occurrence{}, err
	}

	s := newSeries(head, rule)
	start, ok := s.start(index)
	if !ok {
		return domain.Occurrence{}, fmt.Errorf("occurrence %d past end of series: %w", index, domain.ErrNotFound)
	}
	return domain.Occurrence{EventID: head.ID, Index: index, Start: start, End: start.Add(s.duration)}, nil
}

// IndexOf finds the ordinal of the occurrence that starts exactly at start.
func IndexOf(head domain.Event, start time.Time) (int, bool) {
	seq, err := All(head, start, start.Add(time.Nanosecond))
	if err != nil {
		return 0, false
	}
	for occ := range seq {
		if occ.Start.Equal(start) {
			return occ.Index, true
		}
	}
	return 0, false
}

type series struct {
	anchor   time.Time // head start on the authored wall clock
	duration time.Duration
	rule     domain.RecurrenceRule
}

func newSeries(head domain.Event, rule domain.RecurrenceRule) series {
	loc := timegrid.LocationOrUTC(head.Timezone)
	return series{
		anchor:   head.StartsAt.In(loc),
		duration: head.EndsAt.Sub(head.StartsAt),
		rule:     rule,
	}
}

// start returns the UTC start of occurrence i and false once count or until ends the series.
func (s series) start(i int) (time.Time, bool) {
	if s.rule.Count != nil && i >= *s.rule.Count {
		return time.Time{}, false
	}
	if !s.withinHorizon(i) {
		return time.Time{}, false
	}
	t := s.nth(i)
	if s.rule.Until != nil && t.After(*s.rule.Until) {
		return time.Time{}, false
	}
	return t, true
}

// withinHorizon reports whether occurrence i lies within the horizon,
// without multiplying i by the interval.
func (s series) withinHorizon(i int) bool {
	limit, unit := horizonDays, 1
	switch s.rule.Frequency {
	case domain.FrequencyWeekly:
		unit = 7
	case domain.FrequencyMonthly:
		limit = horizonMonths
	}
	per := limit / unit
	if i == 0 {
		return true
	}
	return s.rule.Interval <= per && i <= per/s.rule.Interval
}

// nth always offsets from the anchor, never from the previous occurrence,
// so month-end clamping does not drift (Jan 31, Feb 29, Mar 31).
func (s series) nth(i int) time.Time {
	a := s.anchor
	step := i * s.rule.Interval
	h, m, sec := a.Clock()

	switch s.rule.Frequency {
	case domain.FrequencyDaily:
		return time.Date(a.Year(), a.Month(), a.Day()+step, h, m, sec, a.Nanosecond(), a.Location()).UTC()
	case domain.FrequencyWeekly:
		return time.Date(a.Year(), a.Month(), a.Day()+7*step, h, m, sec, a.Nanosecond(), a.Location()).UTC()
	default:
		first := time.Date(a.Year(), a.Month()+time.Month(step), 1, 0, 0, 0, 0, a.Location())
		day := min(a.Day(), timegrid.DaysIn(first.Year(), first.Month()))
		return time.Date(first.Year(), first.Month(), day, h, m, sec, a.Nanosecond(), a.Location()).UTC()
	}
}

// firstCandidate estimates the first ordinal that can reach windowStart, so a
// long-running unbounded series does not walk every occurrence since its anchor.
func (s series) firstCandidate(windowStart time.Time) int {
	lead := windowStart.Sub(s.anchor) - s.duration - skipMargin
	if lead <= 0 {
		return 0
	}

	var i int
	days := int(lead / (24 * time.Hour))
	switch s.rule.Frequency {
	case domain.FrequencyDaily:
		i = days / s.rule.Interval
	case domain.FrequencyWeekly:
		i = days / 7 / s.rule.Interval
	default:
		edge := s.anchor.Add(lead).In(s.anchor.Location())
		months := (edge.Year()-s.anchor.Year())*12 + int(edge.Month()-s.anchor.Month()) - 1
		if months <= 0 {
			return 0
		}
		i = months / s.rule.Interval
	}

	if s.rule.Count != nil && i > *s.rule.Count {
		return *s.rule.Count
	}
	return i
}
