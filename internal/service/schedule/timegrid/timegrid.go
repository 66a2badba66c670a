// Package timegrid converts between stored UTC instants and wall-clock fields
// of a named timezone, and computes day, week and month grid boundaries.
//
// Storage and comparison always happen on UTC instants; wall-clock fields are
// an input/presentation concern only.
package timegrid

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

// GridDays is the number of cells in a month view (six Monday-start weeks).
const GridDays = 42

// WallClock holds calendar-naive date and time fields.
type WallClock struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// Validate reports ErrInvalidTimestamp when the fields cannot form a real date and time.
func (w WallClock) Validate() error {
	switch {
	case w.Month < time.January || w.Month > time.December:
		return fmt.Errorf("%w: month %d out of range", domain.ErrInvalidTimestamp, w.Month)
	case w.Day < 1 || w.Day > DaysIn(w.Year, w.Month):
		return fmt.Errorf("%w: day %d out of range for %d-%02d", domain.ErrInvalidTimestamp, w.Day, w.Year, w.Month)
	case w.Hour < 0 || w.Hour > 23:
		return fmt.Errorf("%w: hour %d out of range", domain.ErrInvalidTimestamp, w.Hour)
	case w.Minute < 0 || w.Minute > 59:
		return fmt.Errorf("%w: minute %d out of range", domain.ErrInvalidTimestamp, w.Minute)
	case w.Second < 0 || w.Second > 59:
		return fmt.Errorf("%w: second %d out of range", domain.ErrInvalidTimestamp, w.Second)
	}
	return nil
}

func (w WallClock) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", w.Year, w.Month, w.Day, w.Hour, w.Minute, w.Second)
}

// ParseWallClock parses a naive "2006-01-02T15:04[:05]" or "2006-01-02" value.
// Any zone designator is rejected: naive input belongs to a timezone chosen by the caller.
func ParseWallClock(s string) (WallClock, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WallClock{}, fmt.Errorf("%w: empty wall clock", domain.ErrInvalidTimestamp)
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return WallClock{
				Year: t.Year(), Month: t.Month(), Day: t.Day(),
				Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
			}, nil
		}
	}
	return WallClock{}, fmt.Errorf("%w: cannot parse wall clock %q", domain.ErrInvalidTimestamp, s)
}

// LoadLocation resolves an IANA zone name. An empty name means UTC.
func LoadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", domain.ErrInvalidTimestamp, name)
	}
	return loc, nil
}

// LocationOrUTC parses a timezone string, returning UTC as fallback.
// Only for display paths where a bad stored zone must not fail the request.
func LocationOrUTC(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ToInstant converts wall-clock fields observed in loc into a UTC instant.
// The zone offset in effect at that date is used, so DST is honoured.
func ToInstant(w WallClock, loc *time.Location) (time.Time, error) {
	if err := w.Validate(); err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(w.Year, w.Month, w.Day, w.Hour, w.Minute, w.Second, 0, loc).UTC(), nil
}

// ToWallClock renders an instant as wall-clock fields in loc.
func ToWallClock(instant time.Time, loc *time.Location) WallClock {
	if loc == nil {
		loc = time.UTC
	}
	t := instant.In(loc)
	return WallClock{
		Year: t.Year(), Month: t.Month(), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
	}
}

// ParseInstant parses an ISO-8601 timestamp into a UTC instant.
// A value without a zone designator is UTC: the marker is appended before
// parsing instead of letting it fall back to local time.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", domain.ErrInvalidTimestamp)
	}
	if !strings.ContainsRune(s, 'T') {
		s += "T00:00:00"
	}
	if !hasZone(s) {
		s += "Z"
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %q", domain.ErrInvalidTimestamp, s)
}

// ParseIn reads user input that is either a zoned instant ("...Z", "+02:00")
// or a naive wall clock, which is then placed in loc.
func ParseIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsRune(s, 'T') && hasZone(s) {
		return ParseInstant(s)
	}
	wc, err := ParseWallClock(s)
	if err != nil {
		return time.Time{}, err
	}
	return ToInstant(wc, loc)
}

// FormatInstant renders an instant at the API boundary: RFC 3339, always with Z.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func hasZone(s string) bool {
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		return true
	}
	i := strings.IndexByte(s, 'T')
	if i < 0 {
		return false
	}
	return strings.ContainsAny(s[i+1:], "+-")
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayStart returns the start of the day containing now in tz, converted to UTC.
func DayStart(now time.Time, tz *time.Location) time.Time {
	local := now.In(tz)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz).UTC()
}

// NextDayStart returns the start of the following day in tz, converted to UTC.
func NextDayStart(now time.Time, tz *time.Location) time.Time {
	// AddDate handles DST correctly, Add(24h) does not
	next := DayStart(now, tz).In(tz).AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, tz).UTC()
}

// DayBounds returns the [start, end) of the calendar day containing date in tz.
// A DST transition day is 23 or 25 hours long.
func DayBounds(date time.Time, tz *time.Location) domain.Interval {
	return domain.Interval{Start: DayStart(date, tz), End: NextDayStart(date, tz)}
}

// WeekBounds returns the Monday-start week containing date in tz.
func WeekBounds(date time.Time, tz *time.Location) domain.Interval {
	local := date.In(tz)
	monday := local.AddDate(0, 0, -mondayOffset(local.Weekday()))
	start := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, tz)
	end := start.AddDate(0, 0, 7)
	return domain.Interval{Start: start.UTC(), End: end.UTC()}
}

// MonthGrid returns the day-start instants of a six-week month view, beginning
// on the Monday on or before the first of date's month. Day boundaries are
// taken in date's own location.
func MonthGrid(date time.Time) [GridDays]time.Time {
	loc := date.Location()
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -mondayOffset(first.Weekday()))

	var grid [GridDays]time.Time
	for i := range grid {
		d := start.AddDate(0, 0, i)
		grid[i] = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc).UTC()
	}
	return grid
}

// mondayOffset is the number of days since the most recent Monday.
func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
