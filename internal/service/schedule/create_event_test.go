package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/pkg/ctxutil"
)

func creatingRepo(byResource map[uuid.UUID][]domain.Event) *eventRepoMock {
	repo := bookingsRepo(byResource)
	repo.CreateFunc = func(ctx context.Context, event *domain.Event) (*domain.Event, error) {
		saved := event.Clone()
		saved.Version = 1
		return &saved, nil
	}
	return repo
}

func TestCreateEvent_NormalizesWallClock(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.events = creatingRepo(nil)
	svc := newScheduleTestService(t, d)
	ctx, _ := userCtx()

	result, err := svc.CreateEvent(ctx, CreateEventInput{
		CalendarID: uuid.New(),
		Title:      "  Planning  ",
		Timezone:   "Europe/Berlin",
		Start:      "2024-07-01T09:00",
		End:        "2024-07-01T10:30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := result.Event
	if !ev.StartsAt.Equal(at(2024, 7, 1, 7, 0)) {
		t.Errorf("StartsAt: got %v, want 07:00Z (CEST)", ev.StartsAt)
	}
	if !ev.EndsAt.Equal(at(2024, 7, 1, 8, 30)) {
		t.Errorf("EndsAt: got %v, want 08:30Z", ev.EndsAt)
	}
	if ev.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone: got %q", ev.Timezone)
	}
	if ev.Title != "Planning" {
		t.Errorf("Title: got %q, want trimmed", ev.Title)
	}
	if ev.Status != domain.EventStatusConfirmed {
		t.Errorf("Status: got %s, want confirmed", ev.Status)
	}
	if len(d.events.CreateCalls()) != 1 {
		t.Errorf("Create calls: got %d, want 1", len(d.events.CreateCalls()))
	}
}

func TestCreateEvent_TimezoneFromContext(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.events = creatingRepo(nil)
	svc := newScheduleTestService(t, d)
	ctx, _ := userCtx()
	ctx = ctxutil.WithTimezone(ctx, "Asia/Tokyo")

	result, err := svc.CreateEvent(ctx, CreateEventInput{
		CalendarID: uuid.New(),
		Title:      "Sync",
		Start:      "2024-03-01T09:00",
		End:        "2024-03-01T10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Event.StartsAt.Equal(at(2024, 3, 1, 0, 0)) {
		t.Errorf("StartsAt: got %v, want 00:00Z", result.Event.StartsAt)
	}
}

func TestCreateEvent_ZonedInputIgnoresTimezone(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.events = creatingRepo(nil)
	svc := newScheduleTestService(t, d)
	ctx, _ := userCtx()

	result, err := svc.CreateEvent(ctx, CreateEventInput{
		CalendarID: uuid.New(),
		Title:      "Sync",
		Timezone:   "America/New_York",
		Start:      "2024-03-01T09:00:00+01:00",
		End:        "2024-03-01T10:00:00+01:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Event.StartsAt.Equal(at(2024, 3, 1, 8, 0)) {
		t.Errorf("StartsAt: got %v, want 08:00Z", result.Event.StartsAt)
	}
}

func TestCreateEvent_AllDay(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.events = creatingRepo(nil)
	svc := newScheduleTestService(t, d)
	ctx, _ := userCtx()

	result, err := svc.CreateEvent(ctx, CreateEventInput{
		CalendarID: uuid.New(),
		Title:      "Offsite",
		Timezone:   "Europe/Berlin",
		Start:      "2024-03-30",
		End:        "2024-03-31",
		AllDay:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := result.Event
	if !ev.StartsAt.Equal(at(2024, 3, 29, 23, 0)) {
		t.Errorf("StartsAt: got %v, want 2024-03-29 23:00Z", ev.StartsAt)
	}
	// Berlin switches to CEST on 2024-03-31, so that day is 23 hours long.
	if !ev.EndsAt.Equal(at(2024, 3, 31, 22, 0)) {
		t.Errorf("EndsAt: got %v, want 2024-03-31 22:00Z", ev.EndsAt)
	}
	if ev.Duration() != 47*time.Hour {
		t.Errorf("Duration: got %v, want 47h", ev.Duration())
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input CreateEventInput
		err   error
	}{
		{
			name:  "missing title",
			input: CreateEventInput{CalendarID: uuid.New(), Start: "2024-03-01T09:00", End: "2024-03-01T10:00"},
			err:   domain.ErrValidation,
		},
		{
			name:  "end before start",
			input: CreateEventInput{CalendarID: uuid.New(), Title: "x", Start: "2024-03-01T10:00", End: "2024-03-01T09:00"},
			err:   domain.ErrInvalidInterval,
		},
		{
			name:  "unknown timezone",
			input: CreateEventInput{CalendarID: uuid.New(), Title: "x", Timezone: "Mars/Olympus", Start: "2024-03-01T09:00", End: "2024-03-01T10:00"},
			err:   domain.ErrValidation,
		},
		{
			name:  "bad timestamp",
			input: CreateEventInput{CalendarID: uuid.New(), Title: "x", Start: "yesterday", End: "2024-03-01T10:00"},
			err:   domain.ErrInvalidTimestamp,
		},
		{
			name: "invalid rule",
			input: CreateEventInput{
				CalendarID: uuid.New(), Title: "x", Start: "2024-03-01T09:00", End: "2024-03-01T10:00",
				Recurrence: &domain.RecurrenceRule{Frequency: domain.FrequencyWeekly, Interval: 0},
			},
			err: domain.ErrInvalidRecurrenceRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := defaultDeps()
			d.events = creatingRepo(nil)
			svc := newScheduleTestService(t, d)
			ctx, _ := userCtx()

			_, err := svc.CreateEvent(ctx, tt.input)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got: %v", tt.err, err)
			}
			if len(d.events.CreateCalls()) != 0 {
				t.Error("nothing may be stored")
			}
		})
	}
}

func TestCreateEvent_ReportsConflicts(t *testing.T) {
	t.Parallel()

	roomID := uuid.New()
	d := defaultDeps()
	d.events = creatingRepo(map[uuid.UUID][]domain.Event{
		roomID: {singleEvent(at(2024, 3, 1, 9, 30), at(2024, 3, 1, 10, 30))},
	})
	svc := newScheduleTestService(t, d)
	ctx, _ := userCtx()

	input := CreateEventInput{
		CalendarID: uuid.New(),
		Title:      "Sync",
		Timezone:   "UTC",
		Start:      "2024-03-01T10:00",
		End:        "2024-03-01T11:00",
		RoomID:     &roomID,
	}

	result, err := svc.CreateEvent(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Conflicts) != 1 {
		t.Errorf("Conflicts: got %d, want 1", len(result.Conflicts))
	}
	if len(d.events.CreateCalls()) != 1 {
		t.Errorf("advisory conflicts must not block: Create calls %d", len(d.events.CreateCalls()))
	}

	input.RequireNoConflicts = true
	_, err = svc.CreateEvent(ctx, input)
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected *ConflictError, got: %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Error("ConflictError must match ErrConflict")
	}
	if len(conflictErr.Conflicts) != 1 {
		t.Errorf("Conflicts: got %d, want 1", len(conflictErr.Conflicts))
	}
	if len(d.events.CreateCalls()) != 1 {
		t.Errorf("strict create must not store: Create calls %d", len(d.events.CreateCalls()))
	}
}

func TestCreateEvent_RecurringChecksEveryOccurrence(t *testing.T) {
	t.Parallel()

	anna := uuid.New()
	d := defaultDeps()
	d.events = creatingRepo(map[uuid.UUID][]domain.Event{
		anna: {singleEvent(at(2024, 3, 15, 9, 0), at(2024, 3, 15, 9, 30))},
	})
	svc := newScheduleTestService(t, d)
	ctx, _ := userCtx()

	result, err := svc.CreateEvent(ctx, CreateEventInput{
		CalendarID:     uuid.New(),
		Title:          "Weekly",
		Timezone:       "UTC",
		Start:          "2024-03-01T09:00",
		End:            "2024-03-01T10:00",
		ParticipantIDs: []uuid.UUID{anna},
		Recurrence:     &domain.RecurrenceRule{Frequency: domain.FrequencyWeekly, Interval: 1, Count: ptr(4)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("Conflicts: got %d, want 1 (third occurrence)", len(result.Conflicts))
	}
	if !result.Conflicts[0].SlotStart.Equal(at(2024, 3, 15, 9, 0)) {
		t.Errorf("SlotStart: got %v", result.Conflicts[0].SlotStart)
	}

	fetch := d.events.FetchEventsForResourceCalls()
	if len(fetch) != 1 {
		t.Fatalf("FetchEventsForResource calls: got %d, want 1", len(fetch))
	}
	if !fetch[0].WindowEnd.Equal(at(2024, 3, 22, 10, 0)) {
		t.Errorf("fetch window end: got %v, want last occurrence end", fetch[0].WindowEnd)
	}
}

func TestCreateEvent_CancelledSkipsConflictCheck(t *testing.T) {
	t.Parallel()

	roomID := uuid.New()
	d := defaultDeps()
	d.events = creatingRepo(nil)
	svc := newScheduleTestService(t, d)
	ctx, _ := userCtx()

	_, err := svc.CreateEvent(ctx, CreateEventInput{
		CalendarID: uuid.New(),
		Title:      "Placeholder",
		Start:      "2024-03-01T09:00",
		End:        "2024-03-01T10:00",
		Status:     domain.EventStatusCancelled,
		RoomID:     &roomID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.events.FetchEventsForResourceCalls()) != 0 {
		t.Error("a cancelled event books nothing")
	}
}

func TestCreateEvent_Forbidden(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.events = creatingRepo(nil)
	d.access.MemberRoleFunc = func(ctx context.Context, calendarID, userID uuid.UUID) (domain.CalendarRole, error) {
		return domain.CalendarRoleViewer, nil
	}
	svc := newScheduleTestService(t, d)
	ctx, _ := userCtx()

	_, err := svc.CreateEvent(ctx, CreateEventInput{
		CalendarID: uuid.New(),
		Title:      "Sync",
		Start:      "2024-03-01T09:00",
		End:        "2024-03-01T10:00",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got: %v", err)
	}
}
