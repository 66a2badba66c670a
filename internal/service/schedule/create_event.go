package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/recurrence"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/timegrid"
	"github.com/heartmarshall/teamcal-backend/pkg/ctxutil"
)

// CreateEvent normalizes the input times, checks conflicts and stores the event.
// Conflicts are returned alongside the event unless RequireNoConflicts is set,
// in which case the event is not stored and a *ConflictError is returned.
func (s *Service) CreateEvent(ctx context.Context, input CreateEventInput) (*CreateEventResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	userID, err := s.authorize(ctx, input.CalendarID)
	if err != nil {
		return nil, err
	}

	event, err := s.buildEvent(ctx, input)
	if err != nil {
		return nil, err
	}

	var conflicts []domain.ConflictEntry
	if event.Status.Blocks() {
		candidates, err := s.candidates(*event)
		if err != nil {
			return nil, err
		}
		resources, err := s.resolveResources(ctx, event.RoomID, event.ParticipantIDs, event.GroupIDs)
		if err != nil {
			return nil, err
		}
		conflicts, err = s.detect(ctx, candidates, resources, uuid.Nil)
		if err != nil {
			return nil, err
		}
	}

	if len(conflicts) > 0 && input.RequireNoConflicts {
		s.log.WarnContext(ctx, "event refused: conflicts",
			slog.String("user_id", userID.String()),
			slog.Int("conflicts", len(conflicts)),
		)
		return nil, &ConflictError{Conflicts: conflicts}
	}

	var created *domain.Event
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.events.Create(txCtx, event)
		if createErr != nil {
			return fmt.Errorf("create event: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("schedule.CreateEvent: %w", err)
	}

	s.log.InfoContext(ctx, "event created",
		slog.String("user_id", userID.String()),
		slog.String("event_id", created.ID.String()),
		slog.Bool("recurring", created.IsSeriesHead()),
		slog.Int("conflicts", len(conflicts)),
	)

	return &CreateEventResult{Event: created, Conflicts: conflicts}, nil
}

// buildEvent turns the raw input into a validated record in UTC.
func (s *Service) buildEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	tzName := input.Timezone
	if tzName == "" {
		tzName = ctxutil.TimezoneFromCtx(ctx)
	}
	if tzName == "" {
		tzName = s.cfg.DefaultTimezone
	}
	loc, err := timegrid.LoadLocation(tzName)
	if err != nil {
		return nil, err
	}

	start, err := timegrid.ParseIn(input.Start, loc)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := timegrid.ParseIn(input.End, loc)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	// All-day events cover whole local days; End names the last day included.
	if input.AllDay {
		start = timegrid.DayStart(start, loc)
		end = timegrid.NextDayStart(end, loc)
	}

	status := input.Status
	if status == "" {
		status = domain.EventStatusConfirmed
	}

	event := &domain.Event{
		ID:             uuid.New(),
		CalendarID:     input.CalendarID,
		RoomID:         input.RoomID,
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Location:       strings.TrimSpace(input.Location),
		Timezone:       loc.String(),
		StartsAt:       start,
		EndsAt:         end,
		AllDay:         input.AllDay,
		Status:         status,
		ParticipantIDs: dedupe(input.ParticipantIDs),
		GroupIDs:       dedupe(input.GroupIDs),
	}
	if input.Recurrence != nil {
		rule := *input.Recurrence
		if rule.Until != nil {
			until := rule.Until.UTC()
			rule.Until = &until
		}
		event.Recurrence = &rule
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

// candidates lists the intervals a new event will occupy: the event itself, or
// its occurrences within the lookahead horizon when it recurs.
func (s *Service) candidates(event domain.Event) ([]domain.Interval, error) {
	if !event.IsSeriesHead() {
		return []domain.Interval{event.Interval()}, nil
	}

	horizon := event.StartsAt.Add(s.cfg.ConflictLookahead)
	seq, err := recurrence.All(event, event.StartsAt, horizon)
	if err != nil {
		return nil, err
	}

	var out []domain.Interval
	for occ := range seq {
		if len(out) == s.cfg.MaxOccurrences {
			break
		}
		out = append(out, occ.Interval())
	}
	return out, nil
}

// authorize checks that the caller may edit events of calendarID.
func (s *Service) authorize(ctx context.Context, calendarID uuid.UUID) (uuid.UUID, error) {
	userID, role, err := s.memberRole(ctx, calendarID)
	if err != nil {
		return uuid.Nil, err
	}
	if !role.CanEdit() {
		s.log.WarnContext(ctx, "mutation refused",
			slog.String("user_id", userID.String()),
			slog.String("calendar_id", calendarID.String()),
			slog.String("role", role.String()),
		)
		return uuid.Nil, domain.ErrForbidden
	}
	return userID, nil
}

// memberRole returns the caller and their role in calendarID.
// Non-members get domain.ErrForbidden.
func (s *Service) memberRole(ctx context.Context, calendarID uuid.UUID) (uuid.UUID, domain.CalendarRole, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return uuid.Nil, "", domain.ErrUnauthorized
	}

	role, err := s.access.MemberRole(ctx, calendarID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "access by non-member",
				slog.String("user_id", userID.String()),
				slog.String("calendar_id", calendarID.String()),
			)
			return uuid.Nil, "", domain.ErrForbidden
		}
		return uuid.Nil, "", fmt.Errorf("schedule.memberRole: %w", err)
	}
	return userID, role, nil
}
