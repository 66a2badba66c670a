package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/recurrence"
)

// ExpandOccurrences returns the occurrences of head inside the window, capped
// at the configured number of occurrences per series.
func (s *Service) ExpandOccurrences(ctx context.Context, head domain.Event, window WindowInput) ([]domain.Occurrence, error) {
	if err := window.validate(s.cfg.MaxWindow); err != nil {
		return nil, err
	}

	seq, err := recurrence.All(head, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	var out []domain.Occurrence
	for occ := range seq {
		if len(out) == s.cfg.MaxOccurrences {
			s.log.WarnContext(ctx, "expansion truncated",
				slog.String("event_id", head.ID.String()),
				slog.Int("limit", s.cfg.MaxOccurrences),
			)
			break
		}
		out = append(out, occ)
	}
	return out, nil
}

// ExpandEvent loads an event and expands it for a member of its calendar.
func (s *Service) ExpandEvent(ctx context.Context, eventID uuid.UUID, window WindowInput) ([]domain.Occurrence, error) {
	if err := window.validate(s.cfg.MaxWindow); err != nil {
		return nil, err
	}

	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("schedule.ExpandEvent get event: %w", err)
	}
	if _, _, err := s.memberRole(ctx, ev.CalendarID); err != nil {
		return nil, err
	}
	return s.ExpandOccurrences(ctx, *ev, window)
}

// ListOccurrences expands every event of a calendar inside the window.
// Detached occurrences replace the series slots they were split from, even
// when they now lie outside the window. Any member may list.
func (s *Service) ListOccurrences(ctx context.Context, calendarID uuid.UUID, window WindowInput) ([]recurrence.Instance, error) {
	if err := window.validate(s.cfg.MaxWindow); err != nil {
		return nil, err
	}
	if _, _, err := s.memberRole(ctx, calendarID); err != nil {
		return nil, err
	}

	events, err := s.events.ListByCalendar(ctx, calendarID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("schedule.ListOccurrences list events: %w", err)
	}

	withMasks, listed, err := s.withSlotMasks(ctx, events)
	if err != nil {
		return nil, fmt.Errorf("schedule.ListOccurrences: %w", err)
	}

	expanded, err := recurrence.ExpandSet(withMasks, window.Start, window.End, s.cfg.MaxOccurrences)
	if err != nil {
		return nil, fmt.Errorf("schedule.ListOccurrences expand: %w", err)
	}

	instances := make([]recurrence.Instance, 0, len(expanded))
	for _, inst := range expanded {
		if _, ok := listed[inst.Event.ID]; ok {
			instances = append(instances, inst)
		}
	}

	s.log.DebugContext(ctx, "occurrences listed",
		slog.String("calendar_id", calendarID.String()),
		slog.Int("events", len(events)),
		slog.Int("occurrences", len(instances)),
	)
	return instances, nil
}
