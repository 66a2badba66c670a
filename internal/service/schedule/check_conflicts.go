package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/conflict"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/recurrence"
)

// CheckConflicts reports which of the candidate's resources are already booked
// during the candidate interval. The result is advisory.
func (s *Service) CheckConflicts(ctx context.Context, input CheckConflictsInput) ([]domain.ConflictEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	resources, err := s.resolveResources(ctx, input.RoomID, input.ParticipantIDs, input.GroupIDs)
	if err != nil {
		return nil, err
	}

	entries, err := s.detect(ctx, []domain.Interval{input.Candidate.UTC()}, resources, input.ExcludeEventID)
	if err != nil {
		return nil, err
	}

	if len(entries) > 0 {
		s.log.InfoContext(ctx, "conflicts detected",
			slog.Int("resources", len(resources)),
			slog.Int("conflicts", len(entries)),
		)
	}
	return entries, nil
}

// resolveResources builds the deduplicated resource list: the room first, then
// direct participants, then participants reached through groups.
func (s *Service) resolveResources(ctx context.Context, roomID *uuid.UUID, participantIDs, groupIDs []uuid.UUID) ([]domain.Resource, error) {
	var resources []domain.Resource

	if roomID != nil && *roomID != uuid.Nil {
		labels, err := s.directory.RoomLabels(ctx, []uuid.UUID{*roomID})
		if err != nil {
			return nil, fmt.Errorf("schedule.resolveResources room labels: %w", err)
		}
		resources = append(resources, domain.Resource{
			Type:  domain.ConflictTypeRoom,
			ID:    *roomID,
			Label: labelOr(labels, *roomID),
		})
	}

	userIDs := participantIDs
	if len(groupIDs) > 0 {
		members, err := s.groups.ExpandGroups(ctx, groupIDs)
		if err != nil {
			return nil, fmt.Errorf("schedule.resolveResources expand groups: %w", err)
		}
		userIDs = append(append([]uuid.UUID(nil), participantIDs...), members...)
	}
	userIDs = dedupe(userIDs)
	if len(userIDs) == 0 {
		return resources, nil
	}

	labels, err := s.directory.UserLabels(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("schedule.resolveResources user labels: %w", err)
	}
	for _, id := range userIDs {
		resources = append(resources, domain.Resource{
			Type:  domain.ConflictTypeParticipant,
			ID:    id,
			Label: labelOr(labels, id),
		})
	}
	return resources, nil
}

// detect fetches and expands every resource's bookings once over the hull of
// all candidates, then checks each candidate against them.
func (s *Service) detect(ctx context.Context, candidates []domain.Interval, resources []domain.Resource, exclude uuid.UUID) ([]domain.ConflictEntry, error) {
	if len(candidates) == 0 || len(resources) == 0 {
		return nil, nil
	}

	hull := candidates[0]
	for _, c := range candidates[1:] {
		if c.Start.Before(hull.Start) {
			hull.Start = c.Start
		}
		if c.End.After(hull.End) {
			hull.End = c.End
		}
	}

	var bookings []conflict.Booking
	for _, res := range resources {
		events, err := s.events.FetchEventsForResource(ctx, res.ID, hull.Start, hull.End)
		if err != nil {
			return nil, fmt.Errorf("schedule.detect fetch %s %s: %w", res.Type, res.ID, err)
		}

		withMasks, booking, err := s.withSlotMasks(ctx, events)
		if err != nil {
			return nil, fmt.Errorf("schedule.detect %s %s: %w", res.Type, res.ID, err)
		}

		instances, err := recurrence.ExpandSet(withMasks, hull.Start, hull.End, s.cfg.MaxOccurrences)
		if err != nil {
			return nil, fmt.Errorf("schedule.detect expand %s %s: %w", res.Type, res.ID, err)
		}
		for _, inst := range instances {
			if _, ok := booking[inst.Event.ID]; !ok {
				continue
			}
			bookings = append(bookings, conflict.Booking{
				Resource: res,
				Event:    inst.Event,
				Interval: inst.Occurrence.Interval(),
			})
		}
	}

	var out []domain.ConflictEntry
	for _, c := range candidates {
		out = append(out, conflict.Detect(c, bookings, exclude)...)
	}
	return out, nil
}

// withSlotMasks adds the detached occurrences of every fetched series head.
// A detached occurrence hides the slot it replaces even when it was moved to
// another resource or out of the window, so it must take part in expansion.
// The returned set holds the ids of the events that were fetched themselves.
func (s *Service) withSlotMasks(ctx context.Context, events []domain.Event) ([]domain.Event, map[uuid.UUID]struct{}, error) {
	fetched := make(map[uuid.UUID]struct{}, len(events))
	var heads []uuid.UUID
	for i := range events {
		fetched[events[i].ID] = struct{}{}
		if events[i].IsSeriesHead() {
			heads = append(heads, events[i].ID)
		}
	}
	if len(heads) == 0 {
		return events, fetched, nil
	}

	detached, err := s.events.ListDetached(ctx, heads)
	if err != nil {
		return nil, nil, fmt.Errorf("list detached: %w", err)
	}

	out := append([]domain.Event(nil), events...)
	for _, d := range detached {
		if _, ok := fetched[d.ID]; !ok {
			out = append(out, d)
		}
	}
	return out, fetched, nil
}

func labelOr(labels map[uuid.UUID]string, id uuid.UUID) string {
	if l, ok := labels[id]; ok && l != "" {
		return l
	}
	return id.String()
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
