package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/recurrence"
)

// ProposeMove loads the event and snapshots the occurrence being moved. Any
// member may propose; editing rights are checked on commit.
// Every later resolution of the returned move computes its delta against this
// snapshot, so resolving it again never compounds the shift.
func (s *Service) ProposeMove(ctx context.Context, input MoveInput) (*domain.PendingMove, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ev, err := s.events.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, fmt.Errorf("schedule.ProposeMove get event: %w", err)
	}
	if _, _, err := s.memberRole(ctx, ev.CalendarID); err != nil {
		return nil, err
	}

	occ, err := recurrence.OccurrenceAt(*ev, input.OccurrenceIndex)
	if err != nil {
		return nil, fmt.Errorf("schedule.ProposeMove occurrence: %w", err)
	}

	pm := &domain.PendingMove{
		ID:              uuid.New(),
		Event:           ev.Clone(),
		OccurrenceIndex: input.OccurrenceIndex,
		OriginalStart:   occ.Start,
		OriginalEnd:     occ.End,
		NewStart:        input.NewStart.UTC(),
		NewEnd:          input.NewEnd.UTC(),
		State:           domain.MoveStateProposed,
		ProposedAt:      s.now().UTC(),
	}

	if ev.IsDetached() {
		head, err := s.events.FetchSeriesHead(ctx, ev.ID)
		if err != nil {
			return nil, fmt.Errorf("schedule.ProposeMove series head: %w", err)
		}
		snapshot := head.Clone()
		pm.SeriesHead = &snapshot
	}

	if seriesID := ev.SeriesID(); seriesID != uuid.Nil {
		detached, err := s.events.ListDetached(ctx, []uuid.UUID{seriesID})
		if err != nil {
			return nil, fmt.Errorf("schedule.ProposeMove list detached: %w", err)
		}
		for _, d := range detached {
			pm.Detached = append(pm.Detached, d.Clone())
		}
	}

	return pm, nil
}

// SelectScope records the scope chosen by the user. The scope may be changed
// again until the move is committed or cancelled.
func (s *Service) SelectScope(pm *domain.PendingMove, scope domain.MutationScope) error {
	if pm == nil || pm.State.IsFinal() {
		return domain.ErrInvalidState
	}
	if !scope.IsValid() {
		return fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidScope, scope)
	}
	if scope == domain.MutationScopeSeries && !canShiftSeries(pm) {
		return fmt.Errorf("%w: event %s is not part of a series", domain.ErrInvalidScope, pm.Event.ID)
	}

	pm.Scope = scope
	pm.State = domain.MoveStateScopeSelected
	return nil
}

// ResolveMove computes the records a move would write. It reads nothing and
// writes nothing, so calling it any number of times with the same pending
// move yields the same resolution.
func (s *Service) ResolveMove(_ context.Context, pm *domain.PendingMove) (*domain.MoveResolution, error) {
	if pm == nil || pm.State.IsFinal() {
		return nil, domain.ErrInvalidState
	}
	if pm.State != domain.MoveStateScopeSelected {
		return nil, fmt.Errorf("%w: no scope selected", domain.ErrInvalidScope)
	}
	if !pm.NewStart.Before(pm.NewEnd) {
		return nil, domain.ErrInvalidInterval
	}

	switch pm.Scope {
	case domain.MutationScopeSingle:
		return resolveSingle(pm), nil
	case domain.MutationScopeSeries:
		return resolveSeries(pm)
	}
	return nil, fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidScope, pm.Scope)
}

// resolveSingle detaches the targeted occurrence of a series head, or moves a
// plain event or an already-detached occurrence in place.
func resolveSingle(pm *domain.PendingMove) *domain.MoveResolution {
	ev := pm.Event.Clone()

	if !ev.IsSeriesHead() {
		ev.StartsAt = pm.NewStart
		ev.EndsAt = pm.NewEnd
		return &domain.MoveResolution{
			Scope:     domain.MutationScopeSingle,
			Delta:     pm.Delta(),
			Mutations: []domain.Event{ev},
		}
	}

	headID := ev.ID
	original := pm.OriginalStart
	detached := ev
	detached.ID = uuid.New()
	detached.Recurrence = nil
	detached.RecurrenceParentID = &headID
	detached.OriginalStart = &original
	detached.StartsAt = pm.NewStart
	detached.EndsAt = pm.NewEnd
	detached.Version = 0
	detached.CreatedAt = pm.ProposedAt
	detached.UpdatedAt = pm.ProposedAt

	return &domain.MoveResolution{
		Scope:     domain.MutationScopeSingle,
		Delta:     pm.Delta(),
		Mutations: []domain.Event{detached},
	}
}

// resolveSeries re-anchors the series head by the delta between the dragged
// occurrence's snapshot and its new start. Until moves by the same delta, so
// a bounded series keeps its number of occurrences. Detached occurrences keep their
// own times; only their OriginalStart key is moved to the shifted slot with
// the same ordinal, so they keep replacing the right occurrence.
func resolveSeries(pm *domain.PendingMove) (*domain.MoveResolution, error) {
	var before domain.Event
	switch {
	case pm.Event.IsSeriesHead():
		before = pm.Event
	case pm.SeriesHead != nil:
		before = *pm.SeriesHead
	default:
		return nil, fmt.Errorf("%w: event %s is not part of a series", domain.ErrInvalidScope, pm.Event.ID)
	}

	delta := pm.Delta()
	head := before.Clone()
	head.StartsAt = head.StartsAt.Add(delta)
	head.EndsAt = head.StartsAt.Add(pm.NewEnd.Sub(pm.NewStart))
	if head.Recurrence != nil && head.Recurrence.Until != nil {
		until := head.Recurrence.Until.Add(delta)
		head.Recurrence.Until = &until
	}

	if err := head.Validate(); err != nil {
		return nil, err
	}

	mutations := []domain.Event{head}
	for _, d := range pm.Detached {
		if d.OriginalStart == nil {
			continue
		}
		idx, ok := recurrence.IndexOf(before, *d.OriginalStart)
		if !ok {
			continue
		}
		slot, err := recurrence.OccurrenceAt(head, idx)
		if err != nil || slot.Start.Equal(*d.OriginalStart) {
			continue
		}
		rekeyed := d.Clone()
		rekeyed.OriginalStart = &slot.Start
		mutations = append(mutations, rekeyed)
	}

	return &domain.MoveResolution{
		Scope:     domain.MutationScopeSeries,
		Delta:     delta,
		Mutations: mutations,
	}, nil
}

// CommitMove checks the caller's capability, resolves the move and writes the
// result in one transaction. Only one mutation per series runs at a time; a
// concurrent one fails with domain.ErrConflict, as does a write against a
// record that changed since the proposal.
func (s *Service) CommitMove(ctx context.Context, pm *domain.PendingMove) (*CommitResult, error) {
	if pm == nil || pm.State.IsFinal() {
		return nil, domain.ErrInvalidState
	}

	userID, err := s.authorize(ctx, pm.Event.CalendarID)
	if err != nil {
		return nil, err
	}

	res, err := s.ResolveMove(ctx, pm)
	if err != nil {
		return nil, err
	}

	release, err := s.lock.Acquire(ctx, guardKey(pm))
	if err != nil {
		s.log.WarnContext(ctx, "move refused: series busy",
			slog.String("event_id", pm.Event.ID.String()),
		)
		return nil, err
	}
	defer release()

	written := make([]domain.Event, 0, len(res.Mutations))
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for i := range res.Mutations {
			m := res.Mutations[i]

			var (
				saved    *domain.Event
				writeErr error
			)
			if m.Version == 0 {
				saved, writeErr = s.events.Create(txCtx, &m)
			} else {
				saved, writeErr = s.events.Update(txCtx, &m)
			}
			if writeErr != nil {
				return fmt.Errorf("write event %s: %w", m.ID, writeErr)
			}
			written = append(written, *saved)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("schedule.CommitMove: %w", err)
	}

	pm.State = domain.MoveStateCommitted

	s.log.InfoContext(ctx, "move committed",
		slog.String("user_id", userID.String()),
		slog.String("event_id", pm.Event.ID.String()),
		slog.String("scope", pm.Scope.String()),
		slog.Duration("delta", res.Delta),
	)

	return &CommitResult{Resolution: *res, Events: written}, nil
}

// CancelMove discards a pending move.
func (s *Service) CancelMove(pm *domain.PendingMove) error {
	if pm == nil || pm.State.IsFinal() {
		return domain.ErrInvalidState
	}
	pm.State = domain.MoveStateCancelled
	return nil
}

func canShiftSeries(pm *domain.PendingMove) bool {
	return pm.Event.IsSeriesHead() || (pm.Event.IsDetached() && pm.SeriesHead != nil)
}

func guardKey(pm *domain.PendingMove) string {
	if id := pm.Event.SeriesID(); id != uuid.Nil {
		return "series:" + id.String()
	}
	return "event:" + pm.Event.ID.String()
}
