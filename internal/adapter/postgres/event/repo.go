// Package event implements the event repository using PostgreSQL.
// Recurrence rules are stored as RFC 5545 RRULE text; participants and groups
// live in the event_participants and event_groups join tables.
package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/teamcal-backend/internal/adapter/postgres"
	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/recurrence"
)

// Repo provides event persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new event repository. db is usually a *pgxpool.Pool;
// a transaction stored in the context takes precedence.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var eventColumns = []string{
	"e.id", "e.calendar_id", "e.room_id", "e.title", "e.description", "e.location", "e.timezone",
	"e.starts_at", "e.ends_at", "e.all_day", "e.status", "e.rrule",
	"e.recurrence_parent_id", "e.original_start",
	"e.version", "e.created_at", "e.updated_at",
	"COALESCE((SELECT array_agg(p.user_id ORDER BY p.user_id) FROM event_participants p WHERE p.event_id = e.id), '{}'::uuid[]) AS participant_ids",
	"COALESCE((SELECT array_agg(g.group_id ORDER BY g.group_id) FROM event_groups g WHERE g.event_id = e.id), '{}'::uuid[]) AS group_ids",
}

func selectEvents() squirrel.SelectBuilder {
	return psql.Select(eventColumns...).From("events e")
}

// occupies matches non-recurring events overlapping the window and series
// heads starting before its end. Heads are expanded by the caller.
func occupies(windowStart, windowEnd time.Time) squirrel.Sqlizer {
	return squirrel.Or{
		squirrel.And{
			squirrel.Expr("e.rrule IS NULL"),
			squirrel.Lt{"e.starts_at": windowEnd},
			squirrel.Gt{"e.ends_at": windowStart},
		},
		squirrel.And{
			squirrel.Expr("e.rrule IS NOT NULL"),
			squirrel.Lt{"e.starts_at": windowEnd},
		},
	}
}

// books matches events that book resourceID as their room, as a direct
// participant or through one of their groups.
func books(resourceID uuid.UUID) squirrel.Sqlizer {
	return squirrel.Or{
		squirrel.Eq{"e.room_id": resourceID},
		squirrel.Expr("EXISTS (SELECT 1 FROM event_participants p WHERE p.event_id = e.id AND p.user_id = ?)", resourceID),
		squirrel.Expr(`EXISTS (SELECT 1 FROM event_groups g JOIN group_members m ON m.group_id = g.group_id
			WHERE g.event_id = e.id AND m.user_id = ?)`, resourceID),
	}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an event by primary key.
func (r *Repo) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	query := selectEvents().Where(squirrel.Eq{"e.id": eventID})

	ev, err := r.getOne(ctx, query)
	if err != nil {
		return nil, postgres.MapError(err, "event", eventID)
	}
	return ev, nil
}

// FetchSeriesHead returns the series head a detached occurrence was split from.
// Returns domain.ErrNotFound if eventID is not detached or its head is gone.
func (r *Repo) FetchSeriesHead(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	query := selectEvents().
		Where("e.id = (SELECT d.recurrence_parent_id FROM events d WHERE d.id = ?)", eventID).
		Where("e.rrule IS NOT NULL")

	ev, err := r.getOne(ctx, query)
	if err != nil {
		return nil, postgres.MapError(err, "series head of event", eventID)
	}
	return ev, nil
}

// FetchEventsForResource returns the events booking resourceID that may occupy
// the window, ordered by start.
func (r *Repo) FetchEventsForResource(ctx context.Context, resourceID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Event, error) {
	query := selectEvents().
		Where(books(resourceID)).
		Where(occupies(windowStart, windowEnd)).
		OrderBy("e.starts_at", "e.id")

	events, err := r.list(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch events for resource %s: %w", resourceID, err)
	}
	return events, nil
}

// ListByCalendar returns the events of a calendar that may occupy the window.
func (r *Repo) ListByCalendar(ctx context.Context, calendarID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Event, error) {
	query := selectEvents().
		Where(squirrel.Eq{"e.calendar_id": calendarID}).
		Where(occupies(windowStart, windowEnd)).
		OrderBy("e.starts_at", "e.id")

	events, err := r.list(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events of calendar %s: %w", calendarID, err)
	}
	return events, nil
}

// ListDetached returns the detached occurrences of the given series heads,
// ordered by the slot they replace.
func (r *Repo) ListDetached(ctx context.Context, seriesIDs []uuid.UUID) ([]domain.Event, error) {
	if len(seriesIDs) == 0 {
		return []domain.Event{}, nil
	}

	query := selectEvents().
		Where(squirrel.Eq{"e.recurrence_parent_id": seriesIDs}).
		OrderBy("e.recurrence_parent_id", "e.original_start")

	events, err := r.list(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list detached occurrences: %w", err)
	}
	return events, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new event with its participants and groups. It must run
// inside a transaction so the join rows land with the event.
func (r *Repo) Create(ctx context.Context, ev *domain.Event) (*domain.Event, error) {
	rule, err := encodeRule(ev.Recurrence)
	if err != nil {
		return nil, err
	}

	saved := ev.Clone()
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}

	sql, args, err := psql.Insert("events").
		Columns(
			"id", "calendar_id", "room_id", "title", "description", "location", "timezone",
			"starts_at", "ends_at", "all_day", "status", "rrule", "recurrence_parent_id", "original_start",
		).
		Values(
			saved.ID, saved.CalendarID, saved.RoomID, saved.Title, saved.Description, saved.Location, saved.Timezone,
			saved.StartsAt.UTC(), saved.EndsAt.UTC(), saved.AllDay, string(saved.Status), rule,
			saved.RecurrenceParentID, utcPtr(saved.OriginalStart),
		).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert event: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := q.QueryRow(ctx, sql, args...).Scan(&saved.Version, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return nil, postgres.MapError(err, "event", saved.ID)
	}

	if err := r.insertLinks(ctx, q, saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Update writes ev if the stored version still equals ev.Version and bumps
// the version. Returns domain.ErrConflict when the record changed meanwhile
// and domain.ErrNotFound when it is gone. Participants and groups are replaced.
func (r *Repo) Update(ctx context.Context, ev *domain.Event) (*domain.Event, error) {
	rule, err := encodeRule(ev.Recurrence)
	if err != nil {
		return nil, err
	}

	saved := ev.Clone()

	sql, args, err := psql.Update("events").
		SetMap(map[string]any{
			"calendar_id":          saved.CalendarID,
			"room_id":              saved.RoomID,
			"title":                saved.Title,
			"description":          saved.Description,
			"location":             saved.Location,
			"timezone":             saved.Timezone,
			"starts_at":            saved.StartsAt.UTC(),
			"ends_at":              saved.EndsAt.UTC(),
			"all_day":              saved.AllDay,
			"status":               string(saved.Status),
			"rrule":                rule,
			"recurrence_parent_id": saved.RecurrenceParentID,
			"original_start":       utcPtr(saved.OriginalStart),
		}).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": saved.ID, "version": saved.Version}).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update event: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	err = q.QueryRow(ctx, sql, args...).Scan(&saved.Version, &saved.CreatedAt, &saved.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.staleOrMissing(ctx, q, saved.ID, ev.Version)
	}
	if err != nil {
		return nil, postgres.MapError(err, "event", saved.ID)
	}

	for _, table := range []string{"event_participants", "event_groups"} {
		if _, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE event_id = $1", saved.ID); err != nil {
			return nil, postgres.MapError(err, "event", saved.ID)
		}
	}
	if err := r.insertLinks(ctx, q, saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

const eventExistsSQL = `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`

func (r *Repo) staleOrMissing(ctx context.Context, q postgres.Querier, eventID uuid.UUID, version int) error {
	var exists bool
	if err := q.QueryRow(ctx, eventExistsSQL, eventID).Scan(&exists); err != nil {
		return postgres.MapError(err, "event", eventID)
	}
	if !exists {
		return fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}
	return fmt.Errorf("event %s: version %d is stale: %w", eventID, version, domain.ErrConflict)
}

func (r *Repo) insertLinks(ctx context.Context, q postgres.Querier, ev domain.Event) error {
	links := []struct {
		table  string
		column string
		ids    []uuid.UUID
	}{
		{"event_participants", "user_id", ev.ParticipantIDs},
		{"event_groups", "group_id", ev.GroupIDs},
	}

	for _, l := range links {
		if len(l.ids) == 0 {
			continue
		}
		insert := psql.Insert(l.table).Columns("event_id", l.column).Suffix("ON CONFLICT DO NOTHING")
		for _, id := range l.ids {
			insert = insert.Values(ev.ID, id)
		}
		sql, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert %s: %w", l.table, err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return postgres.MapError(err, l.table, ev.ID)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func (r *Repo) getOne(ctx context.Context, query squirrel.SelectBuilder) (*domain.Event, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select event: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...)
	ev, err := scanEvent(row)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder) ([]domain.Event, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select events: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// scanEvent reads one row selected with eventColumns.
func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		ev     domain.Event
		status string
		rule   *string
	)

	err := row.Scan(
		&ev.ID, &ev.CalendarID, &ev.RoomID, &ev.Title, &ev.Description, &ev.Location, &ev.Timezone,
		&ev.StartsAt, &ev.EndsAt, &ev.AllDay, &status, &rule,
		&ev.RecurrenceParentID, &ev.OriginalStart,
		&ev.Version, &ev.CreatedAt, &ev.UpdatedAt,
		&ev.ParticipantIDs, &ev.GroupIDs,
	)
	if err != nil {
		return domain.Event{}, err
	}

	ev.Status = domain.EventStatus(status)
	ev.StartsAt = ev.StartsAt.UTC()
	ev.EndsAt = ev.EndsAt.UTC()
	ev.OriginalStart = utcPtr(ev.OriginalStart)

	if rule != nil {
		ev.Recurrence, err = recurrence.ParseRRule(*rule)
		if err != nil {
			return domain.Event{}, fmt.Errorf("event %s: stored rule: %w", ev.ID, err)
		}
	}
	return ev, nil
}

// ---------------------------------------------------------------------------
// Column helpers
// ---------------------------------------------------------------------------

func encodeRule(rule *domain.RecurrenceRule) (*string, error) {
	if rule == nil {
		return nil, nil
	}
	s, err := recurrence.FormatRRule(*rule)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
