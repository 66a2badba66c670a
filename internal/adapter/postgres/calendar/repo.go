// Package calendar implements calendar membership and the room/user directory
// using PostgreSQL.
package calendar

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/teamcal-backend/internal/adapter/postgres"
	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

// Repo provides calendar, membership and directory lookups.
type Repo struct {
	db postgres.Querier
}

// New creates a new calendar repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ---------------------------------------------------------------------------
// Calendars
// ---------------------------------------------------------------------------

const getCalendarSQL = `SELECT id, name, timezone, created_at FROM calendars WHERE id = $1`

// GetByID returns a calendar by primary key.
func (r *Repo) GetByID(ctx context.Context, calendarID uuid.UUID) (*domain.Calendar, error) {
	var c domain.Calendar
	err := postgres.QuerierFromCtx(ctx, r.db).
		QueryRow(ctx, getCalendarSQL, calendarID).
		Scan(&c.ID, &c.Name, &c.Timezone, &c.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "calendar", calendarID)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

const memberRoleSQL = `SELECT role FROM calendar_members WHERE calendar_id = $1 AND user_id = $2`

// MemberRole returns the role userID holds in calendarID.
// Returns domain.ErrNotFound if the user is not a member.
func (r *Repo) MemberRole(ctx context.Context, calendarID, userID uuid.UUID) (domain.CalendarRole, error) {
	var role string
	err := postgres.QuerierFromCtx(ctx, r.db).
		QueryRow(ctx, memberRoleSQL, calendarID, userID).
		Scan(&role)
	if err != nil {
		return "", postgres.MapError(err, "membership of user "+userID.String()+" in calendar", calendarID)
	}
	return domain.CalendarRole(role), nil
}

// ---------------------------------------------------------------------------
// Directory
// ---------------------------------------------------------------------------

// RoomLabels returns room names keyed by id. Unknown ids are omitted.
func (r *Repo) RoomLabels(ctx context.Context, roomIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	labels, err := r.labels(ctx, "rooms", "name", roomIDs)
	if err != nil {
		return nil, fmt.Errorf("room labels: %w", err)
	}
	return labels, nil
}

// UserLabels returns user display names keyed by id. Unknown ids are omitted.
func (r *Repo) UserLabels(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	labels, err := r.labels(ctx, "users", "display_name", userIDs)
	if err != nil {
		return nil, fmt.Errorf("user labels: %w", err)
	}
	return labels, nil
}

func (r *Repo) labels(ctx context.Context, table, column string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	result := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	sql, args, err := psql.Select("id", column).
		From(table).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", table, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    uuid.UUID
			label string
		)
		if err := rows.Scan(&id, &label); err != nil {
			return nil, err
		}
		result[id] = label
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
