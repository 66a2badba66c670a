package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func TestRepo_GetByID(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	calendarID := uuid.New()
	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, name, timezone, created_at FROM calendars WHERE id = \$1`).
		WithArgs(calendarID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "timezone", "created_at"}).
			AddRow(calendarID, "Platform team", "Europe/Berlin", created))

	c, err := repo.GetByID(context.Background(), calendarID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Platform team" || c.Timezone != "Europe/Berlin" {
		t.Errorf("calendar: got %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRepo_MemberRole(t *testing.T) {
	t.Parallel()

	calendarID, userID := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		setup    func(mock pgxmock.PgxPoolIface)
		wantRole domain.CalendarRole
		wantErr  error
	}{
		{
			name: "editor",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT role FROM calendar_members`).
					WithArgs(calendarID, userID).
					WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow("editor"))
			},
			wantRole: domain.CalendarRoleEditor,
		},
		{
			name: "not a member",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT role FROM calendar_members`).
					WithArgs(calendarID, userID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMockRepo(t)
			tt.setup(mock)

			role, err := repo.MemberRole(context.Background(), calendarID, userID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got: %v", tt.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if role != tt.wantRole {
					t.Errorf("role: got %s, want %s", role, tt.wantRole)
				}
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestRepo_Labels(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	roomID, anna := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT id, name FROM rooms WHERE id IN \(\$1,\$2\)`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(roomID, "Aquarium"))
	mock.ExpectQuery(`SELECT id, display_name FROM users WHERE id IN \(\$1\)`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "display_name"}).AddRow(anna, "Anna"))

	rooms, err := repo.RoomLabels(context.Background(), []uuid.UUID{roomID, uuid.New()})
	if err != nil {
		t.Fatalf("RoomLabels: %v", err)
	}
	if len(rooms) != 1 || rooms[roomID] != "Aquarium" {
		t.Errorf("rooms: got %v", rooms)
	}

	users, err := repo.UserLabels(context.Background(), []uuid.UUID{anna})
	if err != nil {
		t.Fatalf("UserLabels: %v", err)
	}
	if users[anna] != "Anna" {
		t.Errorf("users: got %v", users)
	}

	empty, err := repo.UserLabels(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty lookup: got %v, %v", empty, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
