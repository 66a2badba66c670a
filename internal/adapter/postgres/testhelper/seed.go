package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with a unique email and display name.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	user := domain.User{
		ID:          uuid.New(),
		Email:       "user-" + suffix + "@example.com",
		DisplayName: "User " + suffix,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, display_name, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.DisplayName, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return user
}

// SeedCalendar creates a calendar in the given timezone and makes each user in
// members a member with the mapped role.
func SeedCalendar(t *testing.T, pool *pgxpool.Pool, timezone string, members map[uuid.UUID]domain.CalendarRole) domain.Calendar {
	t.Helper()
	ctx := context.Background()

	cal := domain.Calendar{
		ID:        uuid.New(),
		Name:      "Calendar " + uniqueSuffix(),
		Timezone:  timezone,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO calendars (id, name, timezone, created_at) VALUES ($1, $2, $3, $4)`,
		cal.ID, cal.Name, cal.Timezone, cal.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCalendar insert calendar: %v", err)
	}

	for userID, role := range members {
		_, err := pool.Exec(ctx,
			`INSERT INTO calendar_members (calendar_id, user_id, role) VALUES ($1, $2, $3)`,
			cal.ID, userID, string(role),
		)
		if err != nil {
			t.Fatalf("testhelper: SeedCalendar insert member: %v", err)
		}
	}
	return cal
}

// SeedRoom creates a bookable room.
func SeedRoom(t *testing.T, pool *pgxpool.Pool) domain.Room {
	t.Helper()

	room := domain.Room{
		ID:       uuid.New(),
		Name:     "Room " + uniqueSuffix(),
		Capacity: 8,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO rooms (id, name, capacity) VALUES ($1, $2, $3)`,
		room.ID, room.Name, room.Capacity,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRoom: %v", err)
	}
	return room
}

// SeedGroup creates a group with the given members.
func SeedGroup(t *testing.T, pool *pgxpool.Pool, memberIDs ...uuid.UUID) domain.Group {
	t.Helper()
	ctx := context.Background()

	group := domain.Group{
		ID:        uuid.New(),
		Name:      "Group " + uniqueSuffix(),
		MemberIDs: memberIDs,
	}

	if _, err := pool.Exec(ctx, `INSERT INTO groups (id, name) VALUES ($1, $2)`, group.ID, group.Name); err != nil {
		t.Fatalf("testhelper: SeedGroup insert group: %v", err)
	}
	for _, userID := range memberIDs {
		_, err := pool.Exec(ctx,
			`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`,
			group.ID, userID,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedGroup insert member: %v", err)
		}
	}
	return group
}
