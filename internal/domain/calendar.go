package domain

import (
	"time"

	"github.com/google/uuid"
)

// Calendar is a shared team calendar that owns events.
type Calendar struct {
	ID        uuid.UUID
	Name      string
	Timezone  string
	CreatedAt time.Time
}

// Room is a bookable meeting room.
type Room struct {
	ID       uuid.UUID
	Name     string
	Capacity int
}

// User is a calendar member and event participant.
type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// Group is a named set of users invited together.
type Group struct {
	ID        uuid.UUID
	Name      string
	MemberIDs []uuid.UUID
}
