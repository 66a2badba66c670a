package domain

// Frequency is the repetition unit of a recurrence rule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) String() string { return string(f) }

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusTentative EventStatus = "tentative"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) String() string { return string(s) }

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusConfirmed, EventStatusTentative, EventStatusCancelled:
		return true
	}
	return false
}

// Blocks reports whether an event in this status occupies its resources.
func (s EventStatus) Blocks() bool {
	return s != EventStatusCancelled
}

// ConflictType identifies the kind of resource a conflict was found on.
type ConflictType string

const (
	ConflictTypeRoom        ConflictType = "room"
	ConflictTypeParticipant ConflictType = "participant"
)

func (t ConflictType) String() string { return string(t) }

func (t ConflictType) IsValid() bool {
	switch t {
	case ConflictTypeRoom, ConflictTypeParticipant:
		return true
	}
	return false
}

// rank orders rooms before participants.
func (t ConflictType) rank() int {
	if t == ConflictTypeRoom {
		return 0
	}
	return 1
}

// MutationScope selects how a move applies to a recurring event.
type MutationScope string

const (
	MutationScopeSingle MutationScope = "single"
	MutationScopeSeries MutationScope = "series"
)

func (s MutationScope) String() string { return string(s) }

func (s MutationScope) IsValid() bool {
	switch s {
	case MutationScopeSingle, MutationScopeSeries:
		return true
	}
	return false
}

// MoveState is the position of a PendingMove in its confirmation flow.
type MoveState string

const (
	MoveStateProposed      MoveState = "proposed"
	MoveStateScopeSelected MoveState = "scope_selected"
	MoveStateCommitted     MoveState = "committed"
	MoveStateCancelled     MoveState = "cancelled"
)

func (s MoveState) String() string { return string(s) }

// IsFinal reports whether no further transition is allowed.
func (s MoveState) IsFinal() bool {
	return s == MoveStateCommitted || s == MoveStateCancelled
}

// CalendarRole is a user's membership level on a calendar.
type CalendarRole string

const (
	CalendarRoleOwner  CalendarRole = "owner"
	CalendarRoleEditor CalendarRole = "editor"
	CalendarRoleViewer CalendarRole = "viewer"
)

func (r CalendarRole) String() string { return string(r) }

func (r CalendarRole) IsValid() bool {
	switch r {
	case CalendarRoleOwner, CalendarRoleEditor, CalendarRoleViewer:
		return true
	}
	return false
}

// CanEdit reports whether the role may create or move events.
func (r CalendarRole) CanEdit() bool {
	return r == CalendarRoleOwner || r == CalendarRoleEditor
}
