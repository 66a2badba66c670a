package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/recurrence"
)

type recurrenceDTO struct {
	Frequency string     `json:"frequency"`
	Interval  int        `json:"interval"`
	Count     *int       `json:"count,omitempty"`
	Until     *time.Time `json:"until,omitempty"`
}

// recurrenceRequest is the rule as written by clients. An absent interval
// means 1; an explicit 0 is passed on and rejected by rule validation.
type recurrenceRequest struct {
	Frequency string  `json:"frequency"`
	Interval  *int    `json:"interval"`
	Count     *int    `json:"count"`
	Until     *string `json:"until"`
}

func (d *recurrenceRequest) toDomain() (*domain.RecurrenceRule, error) {
	if d == nil {
		return nil, nil
	}
	interval := 1
	if d.Interval != nil {
		interval = *d.Interval
	}

	var p instantFields
	until := p.parseOptional("recurrence.until", d.Until)
	if err := p.err(); err != nil {
		return nil, err
	}

	return &domain.RecurrenceRule{
		Frequency: domain.Frequency(d.Frequency),
		Interval:  interval,
		Count:     d.Count,
		Until:     until,
	}, nil
}

func toRecurrenceDTO(r *domain.RecurrenceRule) *recurrenceDTO {
	if r == nil {
		return nil
	}
	return &recurrenceDTO{
		Frequency: r.Frequency.String(),
		Interval:  r.Interval,
		Count:     r.Count,
		Until:     r.Until,
	}
}

type eventResponse struct {
	ID                 string         `json:"id"`
	CalendarID         string         `json:"calendarId"`
	RoomID             *string        `json:"roomId,omitempty"`
	Title              string         `json:"title"`
	Description        string         `json:"description,omitempty"`
	Location           string         `json:"location,omitempty"`
	Timezone           string         `json:"timezone"`
	Start              time.Time      `json:"start"`
	End                time.Time      `json:"end"`
	AllDay             bool           `json:"allDay"`
	Status             string         `json:"status"`
	Recurrence         *recurrenceDTO `json:"recurrence,omitempty"`
	RecurrenceParentID *string        `json:"recurrenceParentId,omitempty"`
	OriginalStart      *time.Time     `json:"originalStart,omitempty"`
	ParticipantIDs     []string       `json:"participantIds"`
	GroupIDs           []string       `json:"groupIds"`
	Version            int            `json:"version"`
}

func toEventResponse(ev domain.Event) eventResponse {
	return eventResponse{
		ID:                 ev.ID.String(),
		CalendarID:         ev.CalendarID.String(),
		RoomID:             idPtr(ev.RoomID),
		Title:              ev.Title,
		Description:        ev.Description,
		Location:           ev.Location,
		Timezone:           ev.Timezone,
		Start:              ev.StartsAt,
		End:                ev.EndsAt,
		AllDay:             ev.AllDay,
		Status:             ev.Status.String(),
		Recurrence:         toRecurrenceDTO(ev.Recurrence),
		RecurrenceParentID: idPtr(ev.RecurrenceParentID),
		OriginalStart:      ev.OriginalStart,
		ParticipantIDs:     idStrings(ev.ParticipantIDs),
		GroupIDs:           idStrings(ev.GroupIDs),
		Version:            ev.Version,
	}
}

func toEventResponses(events []domain.Event) []eventResponse {
	out := make([]eventResponse, len(events))
	for i, ev := range events {
		out[i] = toEventResponse(ev)
	}
	return out
}

type occurrenceResponse struct {
	EventID string    `json:"eventId"`
	Index   int       `json:"index"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

func toOccurrenceResponses(occs []domain.Occurrence) []occurrenceResponse {
	out := make([]occurrenceResponse, len(occs))
	for i, o := range occs {
		out[i] = occurrenceResponse{
			EventID: o.EventID.String(),
			Index:   o.Index,
			Start:   o.Start,
			End:     o.End,
		}
	}
	return out
}

// instanceResponse is one visible occurrence in a calendar listing.
type instanceResponse struct {
	EventID  string    `json:"eventId"`
	SeriesID *string   `json:"seriesId,omitempty"`
	Index    int       `json:"index"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"allDay"`
	Status   string    `json:"status"`
	RoomID   *string   `json:"roomId,omitempty"`
	Version  int       `json:"version"`
}

func toInstanceResponses(instances []recurrence.Instance) []instanceResponse {
	out := make([]instanceResponse, len(instances))
	for i, inst := range instances {
		ev := inst.Event
		var seriesID *string
		if id := ev.SeriesID(); id != uuid.Nil {
			s := id.String()
			seriesID = &s
		}
		out[i] = instanceResponse{
			EventID:  ev.ID.String(),
			SeriesID: seriesID,
			Index:    inst.Occurrence.Index,
			Title:    ev.Title,
			Start:    inst.Occurrence.Start,
			End:      inst.Occurrence.End,
			AllDay:   ev.AllDay,
			Status:   ev.Status.String(),
			RoomID:   idPtr(ev.RoomID),
			Version:  ev.Version,
		}
	}
	return out
}

type conflictResponse struct {
	Type          string    `json:"type"`
	ResourceID    string    `json:"resourceId"`
	ResourceLabel string    `json:"resourceLabel"`
	SlotStart     time.Time `json:"slotStart"`
	SlotEnd       time.Time `json:"slotEnd"`
	EventIDs      []string  `json:"eventIds"`
}

func toConflictResponses(entries []domain.ConflictEntry) []conflictResponse {
	out := make([]conflictResponse, len(entries))
	for i, c := range entries {
		ids := make([]string, len(c.Events))
		for j, ev := range c.Events {
			ids[j] = ev.ID.String()
		}
		out[i] = conflictResponse{
			Type:          c.Type.String(),
			ResourceID:    c.ResourceID.String(),
			ResourceLabel: c.ResourceLabel,
			SlotStart:     c.SlotStart,
			SlotEnd:       c.SlotEnd,
			EventIDs:      ids,
		}
	}
	return out
}

func idPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// parseIDs turns request ids into uuids. field names the offending field.
func parseIDs(field string, raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, domain.NewValidationError(field, "invalid id "+s)
		}
		out = append(out, id)
	}
	return out, nil
}

func parseOptionalID(field string, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "invalid id")
	}
	return &id, nil
}
