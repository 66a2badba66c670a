package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule"
)

// scheduleService is the part of schedule.Service the event endpoints drive.
type scheduleService interface {
	CreateEvent(ctx context.Context, input schedule.CreateEventInput) (*schedule.CreateEventResult, error)
	ExpandEvent(ctx context.Context, eventID uuid.UUID, window schedule.WindowInput) ([]domain.Occurrence, error)
	CheckConflicts(ctx context.Context, input schedule.CheckConflictsInput) ([]domain.ConflictEntry, error)
	ProposeMove(ctx context.Context, input schedule.MoveInput) (*domain.PendingMove, error)
	SelectScope(pm *domain.PendingMove, scope domain.MutationScope) error
	ResolveMove(ctx context.Context, pm *domain.PendingMove) (*domain.MoveResolution, error)
	CommitMove(ctx context.Context, pm *domain.PendingMove) (*schedule.CommitResult, error)
}

// EventHandler serves event REST endpoints.
type EventHandler struct {
	svc scheduleService
	log *slog.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(svc scheduleService, logger *slog.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: logger.With("handler", "events")}
}

type createEventRequest struct {
	CalendarID         string             `json:"calendarId"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Location           string             `json:"location"`
	Timezone           string             `json:"timezone"`
	Start              string             `json:"start"`
	End                string             `json:"end"`
	AllDay             bool               `json:"allDay"`
	Status             string             `json:"status"`
	RoomID             *string            `json:"roomId"`
	ParticipantIDs     []string           `json:"participantIds"`
	GroupIDs           []string           `json:"groupIds"`
	Recurrence         *recurrenceRequest `json:"recurrence"`
	RequireNoConflicts bool               `json:"requireNoConflicts"`
}

type createEventResponse struct {
	Event     eventResponse      `json:"event"`
	Conflicts []conflictResponse `json:"conflicts"`
}

type checkConflictsRequest struct {
	Start          string   `json:"start"`
	End            string   `json:"end"`
	RoomID         *string  `json:"roomId"`
	ParticipantIDs []string `json:"participantIds"`
	GroupIDs       []string `json:"groupIds"`
	ExcludeEventID *string  `json:"excludeEventId"`
}

type moveRequest struct {
	OccurrenceIndex int    `json:"occurrenceIndex"`
	NewStart        string `json:"newStart"`
	NewEnd          string `json:"newEnd"`
	Scope           string `json:"scope"`
}

type moveResponse struct {
	Committed    bool            `json:"committed"`
	Scope        string          `json:"scope"`
	DeltaSeconds int64           `json:"deltaSeconds"`
	Events       []eventResponse `json:"events"`
}

// Create handles POST /api/events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	result, err := h.svc.CreateEvent(r.Context(), input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createEventResponse{
		Event:     toEventResponse(*result.Event),
		Conflicts: toConflictResponses(result.Conflicts),
	})
}

// Occurrences handles GET /api/events/{id}/occurrences?from=&to=.
func (h *EventHandler) Occurrences(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	window, err := parseWindow(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	occs, err := h.svc.ExpandEvent(r.Context(), eventID, window)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"occurrences": toOccurrenceResponses(occs)})
}

// CheckConflicts handles POST /api/conflicts.
func (h *EventHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	var req checkConflictsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	entries, err := h.svc.CheckConflicts(r.Context(), input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"conflicts": toConflictResponses(entries)})
}

// Move handles POST /api/events/{id}/move. The move is proposed, scoped and
// committed in one request; with dry_run=true it is only resolved.
func (h *EventHandler) Move(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	dryRun := r.URL.Query().Get("dry_run") == "true"

	var p instantFields
	newStart := p.parse("newStart", req.NewStart)
	newEnd := p.parse("newEnd", req.NewEnd)
	if err := p.err(); err != nil {
		h.handleError(w, r, err)
		return
	}

	ctx := r.Context()
	pm, err := h.svc.ProposeMove(ctx, schedule.MoveInput{
		EventID:         eventID,
		OccurrenceIndex: req.OccurrenceIndex,
		NewStart:        newStart,
		NewEnd:          newEnd,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	scope := domain.MutationScope(req.Scope)
	if scope == "" {
		if pm.Event.SeriesID() != uuid.Nil {
			h.handleError(w, r, domain.NewValidationError("scope", "required for recurring events"))
			return
		}
		scope = domain.MutationScopeSingle
	}
	if err := h.svc.SelectScope(pm, scope); err != nil {
		h.handleError(w, r, err)
		return
	}

	if dryRun {
		res, err := h.svc.ResolveMove(ctx, pm)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, moveResponse{
			Scope:        res.Scope.String(),
			DeltaSeconds: int64(res.Delta / time.Second),
			Events:       toEventResponses(res.Mutations),
		})
		return
	}

	committed, err := h.svc.CommitMove(ctx, pm)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, moveResponse{
		Committed:    true,
		Scope:        committed.Resolution.Scope.String(),
		DeltaSeconds: int64(committed.Resolution.Delta / time.Second),
		Events:       toEventResponses(committed.Events),
	})
}

func (h *EventHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	handleError(h.log, w, r, err)
}

func (req createEventRequest) toInput() (schedule.CreateEventInput, error) {
	calendarID, err := uuid.Parse(req.CalendarID)
	if err != nil {
		return schedule.CreateEventInput{}, domain.NewValidationError("calendarId", "invalid id")
	}
	roomID, err := parseOptionalID("roomId", req.RoomID)
	if err != nil {
		return schedule.CreateEventInput{}, err
	}
	participants, err := parseIDs("participantIds", req.ParticipantIDs)
	if err != nil {
		return schedule.CreateEventInput{}, err
	}
	groups, err := parseIDs("groupIds", req.GroupIDs)
	if err != nil {
		return schedule.CreateEventInput{}, err
	}
	rule, err := req.Recurrence.toDomain()
	if err != nil {
		return schedule.CreateEventInput{}, err
	}

	return schedule.CreateEventInput{
		CalendarID:         calendarID,
		Title:              req.Title,
		Description:        req.Description,
		Location:           req.Location,
		Timezone:           req.Timezone,
		Start:              req.Start,
		End:                req.End,
		AllDay:             req.AllDay,
		Status:             domain.EventStatus(req.Status),
		RoomID:             roomID,
		ParticipantIDs:     participants,
		GroupIDs:           groups,
		Recurrence:         rule,
		RequireNoConflicts: req.RequireNoConflicts,
	}, nil
}

func (req checkConflictsRequest) toInput() (schedule.CheckConflictsInput, error) {
	var p instantFields
	start := p.parse("start", req.Start)
	end := p.parse("end", req.End)
	if err := p.err(); err != nil {
		return schedule.CheckConflictsInput{}, err
	}

	roomID, err := parseOptionalID("roomId", req.RoomID)
	if err != nil {
		return schedule.CheckConflictsInput{}, err
	}
	participants, err := parseIDs("participantIds", req.ParticipantIDs)
	if err != nil {
		return schedule.CheckConflictsInput{}, err
	}
	groups, err := parseIDs("groupIds", req.GroupIDs)
	if err != nil {
		return schedule.CheckConflictsInput{}, err
	}
	exclude, err := parseOptionalID("excludeEventId", req.ExcludeEventID)
	if err != nil {
		return schedule.CheckConflictsInput{}, err
	}

	input := schedule.CheckConflictsInput{
		Candidate:      domain.Interval{Start: start, End: end},
		RoomID:         roomID,
		ParticipantIDs: participants,
		GroupIDs:       groups,
	}
	if exclude != nil {
		input.ExcludeEventID = *exclude
	}
	return input, nil
}
