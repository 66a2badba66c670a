package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/recurrence"
)

type occurrenceLister interface {
	ListOccurrences(ctx context.Context, calendarID uuid.UUID, window schedule.WindowInput) ([]recurrence.Instance, error)
}

type calendarReader interface {
	GetByID(ctx context.Context, calendarID uuid.UUID) (*domain.Calendar, error)
}

type icsWriter interface {
	Write(w io.Writer, cal domain.Calendar, instances []recurrence.Instance) error
}

// CalendarHandler serves calendar-wide listings and the iCalendar export.
type CalendarHandler struct {
	svc       occurrenceLister
	calendars calendarReader
	ics       icsWriter
	log       *slog.Logger
}

// NewCalendarHandler creates a CalendarHandler.
func NewCalendarHandler(svc occurrenceLister, calendars calendarReader, ics icsWriter, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{
		svc:       svc,
		calendars: calendars,
		ics:       ics,
		log:       logger.With("handler", "calendars"),
	}
}

// Occurrences handles GET /api/calendars/{id}/occurrences?from=&to=.
func (h *CalendarHandler) Occurrences(w http.ResponseWriter, r *http.Request) {
	calendarID, window, err := calendarWindow(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	instances, err := h.svc.ListOccurrences(r.Context(), calendarID, window)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"occurrences": toInstanceResponses(instances)})
}

// Export handles GET /api/calendars/{id}/export.ics?from=&to=.
func (h *CalendarHandler) Export(w http.ResponseWriter, r *http.Request) {
	calendarID, window, err := calendarWindow(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	// Listing first: it performs the membership check.
	instances, err := h.svc.ListOccurrences(r.Context(), calendarID, window)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	cal, err := h.calendars.GetByID(r.Context(), calendarID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.ics.Write(&buf, *cal, instances); err != nil {
		handleError(h.log, w, r, fmt.Errorf("rest.Export write ics: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}

func calendarWindow(r *http.Request) (uuid.UUID, schedule.WindowInput, error) {
	calendarID, err := pathID(r, "id")
	if err != nil {
		return uuid.Nil, schedule.WindowInput{}, err
	}
	window, err := parseWindow(r)
	if err != nil {
		return uuid.Nil, schedule.WindowInput{}, err
	}
	return calendarID, window, nil
}
