package app

import (
	"net/http"

	"github.com/heartmarshall/teamcal-backend/internal/transport/middleware"
	"github.com/heartmarshall/teamcal-backend/internal/transport/rest"
)

type handlers struct {
	health    *rest.HealthHandler
	events    *rest.EventHandler
	calendars *rest.CalendarHandler
}

// newRouter registers every endpoint. Probes are served bare; api wraps the
// /api routes.
func newRouter(h handlers, api middleware.Middleware) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.health.Live)
	mux.HandleFunc("GET /ready", h.health.Ready)
	mux.HandleFunc("GET /health", h.health.Health)

	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, api(fn))
	}
	route("POST /api/events", h.events.Create)
	route("GET /api/events/{id}/occurrences", h.events.Occurrences)
	route("POST /api/events/{id}/move", h.events.Move)
	route("POST /api/conflicts", h.events.CheckConflicts)
	route("GET /api/calendars/{id}/occurrences", h.calendars.Occurrences)
	route("GET /api/calendars/{id}/export.ics", h.calendars.Export)

	return mux
}
