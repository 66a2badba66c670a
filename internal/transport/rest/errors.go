package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule"
)

type errorResponse struct {
	Error     string             `json:"error"`
	Fields    []fieldError       `json:"fields,omitempty"`
	Conflicts []conflictResponse `json:"conflicts,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// handleError maps domain errors to HTTP statuses. Anything unmapped is
// logged and reported as 500 without details.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var (
		conflictErr *schedule.ConflictError
		validErr    *domain.ValidationError
		ruleErr     *domain.RuleError
	)

	switch {
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:     "conflicts",
			Conflicts: toConflictResponses(conflictErr.Conflicts),
		})
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &validErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation error",
			Fields: toFieldErrors(validErr.Errors),
		})
	case errors.As(err, &ruleErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  domain.ErrInvalidRecurrenceRule.Error(),
			Fields: toFieldErrors(ruleErr.Fields),
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "record changed or is being changed, reload and retry")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func toFieldErrors(errs []domain.FieldError) []fieldError {
	out := make([]fieldError, len(errs))
	for i, e := range errs {
		out[i] = fieldError{Field: e.Field, Message: e.Message}
	}
	return out
}
