package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/timegrid"
)

const maxBodyBytes = 1 << 20

var errBadBody = domain.NewValidationError("body", "invalid request body")

// decodeJSON reads one JSON object from the body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errBadBody
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errBadBody
	}
	return nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "invalid id")
	}
	return id, nil
}

// instantFields parses boundary timestamps and collects one field error per
// bad value. A timestamp without a zone is read as UTC.
type instantFields struct {
	errs []domain.FieldError
}

func (p *instantFields) parse(field, value string) time.Time {
	t, err := timegrid.ParseInstant(value)
	if err != nil {
		p.errs = append(p.errs, domain.FieldError{Field: field, Message: "must be a timestamp"})
		return time.Time{}
	}
	return t
}

func (p *instantFields) parseOptional(field string, value *string) *time.Time {
	if value == nil {
		return nil
	}
	t := p.parse(field, *value)
	return &t
}

func (p *instantFields) err() error {
	if len(p.errs) > 0 {
		return domain.NewValidationErrors(p.errs)
	}
	return nil
}

// parseWindow reads the from/to query parameters.
func parseWindow(r *http.Request) (schedule.WindowInput, error) {
	q := r.URL.Query()

	var p instantFields
	from := p.parse("from", q.Get("from"))
	to := p.parse("to", q.Get("to"))
	if err := p.err(); err != nil {
		return schedule.WindowInput{}, err
	}
	return schedule.WindowInput{Start: from, End: to}, nil
}
