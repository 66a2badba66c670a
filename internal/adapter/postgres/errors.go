package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

// pgCodes maps SQLSTATE codes to the domain error a caller can act on.
var pgCodes = map[string]error{
	"23505": domain.ErrAlreadyExists,    // unique_violation
	"23503": domain.ErrNotFound,         // foreign_key_violation: unknown calendar, room or user
	"23514": domain.ErrValidation,       // check_violation: starts_at < ends_at and friends
	"23P01": domain.ErrConflict,         // exclusion_violation
	"40001": domain.ErrConflict,         // serialization_failure
	"40P01": domain.ErrConflict,         // deadlock_detected
	"22007": domain.ErrInvalidTimestamp, // invalid_datetime_format
	"22008": domain.ErrInvalidTimestamp, // datetime_field_overflow
}

// MapError converts pgx/pgconn errors to domain errors, prefixed with the
// entity and id. Context errors and unknown codes keep their original cause.
func MapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	subject := entity
	if id != uuid.Nil {
		subject = entity + " " + id.String()
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", subject, err)
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s: %w", subject, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := pgCodes[pgErr.Code]; ok {
			return fmt.Errorf("%s: %w", subject, mapped)
		}
	}

	return fmt.Errorf("%s: %w", subject, err)
}
