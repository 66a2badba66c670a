package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/pkg/ctxutil"
)

type tokenValidator interface {
	// ValidateToken returns the user id and the timezone claim of a bearer
	// token. The timezone is empty when the token carries none.
	ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error)
}

// Auth puts the authenticated user into the request context. Requests without
// a bearer token pass through anonymously; invalid tokens are rejected.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			userID, tz, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithUserID(r.Context(), userID)
			if tz != "" {
				ctx = ctxutil.WithTimezone(ctx, tz)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
