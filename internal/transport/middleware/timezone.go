package middleware

import (
	"net/http"
	"time"

	"github.com/heartmarshall/teamcal-backend/pkg/ctxutil"
)

// TimezoneHeader names the IANA zone wall-clock input of a request is read in.
const TimezoneHeader = "X-Timezone"

// Timezone stores the X-Timezone header in the request context, overriding a
// zone taken from the token. Unknown zones are rejected with 400.
func Timezone(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tz := r.Header.Get(TimezoneHeader)
		if tz == "" {
			next.ServeHTTP(w, r)
			return
		}
		if _, err := time.LoadLocation(tz); err != nil {
			http.Error(w, "unknown timezone "+tz, http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxutil.WithTimezone(r.Context(), tz)))
	})
}
