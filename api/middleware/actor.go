package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// Actor lifts the optional X-Actor-Id header into the request context so
// created jobs can be attributed to the cashier who triggered them. A
// malformed id is dropped rather than rejected; attribution is best effort.
func Actor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := r.Header.Get(actorIDHeader); raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					r = r.WithContext(WithActorID(r.Context(), id.String()))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
