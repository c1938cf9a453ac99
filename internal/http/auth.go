package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/ttracx/invoicetracker/internal/core"
)

// TokenVerifier checks a bearer token and returns the user ID it names.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type contextKey string

const userIDKey contextKey = "user_id"

// requireAuth rejects requests without a valid Bearer token and stores the
// authenticated user ID in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeError(w, r, core.ErrUnauthenticated)
			return
		}

		userID, err := s.verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, r, core.ErrUnauthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID returns the authenticated user from the request context. Empty
// only if a handler was wired outside the auth chain, which is a bug.
func userID(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
