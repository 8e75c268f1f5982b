package session

import (
	"errors"
	"net/http"
)

// Middleware validates the request's session and, when valid, stashes it in
// the request context. Requests without a usable session pass through
// unchanged; handlers decide what anonymity means for them.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Validate(r.Context(), w, r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// RequireAuth rejects requests without a valid session. Infrastructure
// failures map to 503 so callers can distinguish them from a missing login.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Validate(r.Context(), w, r)
		if err != nil {
			if errors.Is(err, ErrStoreUnavailable) {
				http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}
