package session

import (
	"net/http"
	"time"
)

// Transport carries the session token between client and server. The engine
// never inspects the concrete type; variants are selected by dependency
// injection at construction.
type Transport interface {
	// GetToken extracts the token from the request, ErrNoSessionToken when
	// the request carries none.
	GetToken(r *http.Request) (string, error)

	// SetToken writes the token to the response with the given lifetime.
	// The same attribute set is applied on every write.
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error

	// ClearToken removes the token from the client.
	ClearToken(w http.ResponseWriter) error
}
