package session

import (
	"net/http"
	"strings"
	"time"
)

// expirySuffix names the companion response header that announces when a
// freshly issued token lapses, so header-based clients can schedule renewal
// without parsing the record.
const expirySuffix = "-Expires"

// HeaderTransport carries the session token in an HTTP header, for API
// clients that do not speak cookies. Written values are "<prefix><token>";
// reads tolerate a missing prefix so a bare pasted token still works.
//
// Unlike the cookie transport the value is not signed. Use it only where
// the channel itself is trusted, or wrap the token server-side.
type HeaderTransport struct {
	name   string
	prefix string
}

// HeaderOption configures a HeaderTransport.
type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix sets the value prefix, "Bearer " by default. An empty
// prefix writes the raw token.
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) {
		t.prefix = prefix
	}
}

// NewHeaderTransport creates a header-based transport reading and writing
// the given header.
func NewHeaderTransport(headerName string, opts ...HeaderOption) *HeaderTransport {
	t := &HeaderTransport{
		name:   headerName,
		prefix: "Bearer ",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HeaderTransport) GetToken(r *http.Request) (string, error) {
	raw := r.Header.Get(t.name)
	if raw == "" {
		return "", ErrNoSessionToken
	}
	if token, ok := strings.CutPrefix(raw, t.prefix); ok {
		return token, nil
	}
	return raw, nil
}

func (t *HeaderTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	w.Header().Set(t.name, t.prefix+token)
	if ttl > 0 {
		w.Header().Set(t.name+expirySuffix, time.Now().Add(ttl).Format(time.RFC3339))
	}
	return nil
}

func (t *HeaderTransport) ClearToken(w http.ResponseWriter) error {
	w.Header().Del(t.name)
	w.Header().Del(t.name + expirySuffix)
	return nil
}
