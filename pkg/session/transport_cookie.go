package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// CookieTransport delivers the session token in a signed HTTP cookie.
type CookieTransport struct {
	cookies    *cookie.Manager
	cookieName string
	secure     bool
	options    []cookie.Option
}

// NewCookieTransport creates a cookie-based transport. Extra cookie options
// are appended to the attribute set applied on every write.
func NewCookieTransport(cookies *cookie.Manager, cookieName string, secure bool, opts ...cookie.Option) *CookieTransport {
	return &CookieTransport{
		cookies:    cookies,
		cookieName: cookieName,
		secure:     secure,
		options:    opts,
	}
}

func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	token, err := t.cookies.Get(r, t.cookieName)
	if err != nil {
		if errors.Is(err, cookie.ErrCookieNotFound) {
			return "", errors.Join(ErrNoSessionToken, err)
		}
		// Present but failed verification: tampered or malformed.
		return "", errors.Join(ErrInvalidToken, err)
	}
	return token, nil
}

func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	opts := []cookie.Option{
		cookie.WithMaxAge(int(ttl.Seconds())),
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	}
	if t.secure {
		opts = append(opts, cookie.WithSecure(true))
	}
	opts = append(opts, t.options...)

	return t.cookies.Set(w, t.cookieName, token, opts...)
}

func (t *CookieTransport) ClearToken(w http.ResponseWriter) error {
	t.cookies.Clear(w, t.cookieName)
	return nil
}
