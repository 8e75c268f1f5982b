package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestCookieTransport(t *testing.T) {
	cookies, err := cookie.New([]string{"test-secret-key-that-is-long-enough"})
	require.NoError(t, err)

	transport := session.NewCookieTransport(cookies, "sid", false)

	t.Run("round trip", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, transport.SetToken(w, "tok-abc", time.Hour))

		set := w.Result().Cookies()
		require.Len(t, set, 1)
		assert.Equal(t, "sid", set[0].Name)
		assert.Equal(t, 3600, set[0].MaxAge)
		assert.True(t, set[0].HttpOnly)
		assert.False(t, set[0].Secure)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(set[0])

		token, err := transport.GetToken(r)
		require.NoError(t, err)
		assert.Equal(t, "tok-abc", token)
	})

	t.Run("secure flag propagates", func(t *testing.T) {
		secure := session.NewCookieTransport(cookies, "sid", true)

		w := httptest.NewRecorder()
		require.NoError(t, secure.SetToken(w, "tok-abc", time.Hour))

		set := w.Result().Cookies()
		require.Len(t, set, 1)
		assert.True(t, set[0].Secure)
	})

	t.Run("missing cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := transport.GetToken(r)
		assert.ErrorIs(t, err, session.ErrNoSessionToken)
	})

	t.Run("tampered cookie rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, transport.SetToken(w, "tok-abc", time.Hour))

		set := w.Result().Cookies()
		require.Len(t, set, 1)
		set[0].Value += "x"

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(set[0])

		_, err := transport.GetToken(r)
		assert.ErrorIs(t, err, session.ErrInvalidToken)
		assert.NotErrorIs(t, err, session.ErrNoSessionToken, "a present cookie is not absence")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("clear expires the cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, transport.ClearToken(w))

		set := w.Result().Cookies()
		require.Len(t, set, 1)
		assert.Equal(t, -1, set[0].MaxAge)
		assert.Empty(t, set[0].Value)
	})
}

func TestHeaderTransport(t *testing.T) {
	t.Run("round trip with bearer prefix", func(t *testing.T) {
		transport := session.NewHeaderTransport("X-Session-Token")

		w := httptest.NewRecorder()
		require.NoError(t, transport.SetToken(w, "tok-abc", time.Hour))
		assert.Equal(t, "Bearer tok-abc", w.Header().Get("X-Session-Token"))
		assert.NotEmpty(t, w.Header().Get("X-Session-Token-Expires"))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Session-Token", "Bearer tok-abc")

		token, err := transport.GetToken(r)
		require.NoError(t, err)
		assert.Equal(t, "tok-abc", token)
	})

	t.Run("custom prefix", func(t *testing.T) {
		transport := session.NewHeaderTransport("Authorization", session.WithHeaderPrefix("Token "))

		w := httptest.NewRecorder()
		require.NoError(t, transport.SetToken(w, "tok-abc", 0))
		assert.Equal(t, "Token tok-abc", w.Header().Get("Authorization"))
		assert.Empty(t, w.Header().Get("Authorization-Expires"), "no expiry header without a TTL")
	})

	t.Run("bare token without prefix is accepted", func(t *testing.T) {
		transport := session.NewHeaderTransport("X-Session-Token")

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Session-Token", "tok-abc")

		token, err := transport.GetToken(r)
		require.NoError(t, err)
		assert.Equal(t, "tok-abc", token)
	})

	t.Run("missing header", func(t *testing.T) {
		transport := session.NewHeaderTransport("X-Session-Token")

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := transport.GetToken(r)
		assert.ErrorIs(t, err, session.ErrNoSessionToken)
	})

	t.Run("clear removes both headers", func(t *testing.T) {
		transport := session.NewHeaderTransport("X-Session-Token")

		w := httptest.NewRecorder()
		require.NoError(t, transport.SetToken(w, "tok-abc", time.Hour))
		require.NoError(t, transport.ClearToken(w))

		assert.Empty(t, w.Header().Get("X-Session-Token"))
		assert.Empty(t, w.Header().Get("X-Session-Token-Expires"))
	})
}
