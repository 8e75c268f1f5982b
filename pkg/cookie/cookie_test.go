package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

const (
	testSecret    = "0123456789abcdef0123456789abcdef"
	rotatedSecret = "fedcba9876543210fedcba9876543210"
)

func TestNew(t *testing.T) {
	t.Run("valid secret", func(t *testing.T) {
		mgr, err := cookie.New([]string{testSecret})
		require.NoError(t, err)
		assert.NotNil(t, mgr)
	})

	t.Run("no secrets", func(t *testing.T) {
		_, err := cookie.New(nil)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)

		_, err = cookie.New([]string{""})
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("short secret", func(t *testing.T) {
		_, err := cookie.New([]string{"too-short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})
}

func TestManager_SetGet(t *testing.T) {
	mgr, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, mgr.Set(w, "prefs", "dark-mode"))

		set := w.Result().Cookies()
		require.Len(t, set, 1)
		assert.Equal(t, "/", set[0].Path)
		assert.True(t, set[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, set[0].SameSite)
		assert.NotEqual(t, "dark-mode", set[0].Value, "value on the wire is encoded and signed")

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(set[0])

		value, err := mgr.Get(r, "prefs")
		require.NoError(t, err)
		assert.Equal(t, "dark-mode", value)
	})

	t.Run("per-call options override defaults", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, mgr.Set(w, "prefs", "v",
			cookie.WithPath("/app"),
			cookie.WithDomain("example.com"),
			cookie.WithMaxAge(600),
			cookie.WithSecure(true),
			cookie.WithSameSite(http.SameSiteStrictMode),
		))

		set := w.Result().Cookies()
		require.Len(t, set, 1)
		assert.Equal(t, "/app", set[0].Path)
		assert.Equal(t, "example.com", set[0].Domain)
		assert.Equal(t, 600, set[0].MaxAge)
		assert.True(t, set[0].Secure)
		assert.Equal(t, http.SameSiteStrictMode, set[0].SameSite)
	})

	t.Run("missing cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := mgr.Get(r, "nope")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("tampered signature", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, mgr.Set(w, "prefs", "dark-mode"))

		set := w.Result().Cookies()
		require.Len(t, set, 1)
		set[0].Value += "x"

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(set[0])

		_, err := mgr.Get(r, "prefs")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("malformed value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "prefs", Value: "no-separator"})

		_, err := mgr.Get(r, "prefs")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}

func TestManager_SecretRotation(t *testing.T) {
	oldMgr, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	// A cookie issued under the previous key must keep verifying after the
	// new key moves to the front.
	w := httptest.NewRecorder()
	require.NoError(t, oldMgr.Set(w, "prefs", "dark-mode"))
	issued := w.Result().Cookies()[0]

	newMgr, err := cookie.New([]string{rotatedSecret, testSecret})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(issued)

	value, err := newMgr.Get(r, "prefs")
	require.NoError(t, err)
	assert.Equal(t, "dark-mode", value)

	t.Run("dropped key invalidates", func(t *testing.T) {
		onlyNew, err := cookie.New([]string{rotatedSecret})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(issued)

		_, err = onlyNew.Get(r, "prefs")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})
}

func TestManager_Clear(t *testing.T) {
	mgr, err := cookie.New([]string{testSecret}, cookie.WithSecure(true))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	mgr.Clear(w, "prefs")

	set := w.Result().Cookies()
	require.Len(t, set, 1)
	assert.Empty(t, set[0].Value)
	assert.Equal(t, -1, set[0].MaxAge)
	assert.Equal(t, "/", set[0].Path)
	assert.True(t, set[0].Secure, "deletion keeps the original attribute scope")
}
