package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestLoad(t *testing.T) {
	t.Run("defaults apply without environment", func(t *testing.T) {
		var cfg session.Config
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "sid", cfg.CookieName)
		assert.Equal(t, time.Hour, cfg.TTL)
		assert.True(t, cfg.SlidingExpiration)
		assert.True(t, cfg.AllowMultipleSessions)
		assert.Equal(t, 0, cfg.MaxSessionsPerOwner)
		assert.Equal(t, session.RotateNever, cfg.RotationInterval)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("SESSION_COOKIE_NAME", "app_session")
		t.Setenv("SESSION_TTL", "30m")
		t.Setenv("SESSION_MAX_PER_OWNER", "5")
		t.Setenv("SESSION_ROTATION_INTERVAL", "15m")
		t.Setenv("SESSION_STRICT_IP", "true")

		var cfg session.Config
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "app_session", cfg.CookieName)
		assert.Equal(t, 30*time.Minute, cfg.TTL)
		assert.Equal(t, 5, cfg.MaxSessionsPerOwner)
		assert.Equal(t, 15*time.Minute, cfg.RotationInterval)
		assert.True(t, cfg.StrictIP)

		assert.NoError(t, cfg.Validate())
	})

	t.Run("nil destination", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[session.Config](nil), config.ErrNilPointer)
	})

	t.Run("malformed value", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "not-a-duration")

		var cfg session.Config
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsing)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on malformed value", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "nope")

		assert.Panics(t, func() {
			var cfg session.Config
			config.MustLoad(&cfg)
		})
	})

	t.Run("succeeds on clean environment", func(t *testing.T) {
		assert.NotPanics(t, func() {
			var cfg session.Config
			config.MustLoad(&cfg)
		})
	})
}
