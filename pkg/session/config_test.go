package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, session.DefaultConfig().Validate())
	})

	t.Run("empty cookie name", func(t *testing.T) {
		cfg := session.DefaultConfig()
		cfg.CookieName = ""
		assert.ErrorIs(t, cfg.Validate(), session.ErrInvalidConfig)
	})

	t.Run("TTL below minimum", func(t *testing.T) {
		cfg := session.DefaultConfig()
		cfg.TTL = 30 * time.Second
		assert.ErrorIs(t, cfg.Validate(), session.ErrInvalidConfig)
	})

	t.Run("negative session quota", func(t *testing.T) {
		cfg := session.DefaultConfig()
		cfg.MaxSessionsPerOwner = -1
		assert.ErrorIs(t, cfg.Validate(), session.ErrInvalidConfig)
	})
}
