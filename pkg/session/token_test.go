package session_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestGenerateToken(t *testing.T) {
	t.Run("default length", func(t *testing.T) {
		token, err := session.GenerateToken(session.DefaultTokenLength)
		require.NoError(t, err)
		assert.Len(t, token, 2*session.DefaultTokenLength)

		_, err = hex.DecodeString(token)
		assert.NoError(t, err, "token must be valid hex")
	})

	t.Run("custom length", func(t *testing.T) {
		token, err := session.GenerateToken(16)
		require.NoError(t, err)
		assert.Len(t, token, 32)
	})

	t.Run("non-positive length falls back to default", func(t *testing.T) {
		token, err := session.GenerateToken(0)
		require.NoError(t, err)
		assert.Len(t, token, 2*session.DefaultTokenLength)

		token, err = session.GenerateToken(-5)
		require.NoError(t, err)
		assert.Len(t, token, 2*session.DefaultTokenLength)
	})

	t.Run("no repeats", func(t *testing.T) {
		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			token, err := session.GenerateToken(session.DefaultTokenLength)
			require.NoError(t, err)

			_, dup := seen[token]
			require.False(t, dup, "generated a duplicate token")
			seen[token] = struct{}{}
		}
	})
}
