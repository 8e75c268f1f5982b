package redisstore

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The owner index has no TTL of its own beyond what the scripts grant it.
// Any script that extends a record's lifetime must extend the index too, or
// a long-lived session outlives its set membership and escapes both the
// quota count and bulk revocation.
func TestScripts_ExtendOwnerIndex(t *testing.T) {
	t.Run("rotate bumps the index expiry", func(t *testing.T) {
		assert.Contains(t, rotateLua, `"EXPIRE", KEYS[3], ARGV[6], "NX"`)
		assert.Contains(t, rotateLua, `"EXPIRE", KEYS[3], ARGV[6], "GT"`)
	})

	t.Run("refresh bumps the index expiry", func(t *testing.T) {
		assert.Contains(t, refreshLua, `ARGV[4] .. "owner:" .. rec.owner_id`)
		assert.Contains(t, refreshLua, `"EXPIRE", owner_key, ARGV[3], "NX"`)
		assert.Contains(t, refreshLua, `"EXPIRE", owner_key, ARGV[3], "GT"`)
	})

	t.Run("refresh derives the owner key with the store's prefix scheme", func(t *testing.T) {
		s := New(nil, WithKeyPrefix("app:"))

		// ARGV[4] is the prefix; the script's concatenation must produce
		// the same key ownerKey builds client-side.
		assert.Equal(t, "app:owner:user-1", s.ownerKey("user-1"))
		assert.Equal(t, s.prefix+"owner:"+"user-1", s.ownerKey("user-1"))
	})
}

func TestKeys(t *testing.T) {
	t.Run("default prefix", func(t *testing.T) {
		s := New(nil)
		assert.Equal(t, "session:tok", s.recordKey("tok"))
		assert.Equal(t, "session:owner:user-1", s.ownerKey("user-1"))
	})

	t.Run("custom prefix", func(t *testing.T) {
		s := New(nil, WithKeyPrefix("app:"))
		assert.Equal(t, "app:tok", s.recordKey("tok"))
	})

	t.Run("empty prefix option keeps the default", func(t *testing.T) {
		s := New(nil, WithKeyPrefix(""))
		assert.Equal(t, "session:tok", s.recordKey("tok"))
	})

	t.Run("record and owner keys never collide", func(t *testing.T) {
		s := New(nil)
		assert.False(t, strings.HasPrefix(s.recordKey("sometoken"), s.ownerKey("some")))
	})
}

func TestTTLSeconds(t *testing.T) {
	assert.Equal(t, int64(3600), ttlSeconds(time.Hour))
	assert.Equal(t, int64(1), ttlSeconds(0), "zero and sub-second TTLs round up so SET EX stays valid")
	assert.Equal(t, int64(1), ttlSeconds(500*time.Millisecond))
}
