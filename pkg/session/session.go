package session

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Session is a single live credential in a session chain. The Token changes
// on every rotation while ID, OwnerID, CreatedAt and the captured fingerprint
// identify the chain itself.
type Session struct {
	ID             uuid.UUID      `json:"id"`
	Token          string         `json:"token"`
	OwnerID        string         `json:"owner_id"`
	IP             string         `json:"ip,omitempty"`
	UserAgent      string         `json:"user_agent,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	LastActivityAt time.Time      `json:"last_activity_at"`
	ExpiresAt      time.Time      `json:"expires_at"`
}

// NewSession creates the first record of a new session chain.
func NewSession(token, ownerID string, fp Fingerprint, data map[string]any, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		OwnerID:        ownerID,
		IP:             fp.IP,
		UserAgent:      fp.UserAgent,
		Data:           maps.Clone(data),
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(ttl),
	}
}

// IsExpired reports whether the record's TTL has lapsed.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// Fingerprint returns the security fingerprint captured at chain creation.
func (s *Session) Fingerprint() Fingerprint {
	if s == nil {
		return Fingerprint{}
	}
	return Fingerprint{IP: s.IP, UserAgent: s.UserAgent}
}

// ExpiresIn returns the remaining lifetime, zero when already expired.
func (s *Session) ExpiresIn() time.Duration {
	if s == nil {
		return 0
	}
	if d := time.Until(s.ExpiresAt); d > 0 {
		return d
	}
	return 0
}

// Clone returns a deep copy so stores can hand out records without aliasing
// their internal state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Data = maps.Clone(s.Data)
	return &c
}
