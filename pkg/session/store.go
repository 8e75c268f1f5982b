package session

import (
	"context"
	"time"
)

// Store is the persistence contract every backend must honor. Implementations
// must be safe for concurrent use; Rotate is the only operation that needs
// native atomicity and must never be built as a client-side read-then-write.
type Store interface {
	// Create inserts or overwrites a record and indexes its token under the
	// owner with an expiry no shorter than ttl.
	Create(ctx context.Context, sess *Session, ttl time.Duration) error

	// Get returns the live record for a token. A record whose TTL has
	// lapsed is reported as ErrSessionNotFound regardless of whether it has
	// been physically removed yet.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a record and its owner-index membership. Absent
	// records are a no-op.
	Delete(ctx context.Context, token string) error

	// DeleteAllForOwner removes every record currently indexed under the
	// owner, then the index itself. A create racing the sweep may survive;
	// that race is documented and accepted.
	DeleteAllForOwner(ctx context.Context, ownerID string) error

	// RefreshTTL extends the record's expiry and bumps LastActivityAt.
	// Absent records are a no-op.
	RefreshTTL(ctx context.Context, token string, ttl time.Duration) error

	// Rotate atomically replaces oldToken with newToken: it verifies a live
	// record exists under oldToken and belongs to ownerID, installs the new
	// record preserving ID, CreatedAt and the security fingerprint, applies
	// data and ttl, and removes the old token. When either check fails it
	// mutates nothing and returns ErrRotationConflict. Two rotations racing
	// on one token produce exactly one winner.
	Rotate(ctx context.Context, oldToken, newToken, ownerID string, data map[string]any, ttl time.Duration) (*Session, error)

	// CountForOwner returns the owner's live session count. Best-effort
	// consistency is acceptable but a session removed by a completed
	// rotation must not be counted twice.
	CountForOwner(ctx context.Context, ownerID string) (int, error)

	// UpdateData replaces only the application data, preserving the TTL and
	// every other field. Returns ErrSessionNotFound for absent records.
	UpdateData(ctx context.Context, token string, data map[string]any) error
}
