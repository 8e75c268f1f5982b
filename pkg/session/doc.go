// Package session manages the lifecycle of opaque session credentials: it
// issues, validates, rotates and revokes tokens backed by a pluggable store,
// enforcing per-owner session quotas and contextual security checks on the
// origin IP and User-Agent.
//
// # Architecture
//
// A Manager orchestrates the protocol. It relies on a Transport to carry the
// token between client and server (signed cookie by default, HTTP header as
// the alternative) and on a Store to persist records. The Store contract
// includes an atomic Rotate primitive; everything else the engine does is
// either a single store call or tolerant of benign races, so the Manager
// itself needs no locks and is safe for concurrent use.
//
//	┌────────┐   token   ┌────────────┐
//	│ Client │ ────────► │  Transport │
//	└────────┘           └────────────┘
//	       ▲                   │
//	       │                   ▼
//	┌─────────────────────────────────┐
//	│            Manager              │ fingerprint checks, quota,
//	└─────────────────────────────────┘ rotation policy
//	       │   CRUD / Rotate / TTL
//	       ▼
//	┌────────┐
//	│ Store  │ (memory, redis, postgres)
//	└────────┘
//
// # Session chains
//
// A logical session survives any number of token rotations. The chain keeps
// its ID, OwnerID, CreatedAt and the security fingerprint captured at login;
// only the token and the activity timestamps move. Rotation is atomic in the
// store: two requests racing on one token produce exactly one winner, and
// the loser recovers by re-reading state instead of failing the request.
//
// # Usage
//
//	cookies, _ := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	manager := session.New(
//	    session.WithCookieManager(cookies),
//	    session.WithTTL(time.Hour),
//	    session.WithRotationInterval(5*time.Minute),
//	)
//
//	func loginHandler(w http.ResponseWriter, r *http.Request) {
//	    userID := authenticate(r) // identity is the caller's concern
//	    sess, err := manager.Login(r.Context(), w, r, userID, nil)
//	    ...
//	}
//
//	func profileHandler(w http.ResponseWriter, r *http.Request) {
//	    sess, err := manager.Validate(r.Context(), w, r)
//	    ...
//	}
//
// Remote backends live in sibling packages: pkg/redisstore (Redis, rotation
// through a server-side Lua script) and pkg/pgstore (PostgreSQL, rotation
// through a single data-modifying CTE).
//
// # Error handling
//
// Expected protocol outcomes are typed:
//
//   - ErrInvalidSession        - no token, or record absent/expired
//   - SecurityViolationError   - strict fingerprint check failed (carries warnings)
//   - LimitExceededError       - login rejected by the session quota
//   - ErrRotationConflict      - lost a rotation race and the record is gone; retry
//   - ErrStoreUnavailable      - backend unreachable, infrastructure trouble
//
// OwnerID and IsAuthenticated deliberately collapse invalid and
// security-rejected sessions into "not authenticated" for non-throwing
// checks.
//
// # Consistency notes
//
// Quota counting and the evict-on-login path of single-session mode are
// eventually consistent: a burst of concurrent logins for one owner may
// transiently overshoot the quota. This is a deliberate tradeoff that avoids
// serializing all logins per owner behind a lock.
package session
