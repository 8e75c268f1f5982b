package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSession indicates there is no usable session: the request
	// carried no token, or the record is absent or expired. The session
	// cookie is cleared whenever this is returned for a present token.
	ErrInvalidSession = errors.New("session: invalid or expired")

	// ErrSessionNotFound is the store-level absence sentinel. Expired and
	// deleted records are indistinguishable from never having existed.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrRotationConflict indicates this request lost a rotation race and
	// the fallback re-read found the record gone. Callers should retry the
	// request; unlike ErrInvalidSession the session may still be live under
	// a token issued to a concurrent request.
	ErrRotationConflict = errors.New("session: concurrent rotation")

	// ErrSecurityViolation is the errors.Is target for SecurityViolationError.
	ErrSecurityViolation = errors.New("session: security violation")

	// ErrSessionLimitExceeded is the errors.Is target for LimitExceededError.
	ErrSessionLimitExceeded = errors.New("session: limit exceeded")

	// ErrStoreUnavailable wraps backend transport failures. It is the only
	// condition callers should treat as infrastructure trouble rather than
	// an authentication outcome.
	ErrStoreUnavailable = errors.New("session: store unavailable")

	// ErrTokenGeneration indicates the entropy source failed.
	ErrTokenGeneration = errors.New("session: token generation failed")

	// ErrNoSessionToken indicates the transport found no token on the request.
	ErrNoSessionToken = errors.New("session: no token on request")

	// ErrInvalidToken indicates the request carried a token the transport
	// could not verify, a tampered or malformed cookie. Unlike plain
	// absence, the engine clears the client's copy so it is not resent.
	ErrInvalidToken = errors.New("session: unverifiable token on request")

	// ErrMissingOwnerID indicates Login was called without an owner identity.
	ErrMissingOwnerID = errors.New("session: owner ID is required")
)

// SecurityViolationError is returned when the fingerprint verdict is invalid
// under a strict flag. The offending record has been deleted and the cookie
// cleared by the time the caller sees it.
type SecurityViolationError struct {
	Warnings []string
}

func (e *SecurityViolationError) Error() string {
	return fmt.Sprintf("session: security violation: %s", strings.Join(e.Warnings, "; "))
}

func (e *SecurityViolationError) Is(target error) bool {
	return target == ErrSecurityViolation
}

// LimitExceededError rejects a login for an owner at or over the configured
// session quota. No state has been mutated.
type LimitExceededError struct {
	Current int
	Max     int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("session: owner has %d of maximum %d sessions", e.Current, e.Max)
}

func (e *LimitExceededError) Is(target error) bool {
	return target == ErrSessionLimitExceeded
}
