package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Manager is the session protocol engine. It composes a Store, a Transport
// and the fingerprint validator into login, validate and logout operations.
// The Manager itself holds no mutable state and is safe for concurrent use;
// request context (IP, User-Agent, cookies) is threaded in explicitly
// through the request arguments.
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
	cookieOptions []cookie.Option
	logger        *slog.Logger
	ipResolver    func(*http.Request) string
}

// New creates a Manager. An in-memory store is used unless WithStore is
// given; the default cookie transport requires WithCookieManager. Panics on
// invalid configuration so misconfiguration fails at startup, not per
// request.
func New(opts ...Option) *Manager {
	m := &Manager{
		config:     DefaultConfig(),
		logger:     slog.New(slog.DiscardHandler),
		ipResolver: clientip.FromRequest,
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.config.Validate(); err != nil {
		panic(err)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}

	if m.transport == nil {
		if m.cookieManager == nil {
			panic("session: cookie manager is required when using the default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.config.SecureCookies, m.cookieOptions...)
	}

	return m
}

// Login starts a new session chain for an authenticated owner. The caller
// has already established the identity; Login only enforces the session
// quota, captures the request fingerprint and issues the token. In
// single-session mode the owner's existing sessions are evicted first,
// unconditionally.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, ownerID string, data map[string]any) (*Session, error) {
	if ownerID == "" {
		return nil, ErrMissingOwnerID
	}

	if !m.config.AllowMultipleSessions {
		if err := m.store.DeleteAllForOwner(ctx, ownerID); err != nil {
			return nil, err
		}
	} else if m.config.MaxSessionsPerOwner > 0 {
		count, err := m.store.CountForOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if count >= m.config.MaxSessionsPerOwner {
			return nil, &LimitExceededError{Current: count, Max: m.config.MaxSessionsPerOwner}
		}
	}

	token, err := GenerateToken(DefaultTokenLength)
	if err != nil {
		return nil, err
	}

	sess := NewSession(token, ownerID, m.fingerprint(r), data, m.config.TTL)
	if err := m.store.Create(ctx, sess, m.config.TTL); err != nil {
		return nil, err
	}

	if err := m.transport.SetToken(w, token, m.config.TTL); err != nil {
		_ = m.store.Delete(ctx, token)
		return nil, err
	}

	return sess, nil
}

// Validate authenticates the current request: it resolves the token,
// verifies the record and its fingerprint, applies sliding expiration and
// rotates the token when the rotation policy says so. The returned session
// reflects any rotation or refresh that happened.
//
// A lost rotation race is recovered by a single re-read of the old token: if
// another request already rotated or refreshed the record the session is
// returned unrotated (the winner holds the new cookie); if the record is
// truly gone the cookie is cleared and ErrRotationConflict surfaces so the
// caller can retry.
func (m *Manager) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		// A token that is present but unverifiable must not be resent on
		// every request; plain absence leaves nothing to clear.
		if !errors.Is(err, ErrNoSessionToken) {
			_ = m.transport.ClearToken(w)
		}
		return nil, errors.Join(ErrInvalidSession, err)
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			_ = m.transport.ClearToken(w)
			return nil, errors.Join(ErrInvalidSession, err)
		}
		return nil, err
	}

	current := m.fingerprint(r)
	verdict := ValidateFingerprint(sess.Fingerprint(), current, m.config.StrictIP, m.config.StrictUserAgent)
	if !verdict.Valid {
		_ = m.store.Delete(ctx, token)
		_ = m.transport.ClearToken(w)
		return nil, &SecurityViolationError{Warnings: verdict.Warnings}
	}
	if len(verdict.Warnings) > 0 {
		m.logger.WarnContext(ctx, "session fingerprint drift",
			slog.String("owner_id", sess.OwnerID),
			slog.Any("warnings", verdict.Warnings))
	}

	// The rotation decision uses the activity timestamp as read from the
	// store; refreshing first would reset the elapsed inactivity to zero
	// and mask every threshold.
	now := time.Now()
	if ShouldRotate(m.config.RotationInterval, sess.LastActivityAt, now) {
		return m.rotate(ctx, w, token, sess)
	}

	if m.config.SlidingExpiration {
		if err := m.store.RefreshTTL(ctx, token, m.config.TTL); err != nil {
			return nil, err
		}
		sess.LastActivityAt = now
		sess.ExpiresAt = now.Add(m.config.TTL)
		if err := m.transport.SetToken(w, token, m.config.TTL); err != nil {
			return nil, err
		}
	}

	return sess, nil
}

func (m *Manager) rotate(ctx context.Context, w http.ResponseWriter, token string, sess *Session) (*Session, error) {
	newToken, err := GenerateToken(DefaultTokenLength)
	if err != nil {
		return nil, err
	}

	rotated, err := m.store.Rotate(ctx, token, newToken, sess.OwnerID, sess.Data, m.config.TTL)
	if err == nil {
		if err := m.transport.SetToken(w, newToken, m.config.TTL); err != nil {
			return nil, err
		}
		return rotated, nil
	}
	if !errors.Is(err, ErrRotationConflict) {
		return nil, err
	}

	// Lost the race. A concurrent request on the same chain won and set the
	// new cookie on its own response; if the old record still answers it
	// was merely refreshed, so carry on without touching the cookie.
	sess, err = m.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			_ = m.transport.ClearToken(w)
			return nil, ErrRotationConflict
		}
		return nil, err
	}
	return sess, nil
}

// Logout deletes the current session, if any, and always clears the cookie.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	token, err := m.transport.GetToken(r)
	if err == nil && token != "" {
		if err := m.store.Delete(ctx, token); err != nil {
			_ = m.transport.ClearToken(w)
			return err
		}
	}
	return m.transport.ClearToken(w)
}

// LogoutAll revokes every session of the current owner and always clears the
// cookie. Without a resolvable session it only clears the cookie.
func (m *Manager) LogoutAll(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	token, err := m.transport.GetToken(r)
	if err == nil && token != "" {
		sess, err := m.store.Get(ctx, token)
		switch {
		case err == nil:
			if err := m.store.DeleteAllForOwner(ctx, sess.OwnerID); err != nil {
				_ = m.transport.ClearToken(w)
				return err
			}
		case !errors.Is(err, ErrSessionNotFound):
			_ = m.transport.ClearToken(w)
			return err
		}
	}
	return m.transport.ClearToken(w)
}

// UpdateData replaces the session's application data wholesale, preserving
// the TTL and every other field. The cookie is cleared when the token turns
// out to be broken or its record is gone.
func (m *Manager) UpdateData(ctx context.Context, w http.ResponseWriter, r *http.Request, data map[string]any) error {
	token, err := m.transport.GetToken(r)
	if err != nil {
		if !errors.Is(err, ErrNoSessionToken) {
			_ = m.transport.ClearToken(w)
		}
		return errors.Join(ErrInvalidSession, err)
	}

	if err := m.store.UpdateData(ctx, token, data); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			_ = m.transport.ClearToken(w)
			return errors.Join(ErrInvalidSession, err)
		}
		return err
	}
	return nil
}

// OwnerID resolves the current owner without side effects, collapsing
// invalid and security-rejected sessions into "not authenticated".
func (m *Manager) OwnerID(ctx context.Context, r *http.Request) (string, bool) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return "", false
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return "", false
	}

	verdict := ValidateFingerprint(sess.Fingerprint(), m.fingerprint(r), m.config.StrictIP, m.config.StrictUserAgent)
	if !verdict.Valid {
		return "", false
	}

	return sess.OwnerID, true
}

// IsAuthenticated reports whether the request carries a usable session.
func (m *Manager) IsAuthenticated(ctx context.Context, r *http.Request) bool {
	_, ok := m.OwnerID(ctx, r)
	return ok
}

// ActiveSessionCount returns the current owner's live session count, zero
// when the request is unauthenticated.
func (m *Manager) ActiveSessionCount(ctx context.Context, r *http.Request) (int, error) {
	ownerID, ok := m.OwnerID(ctx, r)
	if !ok {
		return 0, nil
	}
	return m.store.CountForOwner(ctx, ownerID)
}

func (m *Manager) fingerprint(r *http.Request) Fingerprint {
	return Fingerprint{
		IP:        m.ipResolver(r),
		UserAgent: r.UserAgent(),
	}
}
