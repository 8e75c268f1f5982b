package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithStore sets the session store backend.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithTransport sets a custom token transport, replacing the default
// cookie transport.
func WithTransport(transport Transport) Option {
	return func(m *Manager) {
		m.transport = transport
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCookieManager sets the cookie manager used by the default cookie
// transport. Extra cookie options are applied on every write.
func WithCookieManager(cookieMgr *cookie.Manager, opts ...cookie.Option) Option {
	return func(m *Manager) {
		m.cookieManager = cookieMgr
		m.cookieOptions = opts
	}
}

// WithLogger sets the logger for non-fatal security advisories.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}

// WithIPResolver overrides how the origin IP is taken from a request, for
// deployments behind proxies the default header set does not cover.
func WithIPResolver(fn func(*http.Request) string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.ipResolver = fn
		}
	}
}

// WithTTL sets the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.config.TTL = ttl
	}
}

// WithRotationInterval sets the inactivity threshold for token rotation.
func WithRotationInterval(threshold time.Duration) Option {
	return func(m *Manager) {
		m.config.RotationInterval = threshold
	}
}

// WithSessionLimit allows multiple sessions per owner capped at maxPerOwner
// (zero for unlimited).
func WithSessionLimit(maxPerOwner int) Option {
	return func(m *Manager) {
		m.config.AllowMultipleSessions = true
		m.config.MaxSessionsPerOwner = maxPerOwner
	}
}

// WithSingleSession makes every login evict the owner's existing sessions.
func WithSingleSession() Option {
	return func(m *Manager) {
		m.config.AllowMultipleSessions = false
	}
}

// WithStrictFingerprint fails validation on IP or meaningful User-Agent
// drift instead of logging advisories.
func WithStrictFingerprint(strictIP, strictUA bool) Option {
	return func(m *Manager) {
		m.config.StrictIP = strictIP
		m.config.StrictUserAgent = strictUA
	}
}
