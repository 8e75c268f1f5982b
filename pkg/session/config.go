package session

import (
	"errors"
	"fmt"
	"time"
)

// MinTTL is the shortest session lifetime the engine accepts. Anything below
// one minute indicates a misconfigured duration unit rather than intent.
const MinTTL = time.Minute

// ErrInvalidConfig is returned by Config.Validate for unusable settings.
var ErrInvalidConfig = errors.New("session: invalid config")

// Config holds the protocol engine configuration.
type Config struct {
	// CookieName is the session cookie name.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// TTL is the session lifetime; with sliding expiration it is the idle
	// timeout, otherwise the absolute lifetime from creation.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	// SlidingExpiration extends the TTL on every successful validation.
	SlidingExpiration bool `env:"SESSION_SLIDING_EXPIRATION" envDefault:"true"`

	// AllowMultipleSessions permits concurrent sessions per owner. When
	// false every login first evicts the owner's existing sessions.
	AllowMultipleSessions bool `env:"SESSION_ALLOW_MULTIPLE" envDefault:"true"`

	// MaxSessionsPerOwner caps concurrent sessions per owner when multiple
	// sessions are allowed. Zero disables the quota. The count is
	// best-effort: a burst of concurrent logins may transiently overshoot
	// slightly, which is accepted to avoid serializing logins per owner.
	MaxSessionsPerOwner int `env:"SESSION_MAX_PER_OWNER" envDefault:"0"`

	// RotationInterval controls token rotation: RotateNever (0) disables
	// it, RotateAlways (any negative value) rotates on every validation, a
	// positive value rotates after that much inactivity.
	RotationInterval time.Duration `env:"SESSION_ROTATION_INTERVAL" envDefault:"0s"`

	// StrictIP fails validation when the origin IP changed.
	StrictIP bool `env:"SESSION_STRICT_IP" envDefault:"false"`

	// StrictUserAgent fails validation on a meaningful User-Agent change.
	StrictUserAgent bool `env:"SESSION_STRICT_UA" envDefault:"false"`

	// SecureCookies sets the Secure flag on session cookies.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`

	// CleanupInterval drives the default memory store's janitor. Zero
	// disables the sweep.
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
}

// DefaultConfig returns the configuration used when no options override it.
func DefaultConfig() Config {
	return Config{
		CookieName:            "sid",
		TTL:                   time.Hour,
		SlidingExpiration:     true,
		AllowMultipleSessions: true,
		MaxSessionsPerOwner:   0,
		RotationInterval:      RotateNever,
		CleanupInterval:       5 * time.Minute,
	}
}

// Validate reports unusable settings.
func (c Config) Validate() error {
	if c.CookieName == "" {
		return fmt.Errorf("%w: cookie name is empty", ErrInvalidConfig)
	}
	if c.TTL < MinTTL {
		return fmt.Errorf("%w: TTL %s is below the %s minimum", ErrInvalidConfig, c.TTL, MinTTL)
	}
	if c.MaxSessionsPerOwner < 0 {
		return fmt.Errorf("%w: negative max sessions per owner", ErrInvalidConfig)
	}
	return nil
}

// NewFromConfig creates a Manager from cfg; additional options are applied
// after the config.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}
