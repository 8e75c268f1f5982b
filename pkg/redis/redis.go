package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config controls Redis client bootstrap.
type Config struct {
	// ConnectionURL in the form "redis://:password@localhost:6379/0";
	// rediss:// enables TLS.
	ConnectionURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// RetryAttempts is how many times Connect pings before giving up.
	RetryAttempts int `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`

	// RetryInterval is the pause between attempts.
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`

	// ConnectTimeout caps the whole bootstrap.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

var (
	// ErrInvalidConnectionURL is returned for unparsable connection URLs.
	ErrInvalidConnectionURL = errors.New("redis: invalid connection URL")

	// ErrNotReady is returned when the server does not answer a ping
	// within the configured attempts.
	ErrNotReady = errors.New("redis: server did not become ready")

	// ErrHealthcheckFailed is returned by the healthcheck closure.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)

// Connect creates a Redis client and verifies connectivity with a ping,
// retrying on an interval until ConnectTimeout runs out.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidConnectionURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrNotReady, lastErr, ctx.Err())
			case <-time.After(cfg.RetryInterval):
			}
		}

		client := redis.NewClient(opt)
		pingErr := client.Ping(ctx).Err()
		if pingErr == nil {
			return client, nil
		}
		lastErr = pingErr
		_ = client.Close()
	}

	return nil, errors.Join(ErrNotReady, lastErr)
}

// Healthcheck returns a probe compatible with health endpoints expecting
// func(context.Context) error.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
