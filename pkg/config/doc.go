// Package config loads env-tagged configuration structs, optionally seeded
// from a .env file for local development.
//
// Every configurable package in sessionkit (session, redis, pg) declares an
// env-tagged Config; Load fills any of them from the process environment:
//
//	var (
//	    sessCfg  session.Config
//	    redisCfg redis.Config
//	)
//	config.MustLoad(&sessCfg)
//	config.MustLoad(&redisCfg)
//
// Field tags follow github.com/caarlos0/env conventions:
//
//	type Config struct {
//	    TTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`
//	}
package config
