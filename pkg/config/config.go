package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilPointer is returned when Load is handed a nil destination.
	ErrNilPointer = errors.New("config: nil pointer")

	// ErrParsing wraps env tag parsing failures.
	ErrParsing = errors.New("config: failed to parse environment")
)

var loadDotEnv sync.Once

// Load populates an env-tagged struct from the environment. The first call
// in the process also reads a .env file when one exists; a missing file is
// not an error.
//
//	var cfg session.Config
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	loadDotEnv.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsing, err)
	}
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
