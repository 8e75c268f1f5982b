package pgstore

import (
	"context"
	"embed"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrMigrationFailed wraps any failure while applying the schema.
var ErrMigrationFailed = errors.New("pgstore: migration failed")

// Migrate applies the embedded sessions schema. goose speaks database/sql,
// so the pgx pool is bridged through stdlib; the wrapper shares the pool's
// connections and closing it does not close the pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}
