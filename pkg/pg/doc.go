// Package pg bootstraps a pgx connection pool for the PostgreSQL session
// store: DSN parsing, connect-with-retry, and a health probe.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil { ... }
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil { ... }
//	defer pool.Close()
//
//	if err := pgstore.Migrate(ctx, pool); err != nil { ... }
//	store := pgstore.New(pool)
//
// Connect pings before returning and retries on RetryInterval, so a service
// restart does not race its database.
package pg
