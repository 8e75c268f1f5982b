// Package pgstore implements the session.Store contract on PostgreSQL.
//
// Records live in a single table keyed by token; the owner index is the
// owner_id column, so quota counts and bulk revocation are plain filtered
// queries. Expiry is logical: every read filters on expires_at, which makes
// a lapsed record indistinguishable from one that never existed, and
// DeleteExpired reclaims the rows whenever the deployment schedules it.
//
// Rotation executes as one data-modifying CTE that deletes the old row
// (performing the liveness and ownership checks) and inserts the new row
// from the deleted values, preserving the chain id, fingerprint and creation
// timestamp. Because it is a single statement, concurrent rotations on the
// same token resolve to exactly one winner without any advisory locking.
//
//	pool, err := pg.Connect(ctx, cfg) // sessionkit/pkg/pg
//	if err != nil { ... }
//	if err := pgstore.Migrate(ctx, pool); err != nil { ... }
//	store := pgstore.New(pool)
//
//	manager := session.New(
//	    session.WithStore(store),
//	    session.WithCookieManager(cookies),
//	)
//
// The store never closes the pool it is handed.
package pgstore
