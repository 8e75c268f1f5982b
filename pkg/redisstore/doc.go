// Package redisstore implements the session.Store contract on Redis.
//
// Each session record is stored as a JSON value under "<prefix><token>" with
// a native Redis TTL, so expired records disappear on their own and a GET on
// a lapsed token is indistinguishable from a token that never existed. An
// owner's live tokens are tracked in a set under "<prefix>owner:<id>" whose
// expiry is always kept at least as long as its longest-lived member.
//
// Rotation runs as a single server-side Lua script: the liveness check, the
// ownership check, installing the new token and removing the old one happen
// atomically with respect to every other command on the old key. A rotation
// that loses the race gets session.ErrRotationConflict and is guaranteed to
// have mutated nothing. TTL refresh and data replacement also run as small
// scripts so a concurrent delete is never resurrected by a read-modify-write.
//
//	client, err := redis.Connect(ctx, cfg) // sessionkit/pkg/redis
//	if err != nil { ... }
//	store := redisstore.New(client)
//
//	manager := session.New(
//	    session.WithStore(store),
//	    session.WithCookieManager(cookies),
//	)
//
// The store never closes the client it is handed.
package redisstore
