// Package redis bootstraps a go-redis client for the session store: URL
// parsing, connect-with-retry, and a health probe.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil { ... }
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil { ... }
//	defer client.Close()
//
//	store := redisstore.New(client)
//
// Connect verifies connectivity with a ping before returning, retrying on
// RetryInterval until ConnectTimeout lapses, so a service does not come up
// half-wired during an infrastructure restart.
package redis
