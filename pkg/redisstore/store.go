package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// DefaultKeyPrefix namespaces all keys written by the store.
const DefaultKeyPrefix = "session:"

// rotateScript is the atomicity core of the store. It runs server-side so
// the liveness and ownership checks and the old-token removal are a single
// indivisible step; two rotations racing on one token get exactly one
// winner and the loser sees a nil reply with nothing mutated.
//
// KEYS: old record key, new record key, owner index key.
// ARGV: owner id, new token, last-activity timestamp, expiry timestamp,
// data JSON ("null" to reset), TTL seconds.
const rotateLua = `
local raw = redis.call("GET", KEYS[1])
if not raw then
  return false
end
local rec = cjson.decode(raw)
if rec.owner_id ~= ARGV[1] then
  return false
end
local old_token = rec.token
rec.token = ARGV[2]
rec.last_activity_at = ARGV[3]
rec.expires_at = ARGV[4]
if ARGV[5] == "null" then
  rec.data = nil
else
  rec.data = cjson.decode(ARGV[5])
end
local payload = cjson.encode(rec)
redis.call("SET", KEYS[2], payload, "EX", ARGV[6])
redis.call("SADD", KEYS[3], ARGV[2])
redis.call("SREM", KEYS[3], old_token)
redis.call("EXPIRE", KEYS[3], ARGV[6], "NX")
redis.call("EXPIRE", KEYS[3], ARGV[6], "GT")
redis.call("DEL", KEYS[1])
return payload
`

// refreshScript extends the record's TTL and bumps the activity timestamp
// without racing a concurrent delete back to life. The owner index must
// outlive its longest-lived member, so every extension of the record also
// extends the set holding it; the owner key is derived from the decoded
// record since the caller only knows the token.
//
// KEYS: record key. ARGV: last-activity, expiry, TTL seconds, key prefix.
const refreshLua = `
local raw = redis.call("GET", KEYS[1])
if not raw then
  return false
end
local rec = cjson.decode(raw)
rec.last_activity_at = ARGV[1]
rec.expires_at = ARGV[2]
redis.call("SET", KEYS[1], cjson.encode(rec), "EX", ARGV[3])
local owner_key = ARGV[4] .. "owner:" .. rec.owner_id
redis.call("EXPIRE", owner_key, ARGV[3], "NX")
redis.call("EXPIRE", owner_key, ARGV[3], "GT")
return 1
`

// updateDataScript replaces only the data field, preserving the remaining
// TTL. KEYS: record key. ARGV: data JSON ("null" to reset).
const updateDataLua = `
local raw = redis.call("GET", KEYS[1])
if not raw then
  return false
end
local ttl = redis.call("TTL", KEYS[1])
local rec = cjson.decode(raw)
if ARGV[1] == "null" then
  rec.data = nil
else
  rec.data = cjson.decode(ARGV[1])
end
if ttl > 0 then
  redis.call("SET", KEYS[1], cjson.encode(rec), "EX", ttl)
else
  redis.call("SET", KEYS[1], cjson.encode(rec))
end
return 1
`

var (
	rotateScript     = redis.NewScript(rotateLua)
	refreshScript    = redis.NewScript(refreshLua)
	updateDataScript = redis.NewScript(updateDataLua)
)

// Store implements session.Store on Redis. Records are JSON values keyed by
// token with a native TTL; each owner's live tokens are tracked in a set
// whose expiry is kept at least as long as its longest-lived member.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// Option configures the store.
type Option func(*Store)

// WithKeyPrefix overrides the key namespace, DefaultKeyPrefix by default.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a Redis-backed session store. The client's lifecycle belongs
// to the caller; the store never closes it.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Create(ctx context.Context, sess *session.Session, ttl time.Duration) error {
	if sess == nil || sess.Token == "" || sess.OwnerID == "" {
		return session.ErrInvalidSession
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	ownerKey := s.ownerKey(sess.OwnerID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recordKey(sess.Token), payload, ttl)
		pipe.SAdd(ctx, ownerKey, sess.Token)
		// The index must outlive its longest member: NX covers a fresh set
		// with no TTL, GT then only ever extends.
		pipe.ExpireNX(ctx, ownerKey, ttl)
		pipe.ExpireGT(ctx, ownerKey, ttl)
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, token string) (*session.Session, error) {
	raw, err := s.client.Get(ctx, s.recordKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrSessionNotFound
		}
		return nil, unavailable(err)
	}

	var sess session.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, token string) error {
	sess, err := s.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.recordKey(token))
		pipe.SRem(ctx, s.ownerKey(sess.OwnerID), token)
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	ownerKey := s.ownerKey(ownerID)

	// Snapshot first, then sweep: a login racing this call may survive,
	// which the contract accepts.
	tokens, err := s.client.SMembers(ctx, ownerKey).Result()
	if err != nil {
		return unavailable(err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, s.recordKey(token))
	}
	keys = append(keys, ownerKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) RefreshTTL(ctx context.Context, token string, ttl time.Duration) error {
	now := time.Now()
	err := refreshScript.Run(ctx, s.client,
		[]string{s.recordKey(token)},
		now.Format(time.RFC3339Nano),
		now.Add(ttl).Format(time.RFC3339Nano),
		ttlSeconds(ttl),
		s.prefix,
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return unavailable(err)
	}
	return nil
}

func (s *Store) Rotate(ctx context.Context, oldToken, newToken, ownerID string, data map[string]any, ttl time.Duration) (*session.Session, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	raw, err := rotateScript.Run(ctx, s.client,
		[]string{s.recordKey(oldToken), s.recordKey(newToken), s.ownerKey(ownerID)},
		ownerID,
		newToken,
		now.Format(time.RFC3339Nano),
		now.Add(ttl).Format(time.RFC3339Nano),
		string(dataJSON),
		ttlSeconds(ttl),
	).Text()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrRotationConflict
		}
		return nil, unavailable(err)
	}

	var sess session.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) CountForOwner(ctx context.Context, ownerID string) (int, error) {
	ownerKey := s.ownerKey(ownerID)

	tokens, err := s.client.SMembers(ctx, ownerKey).Result()
	if err != nil {
		return 0, unavailable(err)
	}
	if len(tokens) == 0 {
		return 0, nil
	}

	cmds := make([]*redis.IntCmd, len(tokens))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, token := range tokens {
			cmds[i] = pipe.Exists(ctx, s.recordKey(token))
		}
		return nil
	})
	if err != nil {
		return 0, unavailable(err)
	}

	count := 0
	var stale []any
	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			count++
		} else {
			stale = append(stale, tokens[i])
		}
	}

	// Expired members linger in the set until observed; prune them so the
	// index does not grow with churn.
	if len(stale) > 0 {
		_ = s.client.SRem(ctx, ownerKey, stale...).Err()
	}

	return count, nil
}

func (s *Store) UpdateData(ctx context.Context, token string, data map[string]any) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}

	err = updateDataScript.Run(ctx, s.client, []string{s.recordKey(token)}, string(dataJSON)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.ErrSessionNotFound
		}
		return unavailable(err)
	}
	return nil
}

func (s *Store) recordKey(token string) string {
	return s.prefix + token
}

func (s *Store) ownerKey(ownerID string) string {
	return s.prefix + "owner:" + ownerID
}

func ttlSeconds(ttl time.Duration) int64 {
	if secs := int64(ttl.Seconds()); secs > 0 {
		return secs
	}
	return 1
}

func unavailable(err error) error {
	return errors.Join(session.ErrStoreUnavailable, err)
}
