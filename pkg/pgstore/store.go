package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// Store implements session.Store on PostgreSQL. Expiry is logical: reads
// filter on expires_at and DeleteExpired reclaims rows, so a lapsed record
// is invisible regardless of when it is physically removed. The owner index
// is the owner_id column itself; no separate structure is needed.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// Option configures the store.
type Option func(*Store)

// WithTable overrides the table name, "sessions" by default. The value is
// interpolated into SQL; it must come from configuration, never from user
// input.
func WithTable(table string) Option {
	return func(s *Store) {
		if table != "" {
			s.table = table
		}
	}
}

// New creates a PostgreSQL-backed session store. The pool's lifecycle
// belongs to the caller.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{
		pool:  pool,
		table: "sessions",
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

	data, err := json.Marshal(sess.Data)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO `+s.table+` (token, chain_id, owner_id, ip, user_agent, data, created_at, last_activity_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (token) DO UPDATE SET
			chain_id = EXCLUDED.chain_id,
			owner_id = EXCLUDED.owner_id,
			ip = EXCLUDED.ip,
			user_agent = EXCLUDED.user_agent,
			data = EXCLUDED.data,
			created_at = EXCLUDED.created_at,
			last_activity_at = EXCLUDED.last_activity_at,
			expires_at = EXCLUDED.expires_at`,
		sess.Token, sess.ID, sess.OwnerID, sess.IP, sess.UserAgent, data,
		sess.CreatedAt, sess.LastActivityAt, sess.LastActivityAt.Add(ttl),
	)
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, token string) (*session.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT token, chain_id, owner_id, ip, user_agent, data, created_at, last_activity_at, expires_at
		FROM `+s.table+`
		WHERE token = $1 AND expires_at > now()`,
		token,
	)
	return scanSession(row)
}

func (s *Store) Delete(ctx context.Context, token string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM `+s.table+` WHERE token = $1`, token); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM `+s.table+` WHERE owner_id = $1`, ownerID); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) RefreshTTL(ctx context.Context, token string, ttl time.Duration) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE `+s.table+`
		SET last_activity_at = now(), expires_at = now() + $2
		WHERE token = $1 AND expires_at > now()`,
		token, ttl,
	)
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// Rotate is a single data-modifying CTE: the delete of the old row performs
// the liveness and ownership checks, and the insert of the new row only
// happens when that delete found exactly one row. One statement, one
// snapshot, so two rotations racing on the same token get exactly one
// winner and the loser's delete matches nothing.
func (s *Store) Rotate(ctx context.Context, oldToken, newToken, ownerID string, data map[string]any, ttl time.Duration) (*session.Session, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx, `
		WITH old AS (
			DELETE FROM `+s.table+`
			WHERE token = $1 AND owner_id = $3 AND expires_at > now()
			RETURNING chain_id, ip, user_agent, created_at
		)
		INSERT INTO `+s.table+` (token, chain_id, owner_id, ip, user_agent, data, created_at, last_activity_at, expires_at)
		SELECT $2, old.chain_id, $3, old.ip, old.user_agent, $4, old.created_at, now(), now() + $5
		FROM old
		RETURNING token, chain_id, owner_id, ip, user_agent, data, created_at, last_activity_at, expires_at`,
		oldToken, newToken, ownerID, payload, ttl,
	)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, session.ErrRotationConflict
		}
		return nil, err
	}
	return sess, nil
}

func (s *Store) CountForOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM `+s.table+`
		WHERE owner_id = $1 AND expires_at > now()`,
		ownerID,
	).Scan(&count)
	if err != nil {
		return 0, unavailable(err)
	}
	return count, nil
}

func (s *Store) UpdateData(ctx context.Context, token string, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE `+s.table+`
		SET data = $2
		WHERE token = $1 AND expires_at > now()`,
		token, payload,
	)
	if err != nil {
		return unavailable(err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired reclaims rows whose logical TTL has lapsed. Run it
// periodically; reads never return such rows either way.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM `+s.table+` WHERE expires_at <= now()`)
	if err != nil {
		return 0, unavailable(err)
	}
	return tag.RowsAffected(), nil
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var (
		sess    session.Session
		chainID uuid.UUID
		data    []byte
	)
	err := row.Scan(&sess.Token, &chainID, &sess.OwnerID, &sess.IP, &sess.UserAgent,
		&data, &sess.CreatedAt, &sess.LastActivityAt, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, unavailable(err)
	}

	sess.ID = chainID
	if len(data) > 0 {
		if err := json.Unmarshal(data, &sess.Data); err != nil {
			return nil, err
		}
	}
	return &sess, nil
}

func unavailable(err error) error {
	return errors.Join(session.ErrStoreUnavailable, err)
}
