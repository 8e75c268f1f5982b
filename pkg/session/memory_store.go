package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore implements Store with a mutex-guarded map and a per-owner
// token index. Suitable for tests and single-process deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	owners   map[string]map[string]struct{}
	ticker   *time.Ticker
	done     chan struct{}
}

// NewMemoryStore creates an in-memory store. A positive cleanupInterval
// starts a janitor goroutine that sweeps expired records; stop it with Close.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		owners:   make(map[string]map[string]struct{}),
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		go s.cleanupLoop()
	}

	return s
}

func (s *MemoryStore) Create(ctx context.Context, sess *Session, ttl time.Duration) error {
	if sess == nil || sess.Token == "" || sess.OwnerID == "" {
		return ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Upsert over a token that belonged to someone else must not leave a
	// stale index entry behind.
	if prev, ok := s.sessions[sess.Token]; ok && prev.OwnerID != sess.OwnerID {
		s.removeOwnerIndex(prev.OwnerID, prev.Token)
	}

	s.sessions[sess.Token] = sess.Clone()
	s.addOwnerIndex(sess.OwnerID, sess.Token)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	// The expiry check and the clone both read fields that RefreshTTL and
	// UpdateData mutate under the write lock, so they must happen before the
	// read lock is released.
	s.mu.RLock()
	sess, ok := s.sessions[token]
	if !ok {
		s.mu.RUnlock()
		return nil, ErrSessionNotFound
	}
	expired := sess.IsExpired()
	var cloned *Session
	if !expired {
		cloned = sess.Clone()
	}
	s.mu.RUnlock()

	if expired {
		s.mu.Lock()
		// Re-check: the token may have been replaced by a live record
		// between the two lock acquisitions.
		if cur, ok := s.sessions[token]; ok && cur.IsExpired() {
			s.removeLocked(token)
		}
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	return cloned, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(token)
	return nil
}

func (s *MemoryStore) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token := range s.owners[ownerID] {
		delete(s.sessions, token)
	}
	delete(s.owners, ownerID)
	return nil
}

func (s *MemoryStore) RefreshTTL(ctx context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || sess.IsExpired() {
		return nil
	}

	now := time.Now()
	sess.LastActivityAt = now
	sess.ExpiresAt = now.Add(ttl)
	return nil
}

func (s *MemoryStore) Rotate(ctx context.Context, oldToken, newToken, ownerID string, data map[string]any, ttl time.Duration) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.sessions[oldToken]
	if !ok || old.IsExpired() || old.OwnerID != ownerID {
		return nil, ErrRotationConflict
	}

	now := time.Now()
	rotated := &Session{
		ID:             old.ID,
		Token:          newToken,
		OwnerID:        old.OwnerID,
		IP:             old.IP,
		UserAgent:      old.UserAgent,
		Data:           maps.Clone(data),
		CreatedAt:      old.CreatedAt,
		LastActivityAt: now,
		ExpiresAt:      now.Add(ttl),
	}

	s.sessions[newToken] = rotated
	s.addOwnerIndex(ownerID, newToken)
	s.removeLocked(oldToken)

	return rotated.Clone(), nil
}

func (s *MemoryStore) CountForOwner(ctx context.Context, ownerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for token := range s.owners[ownerID] {
		sess, ok := s.sessions[token]
		if !ok || sess.IsExpired() {
			// Prune stale index entries while counting.
			s.removeLocked(token)
			s.removeOwnerIndex(ownerID, token)
			continue
		}
		count++
	}
	return count, nil
}

func (s *MemoryStore) UpdateData(ctx context.Context, token string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || sess.IsExpired() {
		return ErrSessionNotFound
	}

	sess.Data = maps.Clone(data)
	return nil
}

// DeleteExpired sweeps every expired record. It is called by the janitor and
// can be invoked directly by deployments that disable the ticker.
func (s *MemoryStore) DeleteExpired(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			s.removeLocked(token)
		}
	}
	return nil
}

// Close stops the janitor goroutine.
func (s *MemoryStore) Close() error {
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
	}
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-s.ticker.C:
			_ = s.DeleteExpired(context.Background())
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) removeLocked(token string) {
	sess, ok := s.sessions[token]
	if !ok {
		return
	}
	delete(s.sessions, token)
	s.removeOwnerIndex(sess.OwnerID, token)
}

func (s *MemoryStore) addOwnerIndex(ownerID, token string) {
	set, ok := s.owners[ownerID]
	if !ok {
		set = make(map[string]struct{})
		s.owners[ownerID] = set
	}
	set[token] = struct{}{}
}

func (s *MemoryStore) removeOwnerIndex(ownerID, token string) {
	set, ok := s.owners[ownerID]
	if !ok {
		return
	}
	delete(set, token)
	if len(set) == 0 {
		delete(s.owners, ownerID)
	}
}
