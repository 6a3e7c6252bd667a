package idempotency

import (
	"context"
	"sync"
	"time"
)

// Store guards against double submission of the same user action. Claim
// returns true exactly once per key within the replay window; a duplicate
// claim (double-clicked button, retried form post) returns false.
type Store interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// MemoryStore is the in-process Store used in tests and in deployments
// without redis.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:  ttl,
		now:  time.Now,
		seen: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Claim(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiry, ok := s.seen[key]; ok && now.Before(expiry) {
		return false, nil
	}
	s.seen[key] = now.Add(s.ttl)

	// Opportunistic prune so the map does not grow without bound.
	for k, expiry := range s.seen {
		if now.After(expiry) {
			delete(s.seen, k)
		}
	}
	return true, nil
}
