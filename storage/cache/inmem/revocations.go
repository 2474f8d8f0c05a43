package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
)

// RevocationStore is a process-local auth.RevocationStore, used when Redis is disabled and in tests.
type RevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time // {jti: until}
	now     core.Clock
}

var _ auth.RevocationStore = (*RevocationStore)(nil)

func NewRevocationStore() *RevocationStore {
	return &RevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (r *RevocationStore) Revoke(_ context.Context, jti string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, exp := range r.revoked {
		if !now.Before(exp) {
			delete(r.revoked, id)
		}
	}
	if now.Before(until) {
		r.revoked[jti] = until
	}
	return nil
}

func (r *RevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	until, ok := r.revoked[jti]
	return ok && r.now().Before(until), nil
}
