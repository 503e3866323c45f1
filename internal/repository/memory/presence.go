package memory

import (
	"context"
	"sync"
	"time"
)

type PresenceStore struct {
	now func() time.Time

	mu      sync.RWMutex
	expires map[string]time.Time
}

func NewPresenceStore(now func() time.Time) *PresenceStore {
	return &PresenceStore{
		now:     now,
		expires: make(map[string]time.Time),
	}
}

func (that *PresenceStore) MarkOnline(_ context.Context, username string, ttl time.Duration) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.expires[username] = that.now().Add(ttl)

	return nil
}

func (that *PresenceStore) MarkOffline(_ context.Context, username string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.expires, username)

	return nil
}

func (that *PresenceStore) IsOnline(_ context.Context, username string) (bool, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	expires, ok := that.expires[username]

	return ok && that.now().Before(expires), nil
}
