package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryTRL is a single-process revocation list. Expired entries are
// dropped lazily on lookup and on every revoke.
type InMemoryTRL struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

type InMemoryOption func(*InMemoryTRL)

// WithClock overrides the time source.
func WithClock(now func() time.Time) InMemoryOption {
	return func(t *InMemoryTRL) {
		t.now = now
	}
}

func NewInMemoryTRL(opts ...InMemoryOption) *InMemoryTRL {
	t := &InMemoryTRL{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *InMemoryTRL) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for k, exp := range t.revoked {
		if !now.Before(exp) {
			delete(t.revoked, k)
		}
	}
	t.revoked[jti] = now.Add(ttl)
	return nil
}

func (t *InMemoryTRL) IsRevoked(_ context.Context, jti string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	exp, ok := t.revoked[jti]
	if !ok {
		return false, nil
	}
	if !t.now().Before(exp) {
		delete(t.revoked, jti)
		return false, nil
	}
	return true, nil
}
