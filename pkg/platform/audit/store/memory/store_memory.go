package memory

import (
	"context"
	"sync"

	id "verifyflow/pkg/domain"
	audit "verifyflow/pkg/platform/audit"
)

// InMemoryStore keeps events in append order. Used when no broker or
// database is configured, and in tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]audit.Event, error) {
	return s.filter(func(e audit.Event) bool { return e.UserID == userID }), nil
}

// ListByCase returns a case's trail, oldest first.
func (s *InMemoryStore) ListByCase(_ context.Context, caseID id.CaseID) ([]audit.Event, error) {
	key := caseID.String()
	return s.filter(func(e audit.Event) bool { return e.CaseID == key }), nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	return s.filter(func(audit.Event) bool { return true }), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func (s *InMemoryStore) filter(keep func(audit.Event) bool) []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []audit.Event{}
	for _, e := range s.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
