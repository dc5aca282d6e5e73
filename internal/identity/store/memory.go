// Package store persists identity provider accounts.
package store

import (
	"context"
	"sync"

	"verifyflow/internal/identity/models"
	id "verifyflow/pkg/domain"
	"verifyflow/pkg/platform/sentinel"
)

// InMemoryUserStore keeps users keyed by ID with an email index.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]*models.User
	byEmail map[string]id.UserID
}

func NewInMemory() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

// Create stores a new user. A taken email or ID returns ErrAlreadyUsed.
func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[user.Email]; taken {
		return sentinel.ErrAlreadyUsed
	}
	if _, taken := s.users[user.ID]; taken {
		return sentinel.ErrAlreadyUsed
	}
	cp := *user
	s.users[user.ID] = &cp
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.users[userID]
	return &cp, nil
}
