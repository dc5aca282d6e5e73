// Package store persists cases and their document metadata.
package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"verifyflow/internal/casework/models"
	id "verifyflow/pkg/domain"
	"verifyflow/pkg/platform/sentinel"
)

// InMemory keeps cases in a map guarded by a single mutex. Execute holds the
// lock across validate and mutate so the pair is atomic per store.
type InMemory struct {
	mu        sync.RWMutex
	cases     map[id.CaseID]*models.Case
	documents map[id.DocumentID]id.CaseID
}

func NewInMemory() *InMemory {
	return &InMemory{
		cases:     make(map[id.CaseID]*models.Case),
		documents: make(map[id.DocumentID]id.CaseID),
	}
}

func (s *InMemory) Create(_ context.Context, c *models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cases[c.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.cases[c.ID] = c.Clone()
	s.indexDocuments(c)
	return nil
}

// FindByID returns the case row without its documents; use ListDocuments
// for those.
func (s *InMemory) FindByID(_ context.Context, caseID id.CaseID) (*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return withoutDocuments(c), nil
}

func (s *InMemory) ListDocuments(_ context.Context, caseID id.CaseID) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return slices.Clone(c.Documents), nil
}

// FindDocument resolves a document to its metadata and owning case.
func (s *InMemory) FindDocument(_ context.Context, docID id.DocumentID) (models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	caseID, ok := s.documents[docID]
	if !ok {
		return models.Document{}, sentinel.ErrNotFound
	}
	doc, ok := s.cases[caseID].Document(docID)
	if !ok {
		return models.Document{}, sentinel.ErrNotFound
	}
	return doc, nil
}

// ListByUser returns a user's cases, oldest first.
func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*models.Case, error) {
	return s.list(func(c *models.Case) bool { return c.UserID == userID }), nil
}

// ListByStatus returns cases in any of statuses, oldest first.
func (s *InMemory) ListByStatus(_ context.Context, statuses ...models.Status) ([]*models.Case, error) {
	return s.list(func(c *models.Case) bool { return slices.Contains(statuses, c.Status) }), nil
}

func (s *InMemory) CountByStatus(_ context.Context) (map[models.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.Status]int, len(models.AllStatuses()))
	for _, c := range s.cases {
		counts[c.Status]++
	}
	return counts, nil
}

// Execute runs validate then mutate on the stored case under the lock.
// The case passed to both callbacks carries its documents. If validate
// fails nothing is written.
func (s *InMemory) Execute(_ context.Context, caseID id.CaseID, validate func(*models.Case) error, mutate func(*models.Case)) (*models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.cases[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := stored.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)

	for _, d := range stored.Documents {
		delete(s.documents, d.ID)
	}
	s.cases[caseID] = working.Clone()
	s.indexDocuments(working)
	return working, nil
}

func (s *InMemory) indexDocuments(c *models.Case) {
	for _, d := range c.Documents {
		s.documents[d.ID] = c.ID
	}
}

func (s *InMemory) list(keep func(*models.Case) bool) []*models.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Case, 0)
	for _, c := range s.cases {
		if keep(c) {
			out = append(out, withoutDocuments(c))
		}
	}
	slices.SortFunc(out, func(a, b *models.Case) int {
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

func withoutDocuments(c *models.Case) *models.Case {
	cp := c.Clone()
	cp.Documents = []models.Document{}
	return cp
}
