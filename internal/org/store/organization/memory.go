package organization

import (
	"context"
	"sort"
	"strings"
	"sync"

	"chorale/internal/org/models"
	"chorale/pkg/domain"
	"chorale/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded organization store for tests and local
// development. Name uniqueness is case-insensitive, matching the postgres
// store's functional unique index.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[domain.OrganizationID]*models.Organization
	byName map[string]domain.OrganizationID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[domain.OrganizationID]*models.Organization),
		byName: make(map[string]domain.OrganizationID),
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *InMemory) CreateIfNameAvailable(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := nameKey(org.Name)
	if _, taken := s.byName[key]; taken {
		return sentinel.ErrAlreadyUsed
	}
	if _, exists := s.byID[org.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *org
	s.byID[org.ID] = &cp
	s.byName[key] = org.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.OrganizationID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *org
	return &cp, nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[nameKey(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[org.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *org
	s.byID[org.ID] = &cp
	return nil
}

// Execute atomically validates and mutates one organization under the store
// lock, returning the updated copy.
func (s *InMemory) Execute(_ context.Context, id domain.OrganizationID, validate func(*models.Organization) error, mutate func(*models.Organization)) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	org, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(org); err != nil {
		return nil, err
	}
	mutate(org)
	cp := *org
	return &cp, nil
}

// List returns all organizations ordered by name. Dashboard use only.
func (s *InMemory) List(_ context.Context) ([]*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Organization, 0, len(s.byID))
	for _, org := range s.byID {
		cp := *org
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return nameKey(out[i].Name) < nameKey(out[j].Name) })
	return out, nil
}
