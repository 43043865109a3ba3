package admin

import (
	"context"
	"sync"

	"chorale/internal/org/models"
	"chorale/pkg/domain"
	"chorale/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded administrator store. The one-admin-per-
// organization invariant is enforced here the way the postgres store's unique
// index enforces it.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[domain.AdministratorID]*models.Administrator
	byOrg map[domain.OrganizationID]domain.AdministratorID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:  make(map[domain.AdministratorID]*models.Administrator),
		byOrg: make(map[domain.OrganizationID]domain.AdministratorID),
	}
}

func (s *InMemory) Create(_ context.Context, admin *models.Administrator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byOrg[admin.OrganizationID]; taken {
		return sentinel.ErrAlreadyUsed
	}
	if _, exists := s.byID[admin.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *admin
	s.byID[admin.ID] = &cp
	s.byOrg[admin.OrganizationID] = admin.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.AdministratorID) (*models.Administrator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *admin
	return &cp, nil
}

// FindByOrganization returns the administrator linked to the organization, or
// ErrNotFound when the organization has none (the link is optional).
func (s *InMemory) FindByOrganization(_ context.Context, orgID domain.OrganizationID) (*models.Administrator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byOrg[orgID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, admin *models.Administrator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[admin.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *admin
	s.byID[admin.ID] = &cp
	return nil
}
