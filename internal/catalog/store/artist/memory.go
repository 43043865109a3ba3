package artist

import (
	"context"
	"sort"
	"strings"
	"sync"

	"chorale/internal/catalog/models"
	"chorale/internal/catalog/policy"
	"chorale/pkg/domain"
	"chorale/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded artist store for tests and local development.
type InMemory struct {
	mu   sync.RWMutex
	byID map[domain.ArtistID]*models.Artist
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[domain.ArtistID]*models.Artist)}
}

func (s *InMemory) Create(_ context.Context, artist *models.Artist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[artist.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *artist
	s.byID[artist.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.ArtistID) (*models.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	artist, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *artist
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, artist *models.Artist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[artist.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *artist
	s.byID[artist.ID] = &cp
	return nil
}

// Execute atomically validates and mutates one artist under the store lock.
func (s *InMemory) Execute(_ context.Context, id domain.ArtistID, validate func(*models.Artist) error, mutate func(*models.Artist)) (*models.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	artist, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(artist); err != nil {
		return nil, err
	}
	mutate(artist)
	cp := *artist
	return &cp, nil
}

// List applies the policy filter. Visibility interpretation for artists:
// VisibleOnly means IsActive.
func (s *InMemory) List(_ context.Context, filter policy.ListFilter) ([]*models.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Artist
	for _, artist := range s.byID {
		if filter.OrganizationID != nil && artist.OrganizationID != *filter.OrganizationID {
			continue
		}
		if filter.Deleted != nil && artist.IsDeleted != *filter.Deleted {
			continue
		}
		if filter.VisibleOnly && !artist.IsActive {
			continue
		}
		cp := *artist
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// HardDelete removes the artist row and, like the postgres schema's cascade,
// everything under it is expected to be gone; callers own child cleanup.
func (s *InMemory) HardDelete(_ context.Context, id domain.ArtistID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// ApplyStatsDelta adjusts the denormalized child counters. Counts never go
// below zero; a drifted decrement clamps rather than corrupting display.
func (s *InMemory) ApplyStatsDelta(_ context.Context, id domain.ArtistID, albumsDelta, songsDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	artist, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	artist.Stats.AlbumsCount = clampNonNegative(artist.Stats.AlbumsCount + albumsDelta)
	artist.Stats.SongsCount = clampNonNegative(artist.Stats.SongsCount + songsDelta)
	return nil
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
