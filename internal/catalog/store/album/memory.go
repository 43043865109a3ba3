package album

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

// InMemory is a mutex-guarded album store for tests and local development.
type InMemory struct {
	mu   sync.RWMutex
	byID map[domain.AlbumID]*models.Album
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[domain.AlbumID]*models.Album)}
}

func (s *InMemory) Create(_ context.Context, album *models.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[album.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *album
	s.byID[album.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.AlbumID) (*models.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	album, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *album
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, album *models.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[album.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *album
	s.byID[album.ID] = &cp
	return nil
}

// Execute atomically validates and mutates one album under the store lock.
func (s *InMemory) Execute(_ context.Context, id domain.AlbumID, validate func(*models.Album) error, mutate func(*models.Album)) (*models.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	album, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(album); err != nil {
		return nil, err
	}
	mutate(album)
	cp := *album
	return &cp, nil
}

// List applies the policy filter. Visibility interpretation for albums:
// VisibleOnly means IsPublished.
func (s *InMemory) List(_ context.Context, filter policy.ListFilter) ([]*models.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Album
	for _, album := range s.byID {
		if filter.OrganizationID != nil && album.OrganizationID != *filter.OrganizationID {
			continue
		}
		if filter.ArtistID != nil && album.ArtistID != *filter.ArtistID {
			continue
		}
		if filter.Deleted != nil && album.IsDeleted != *filter.Deleted {
			continue
		}
		if filter.VisibleOnly && !album.IsPublished {
			continue
		}
		cp := *album
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out, nil
}

func (s *InMemory) HardDelete(_ context.Context, id domain.AlbumID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// DeleteByArtist removes all albums under an artist. Mirrors the postgres
// schema's ON DELETE CASCADE for artist hard-deletes.
func (s *InMemory) DeleteByArtist(_ context.Context, artistID domain.ArtistID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, album := range s.byID {
		if album.ArtistID == artistID {
			delete(s.byID, id)
		}
	}
	return nil
}

// ApplyStatsDelta adjusts the denormalized song counter, clamped at zero.
func (s *InMemory) ApplyStatsDelta(_ context.Context, id domain.AlbumID, songsDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	album, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	album.Stats.SongsCount += songsDelta
	if album.Stats.SongsCount < 0 {
		album.Stats.SongsCount = 0
	}
	return nil
}
