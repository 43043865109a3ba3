package song

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

// InMemory is a mutex-guarded song store for tests and local development.
type InMemory struct {
	mu   sync.RWMutex
	byID map[domain.SongID]*models.Song
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[domain.SongID]*models.Song)}
}

func (s *InMemory) Create(_ context.Context, song *models.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[song.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *song
	s.byID[song.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.SongID) (*models.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	song, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *song
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, song *models.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[song.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *song
	s.byID[song.ID] = &cp
	return nil
}

// Execute atomically validates and mutates one song under the store lock.
func (s *InMemory) Execute(_ context.Context, id domain.SongID, validate func(*models.Song) error, mutate func(*models.Song)) (*models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	song, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(song); err != nil {
		return nil, err
	}
	mutate(song)
	cp := *song
	return &cp, nil
}

// List applies the policy filter. Visibility interpretation for songs:
// VisibleOnly means Status == active.
func (s *InMemory) List(_ context.Context, filter policy.ListFilter) ([]*models.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Song
	for _, song := range s.byID {
		if filter.OrganizationID != nil && song.OrganizationID != *filter.OrganizationID {
			continue
		}
		if filter.ArtistID != nil && song.ArtistID != *filter.ArtistID {
			continue
		}
		if filter.AlbumID != nil && song.AlbumID != *filter.AlbumID {
			continue
		}
		if filter.Deleted != nil && song.IsDeleted != *filter.Deleted {
			continue
		}
		if filter.VisibleOnly && song.Status != models.SongStatusActive {
			continue
		}
		cp := *song
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TrackNumber != out[j].TrackNumber {
			return out[i].TrackNumber < out[j].TrackNumber
		}
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out, nil
}

func (s *InMemory) HardDelete(_ context.Context, id domain.SongID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// DeleteByAlbum removes all songs under an album. Mirrors the postgres
// schema's ON DELETE CASCADE for album hard-deletes.
func (s *InMemory) DeleteByAlbum(_ context.Context, albumID domain.AlbumID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, song := range s.byID {
		if song.AlbumID == albumID {
			delete(s.byID, id)
		}
	}
	return nil
}

// DeleteByArtist removes all songs under an artist, mirroring the cascade.
func (s *InMemory) DeleteByArtist(_ context.Context, artistID domain.ArtistID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, song := range s.byID {
		if song.ArtistID == artistID {
			delete(s.byID, id)
		}
	}
	return nil
}
