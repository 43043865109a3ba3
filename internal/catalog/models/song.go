package models

import (
	"time"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

// SongStatus is the song's visibility status: active songs appear in public
// listings, archived songs are retained but hidden. Independent of the
// soft-delete flag.
type SongStatus string

const (
	SongStatusActive   SongStatus = "active"
	SongStatusArchived SongStatus = "archived"
)

func (s SongStatus) IsValid() bool {
	return s == SongStatusActive || s == SongStatusArchived
}

func ParseSongStatus(s string) (SongStatus, error) {
	status := SongStatus(s)
	if !status.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown song status: "+s)
	}
	return status, nil
}

// Song is the leaf of the content hierarchy (item).
//
// Invariants:
//   - Title is non-empty, at most 200 characters
//   - OrganizationID and ArtistID match the owning album's; creation with a
//     mismatched declared organization fails with ConsistencyViolation
//   - A soft-deleted song never appears in listings regardless of Status;
//     soft-delete forces Status to archived in the same update
type Song struct {
	ID             domain.SongID         `json:"id"`
	OrganizationID domain.OrganizationID `json:"organization_id"`
	ArtistID       domain.ArtistID       `json:"artist_id"`
	AlbumID        domain.AlbumID        `json:"album_id"`
	Title          string                `json:"title"`
	// AudioURL is an opaque asset reference from the blob store; stored and
	// returned verbatim, never interpreted.
	AudioURL        string     `json:"audio_url,omitempty"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	TrackNumber     int        `json:"track_number,omitempty"`
	Status          SongStatus `json:"status"`
	IsDeleted       bool       `json:"is_deleted"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// PubliclyVisible reports whether the song appears in guest/user listings.
func (s *Song) PubliclyVisible() bool {
	return s.Status == SongStatusActive && !s.IsDeleted
}

func (s *Song) CanSoftDelete() error {
	if s.IsDeleted {
		return dErrors.New(dErrors.CodeInvariantViolation, "song is already deleted")
	}
	return nil
}

// ApplySoftDelete hides the song and archives it in the same mutation.
func (s *Song) ApplySoftDelete(now time.Time) {
	s.IsDeleted = true
	s.Status = SongStatusArchived
	s.UpdatedAt = now
}

func (s *Song) CanRestore() error {
	if !s.IsDeleted {
		return dErrors.New(dErrors.CodeInvariantViolation, "song is not deleted")
	}
	return nil
}

// ApplyRestore clears the soft-delete flag; the song stays archived until an
// explicit edit re-activates it.
func (s *Song) ApplyRestore(now time.Time) {
	s.IsDeleted = false
	s.UpdatedAt = now
}

func (s *Song) CanEdit(title string, status SongStatus) error {
	if err := validateSongTitle(title); err != nil {
		return err
	}
	if !status.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown song status: "+string(status))
	}
	return nil
}

// ApplyEdit updates the editable fields, including the visibility status.
// Callers validate with CanEdit first.
func (s *Song) ApplyEdit(title, audioURL string, durationSeconds, trackNumber int, status SongStatus, now time.Time) {
	s.Title = title
	s.AudioURL = audioURL
	s.DurationSeconds = durationSeconds
	s.TrackNumber = trackNumber
	s.Status = status
	s.UpdatedAt = now
}

func validateSongTitle(title string) error {
	if title == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "song title cannot be empty")
	}
	if len(title) > 200 {
		return dErrors.New(dErrors.CodeInvariantViolation, "song title must be 200 characters or less")
	}
	return nil
}

// NewSong constructs a song under the given album. The declared organization
// must match the album's organization; the artist link is derived from the
// album so the redundant keys cannot diverge from the chain.
func NewSong(id domain.SongID, orgID domain.OrganizationID, album *Album, title, audioURL string, durationSeconds, trackNumber int, status SongStatus, now time.Time) (*Song, error) {
	if album == nil {
		return nil, dErrors.New(dErrors.CodeConsistencyViolation, "song must belong to an album")
	}
	if album.OrganizationID != orgID {
		return nil, dErrors.New(dErrors.CodeConsistencyViolation, "album belongs to a different organization")
	}
	if err := validateSongTitle(title); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown song status: "+string(status))
	}
	return &Song{
		ID:              id,
		OrganizationID:  orgID,
		ArtistID:        album.ArtistID,
		AlbumID:         album.ID,
		Title:           title,
		AudioURL:        audioURL,
		DurationSeconds: durationSeconds,
		TrackNumber:     trackNumber,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
