package models

import (
	"time"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

// AlbumStats are denormalized child counts, display only (see ArtistStats).
type AlbumStats struct {
	SongsCount int `json:"songs_count"`
}

// Album is the middle of the content hierarchy (collection).
//
// Invariants:
//   - Title is non-empty, at most 200 characters
//   - OrganizationID matches the owning artist's organization; creation with
//     a mismatched declared organization fails with ConsistencyViolation
//   - IsFeatured is meaningful only while IsPublished is true
//   - Soft-delete forces IsPublished and IsFeatured to false in the same update
//
// ArtistID is also stored on the album so visibility filtering stays
// single-hop; it must stay consistent with the chain at creation time.
type Album struct {
	ID             domain.AlbumID        `json:"id"`
	OrganizationID domain.OrganizationID `json:"organization_id"`
	ArtistID       domain.ArtistID       `json:"artist_id"`
	Title          string                `json:"title"`
	CoverURL       string                `json:"cover_url,omitempty"`
	IsPublished    bool                  `json:"is_published"`
	IsFeatured     bool                  `json:"is_featured"`
	IsDeleted      bool                  `json:"is_deleted"`
	Stats          AlbumStats            `json:"stats"`
	ReleasedAt     *time.Time            `json:"released_at,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// PubliclyVisible reports whether the album appears in guest/user listings.
func (a *Album) PubliclyVisible() bool {
	return a.IsPublished && !a.IsDeleted
}

func (a *Album) CanSoftDelete() error {
	if a.IsDeleted {
		return dErrors.New(dErrors.CodeInvariantViolation, "album is already deleted")
	}
	return nil
}

// ApplySoftDelete hides the album and downgrades both visibility flags in the
// same mutation.
func (a *Album) ApplySoftDelete(now time.Time) {
	a.IsDeleted = true
	a.IsPublished = false
	a.IsFeatured = false
	a.UpdatedAt = now
}

func (a *Album) CanRestore() error {
	if !a.IsDeleted {
		return dErrors.New(dErrors.CodeInvariantViolation, "album is not deleted")
	}
	return nil
}

// ApplyRestore clears the soft-delete flag; republishing takes a separate edit.
func (a *Album) ApplyRestore(now time.Time) {
	a.IsDeleted = false
	a.UpdatedAt = now
}

func (a *Album) CanEdit(title string) error {
	return validateAlbumTitle(title)
}

// ApplyEdit updates the editable fields. Featuring an unpublished album is a
// no-op flag combination the UI never produces; it is normalized away here.
// Callers validate with CanEdit first.
func (a *Album) ApplyEdit(title, coverURL string, isPublished, isFeatured bool, now time.Time) {
	a.Title = title
	a.CoverURL = coverURL
	a.IsPublished = isPublished
	a.IsFeatured = isFeatured && isPublished
	a.UpdatedAt = now
}

func validateAlbumTitle(title string) error {
	if title == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "album title cannot be empty")
	}
	if len(title) > 200 {
		return dErrors.New(dErrors.CodeInvariantViolation, "album title must be 200 characters or less")
	}
	return nil
}

// NewAlbum constructs an album under the given artist. The declared
// organization must match the artist's; the redundant foreign keys exist for
// single-hop filtering and must be consistent from the start.
func NewAlbum(id domain.AlbumID, orgID domain.OrganizationID, artist *Artist, title, coverURL string, isPublished bool, now time.Time) (*Album, error) {
	if artist == nil {
		return nil, dErrors.New(dErrors.CodeConsistencyViolation, "album must belong to an artist")
	}
	if artist.OrganizationID != orgID {
		return nil, dErrors.New(dErrors.CodeConsistencyViolation, "artist belongs to a different organization")
	}
	if err := validateAlbumTitle(title); err != nil {
		return nil, err
	}
	return &Album{
		ID:             id,
		OrganizationID: orgID,
		ArtistID:       artist.ID,
		Title:          title,
		CoverURL:       coverURL,
		IsPublished:    isPublished,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
