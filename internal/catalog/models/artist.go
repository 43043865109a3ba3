package models

import (
	"time"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

// ArtistStats are denormalized child counts maintained best-effort by the
// stats service. Display only — never a source of truth for authorization
// or anything billing-like; under concurrent writes they may drift.
type ArtistStats struct {
	AlbumsCount int `json:"albums_count"`
	SongsCount  int `json:"songs_count"`
}

// Artist is the top of the content hierarchy (performer).
//
// Invariants:
//   - Name is non-empty, at most 200 characters
//   - A soft-deleted artist is never publicly listed regardless of IsActive
//   - IsDeleted and IsActive are independent dimensions; soft-delete forces
//     IsActive=false in the same update as part of the cascade downgrade
type Artist struct {
	ID             domain.ArtistID       `json:"id"`
	OrganizationID domain.OrganizationID `json:"organization_id"`
	Name           string                `json:"name"`
	// ImageURL is an opaque asset reference from the blob store.
	ImageURL  string      `json:"image_url,omitempty"`
	Bio       string      `json:"bio,omitempty"`
	IsActive  bool        `json:"is_active"`
	IsDeleted bool        `json:"is_deleted"`
	Stats     ArtistStats `json:"stats"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PubliclyVisible reports whether the artist appears in guest/user listings.
func (a *Artist) PubliclyVisible() bool {
	return a.IsActive && !a.IsDeleted
}

func (a *Artist) CanSoftDelete() error {
	if a.IsDeleted {
		return dErrors.New(dErrors.CodeInvariantViolation, "artist is already deleted")
	}
	return nil
}

// ApplySoftDelete hides the artist and downgrades its visibility flag in the
// same mutation, so the cascade is one atomic store update.
func (a *Artist) ApplySoftDelete(now time.Time) {
	a.IsDeleted = true
	a.IsActive = false
	a.UpdatedAt = now
}

func (a *Artist) CanRestore() error {
	if !a.IsDeleted {
		return dErrors.New(dErrors.CodeInvariantViolation, "artist is not deleted")
	}
	return nil
}

// ApplyRestore clears the soft-delete flag. Visibility stays downgraded; an
// explicit edit is required to re-activate.
func (a *Artist) ApplyRestore(now time.Time) {
	a.IsDeleted = false
	a.UpdatedAt = now
}

func (a *Artist) CanEdit(name string) error {
	return validateArtistName(name)
}

// ApplyEdit updates the editable fields, including the visibility flag.
// Callers validate with CanEdit first.
func (a *Artist) ApplyEdit(name, imageURL, bio string, isActive bool, now time.Time) {
	a.Name = name
	a.ImageURL = imageURL
	a.Bio = bio
	a.IsActive = isActive
	a.UpdatedAt = now
}

func validateArtistName(name string) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "artist name cannot be empty")
	}
	if len(name) > 200 {
		return dErrors.New(dErrors.CodeInvariantViolation, "artist name must be 200 characters or less")
	}
	return nil
}

// NewArtist constructs an artist owned by the given organization.
func NewArtist(id domain.ArtistID, orgID domain.OrganizationID, name, imageURL, bio string, isActive bool, now time.Time) (*Artist, error) {
	if orgID.IsZero() {
		return nil, dErrors.New(dErrors.CodeConsistencyViolation, "artist must belong to an organization")
	}
	if err := validateArtistName(name); err != nil {
		return nil, err
	}
	return &Artist{
		ID:             id,
		OrganizationID: orgID,
		Name:           name,
		ImageURL:       imageURL,
		Bio:            bio,
		IsActive:       isActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
