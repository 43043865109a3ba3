package domain

import (
	"github.com/google/uuid"

	dErrors "chorale/pkg/domain-errors"
)

// Typed entity identifiers. Distinct types keep an AlbumID from being passed
// where an ArtistID is expected; the compiler enforces what foreign keys only
// enforce at runtime.
type (
	OrganizationID  uuid.UUID
	AdministratorID uuid.UUID
	ArtistID        uuid.UUID
	AlbumID         uuid.UUID
	SongID          uuid.UUID
)

func (id OrganizationID) String() string  { return uuid.UUID(id).String() }
func (id AdministratorID) String() string { return uuid.UUID(id).String() }
func (id ArtistID) String() string        { return uuid.UUID(id).String() }
func (id AlbumID) String() string         { return uuid.UUID(id).String() }
func (id SongID) String() string          { return uuid.UUID(id).String() }

func (id OrganizationID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id AdministratorID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id ArtistID) IsZero() bool        { return uuid.UUID(id) == uuid.Nil }
func (id AlbumID) IsZero() bool         { return uuid.UUID(id) == uuid.Nil }
func (id SongID) IsZero() bool          { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseOrganizationID constructs an OrganizationID from external input.
// Call from handlers at trust boundaries; direct casting bypasses validation.
func ParseOrganizationID(s string) (OrganizationID, error) {
	u, err := parseUUID(s)
	return OrganizationID(u), err
}

func ParseAdministratorID(s string) (AdministratorID, error) {
	u, err := parseUUID(s)
	return AdministratorID(u), err
}

func ParseArtistID(s string) (ArtistID, error) {
	u, err := parseUUID(s)
	return ArtistID(u), err
}

func ParseAlbumID(s string) (AlbumID, error) {
	u, err := parseUUID(s)
	return AlbumID(u), err
}

func ParseSongID(s string) (SongID, error) {
	u, err := parseUUID(s)
	return SongID(u), err
}

// NewOrganizationID generates a fresh random OrganizationID.
func NewOrganizationID() OrganizationID { return OrganizationID(uuid.New()) }

func NewAdministratorID() AdministratorID { return AdministratorID(uuid.New()) }
func NewArtistID() ArtistID               { return ArtistID(uuid.New()) }
func NewAlbumID() AlbumID                 { return AlbumID(uuid.New()) }
func NewSongID() SongID                   { return SongID(uuid.New()) }
