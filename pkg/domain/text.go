package domain

import "github.com/google/uuid"

// Text marshalling for the typed IDs so JSON encodes them as canonical UUID
// strings rather than byte arrays.

func (id OrganizationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *OrganizationID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id AdministratorID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *AdministratorID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id ArtistID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *ArtistID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id AlbumID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *AlbumID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id SongID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *SongID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
