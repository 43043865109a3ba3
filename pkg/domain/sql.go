package domain

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

// database/sql plumbing for the typed IDs. Named types do not inherit
// uuid.UUID's Scanner/Valuer methods, so each delegates explicitly.

func (id OrganizationID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *OrganizationID) Scan(src any) error          { return (*uuid.UUID)(id).Scan(src) }

func (id AdministratorID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *AdministratorID) Scan(src any) error          { return (*uuid.UUID)(id).Scan(src) }

func (id ArtistID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *ArtistID) Scan(src any) error          { return (*uuid.UUID)(id).Scan(src) }

func (id AlbumID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *AlbumID) Scan(src any) error          { return (*uuid.UUID)(id).Scan(src) }

func (id SongID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *SongID) Scan(src any) error          { return (*uuid.UUID)(id).Scan(src) }
