package handler

import (
	"strings"
	"time"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

// CreateArtistRequest is the HTTP request body for POST /artists.
type CreateArtistRequest struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	ImageURL       string `json:"image_url"`
	Bio            string `json:"bio"`
	// Visible is the requested initial visibility; omitted means the default.
	Visible *bool `json:"visible"`

	parsedOrgID domain.OrganizationID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateArtistRequest) Validate() error {
	orgID, err := domain.ParseOrganizationID(strings.TrimSpace(r.OrganizationID))
	if err != nil {
		return err
	}
	r.parsedOrgID = orgID
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	return nil
}

// ParsedOrganizationID returns the validated organization ID.
func (r *CreateArtistRequest) ParsedOrganizationID() domain.OrganizationID {
	return r.parsedOrgID
}

// UpdateArtistRequest is the HTTP request body for PUT /artists/{artistID}.
type UpdateArtistRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Bio      string `json:"bio"`
	Visible  bool   `json:"visible"`
}

func (r *UpdateArtistRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	return nil
}

// CreateAlbumRequest is the HTTP request body for POST /albums.
type CreateAlbumRequest struct {
	OrganizationID string     `json:"organization_id"`
	ArtistID       string     `json:"artist_id"`
	Title          string     `json:"title"`
	CoverURL       string     `json:"cover_url"`
	Visible        *bool      `json:"visible"`
	ReleasedAt     *time.Time `json:"released_at"`

	parsedOrgID    domain.OrganizationID
	parsedArtistID domain.ArtistID
}

func (r *CreateAlbumRequest) Validate() error {
	orgID, err := domain.ParseOrganizationID(strings.TrimSpace(r.OrganizationID))
	if err != nil {
		return err
	}
	r.parsedOrgID = orgID
	artistID, err := domain.ParseArtistID(strings.TrimSpace(r.ArtistID))
	if err != nil {
		return err
	}
	r.parsedArtistID = artistID
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeBadRequest, "title is required")
	}
	return nil
}

func (r *CreateAlbumRequest) ParsedOrganizationID() domain.OrganizationID { return r.parsedOrgID }
func (r *CreateAlbumRequest) ParsedArtistID() domain.ArtistID             { return r.parsedArtistID }

// UpdateAlbumRequest is the HTTP request body for PUT /albums/{albumID}.
type UpdateAlbumRequest struct {
	Title    string `json:"title"`
	CoverURL string `json:"cover_url"`
	Visible  bool   `json:"visible"`
	Featured bool   `json:"featured"`
}

func (r *UpdateAlbumRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeBadRequest, "title is required")
	}
	return nil
}

// CreateSongRequest is the HTTP request body for POST /songs.
type CreateSongRequest struct {
	OrganizationID  string `json:"organization_id"`
	AlbumID         string `json:"album_id"`
	Title           string `json:"title"`
	AudioURL        string `json:"audio_url"`
	DurationSeconds int    `json:"duration_seconds"`
	TrackNumber     int    `json:"track_number"`
	Visible         *bool  `json:"visible"`

	parsedOrgID   domain.OrganizationID
	parsedAlbumID domain.AlbumID
}

func (r *CreateSongRequest) Validate() error {
	orgID, err := domain.ParseOrganizationID(strings.TrimSpace(r.OrganizationID))
	if err != nil {
		return err
	}
	r.parsedOrgID = orgID
	albumID, err := domain.ParseAlbumID(strings.TrimSpace(r.AlbumID))
	if err != nil {
		return err
	}
	r.parsedAlbumID = albumID
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeBadRequest, "title is required")
	}
	if r.DurationSeconds < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "duration_seconds must not be negative")
	}
	if r.TrackNumber < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "track_number must not be negative")
	}
	return nil
}

func (r *CreateSongRequest) ParsedOrganizationID() domain.OrganizationID { return r.parsedOrgID }
func (r *CreateSongRequest) ParsedAlbumID() domain.AlbumID               { return r.parsedAlbumID }

// UpdateSongRequest is the HTTP request body for PUT /songs/{songID}.
type UpdateSongRequest struct {
	Title           string `json:"title"`
	AudioURL        string `json:"audio_url"`
	DurationSeconds int    `json:"duration_seconds"`
	TrackNumber     int    `json:"track_number"`
	Visible         bool   `json:"visible"`
}

func (r *UpdateSongRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeBadRequest, "title is required")
	}
	if r.DurationSeconds < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "duration_seconds must not be negative")
	}
	if r.TrackNumber < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "track_number must not be negative")
	}
	return nil
}
