package handler

import (
	"chorale/internal/catalog/models"
	"chorale/internal/catalog/service"
)

// CreateArtistResponse is the HTTP response for POST /artists. Advisory is
// set when the publication policy forced the artist into a hidden draft.
type CreateArtistResponse struct {
	Artist   *models.Artist `json:"artist"`
	Advisory string         `json:"advisory,omitempty"`
}

func FromCreatedArtist(created *service.CreatedArtist) *CreateArtistResponse {
	return &CreateArtistResponse{Artist: created.Artist, Advisory: created.Advisory}
}

// ArtistListResponse is the HTTP response for GET /artists.
type ArtistListResponse struct {
	Artists []*models.Artist `json:"artists"`
}

// CreateAlbumResponse is the HTTP response for POST /albums.
type CreateAlbumResponse struct {
	Album    *models.Album `json:"album"`
	Advisory string        `json:"advisory,omitempty"`
}

func FromCreatedAlbum(created *service.CreatedAlbum) *CreateAlbumResponse {
	return &CreateAlbumResponse{Album: created.Album, Advisory: created.Advisory}
}

// AlbumListResponse is the HTTP response for GET /albums.
type AlbumListResponse struct {
	Albums []*models.Album `json:"albums"`
}

// CreateSongResponse is the HTTP response for POST /songs.
type CreateSongResponse struct {
	Song     *models.Song `json:"song"`
	Advisory string       `json:"advisory,omitempty"`
}

func FromCreatedSong(created *service.CreatedSong) *CreateSongResponse {
	return &CreateSongResponse{Song: created.Song, Advisory: created.Advisory}
}

// SongListResponse is the HTTP response for GET /songs.
type SongListResponse struct {
	Songs []*models.Song `json:"songs"`
}
