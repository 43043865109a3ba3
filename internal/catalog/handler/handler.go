// Package handler exposes the content catalog over HTTP: creation, listing,
// edits and the delete/restore lifecycle for artists, albums and songs.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chorale/internal/catalog/models"
	"chorale/internal/catalog/policy"
	"chorale/internal/catalog/service"
	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

// Service defines the catalog operations the handler needs.
type Service interface {
	CreateArtist(ctx context.Context, actor domain.Actor, in service.CreateArtistInput) (*service.CreatedArtist, error)
	GetArtist(ctx context.Context, actor domain.Actor, id domain.ArtistID) (*models.Artist, error)
	ListArtists(ctx context.Context, actor domain.Actor, params policy.ListParams) ([]*models.Artist, error)
	UpdateArtist(ctx context.Context, actor domain.Actor, id domain.ArtistID, in service.UpdateArtistInput) (*models.Artist, error)
	SoftDeleteArtist(ctx context.Context, actor domain.Actor, id domain.ArtistID) (*models.Artist, error)
	RestoreArtist(ctx context.Context, actor domain.Actor, id domain.ArtistID) (*models.Artist, error)
	HardDeleteArtist(ctx context.Context, actor domain.Actor, id domain.ArtistID) error

	CreateAlbum(ctx context.Context, actor domain.Actor, in service.CreateAlbumInput) (*service.CreatedAlbum, error)
	GetAlbum(ctx context.Context, actor domain.Actor, id domain.AlbumID) (*models.Album, error)
	ListAlbums(ctx context.Context, actor domain.Actor, params policy.ListParams) ([]*models.Album, error)
	UpdateAlbum(ctx context.Context, actor domain.Actor, id domain.AlbumID, in service.UpdateAlbumInput) (*models.Album, error)
	SoftDeleteAlbum(ctx context.Context, actor domain.Actor, id domain.AlbumID) (*models.Album, error)
	RestoreAlbum(ctx context.Context, actor domain.Actor, id domain.AlbumID) (*models.Album, error)
	HardDeleteAlbum(ctx context.Context, actor domain.Actor, id domain.AlbumID) error

	CreateSong(ctx context.Context, actor domain.Actor, in service.CreateSongInput) (*service.CreatedSong, error)
	GetSong(ctx context.Context, actor domain.Actor, id domain.SongID) (*models.Song, error)
	ListSongs(ctx context.Context, actor domain.Actor, params policy.ListParams) ([]*models.Song, error)
	UpdateSong(ctx context.Context, actor domain.Actor, id domain.SongID, in service.UpdateSongInput) (*models.Song, error)
	SoftDeleteSong(ctx context.Context, actor domain.Actor, id domain.SongID) (*models.Song, error)
	RestoreSong(ctx context.Context, actor domain.Actor, id domain.SongID) (*models.Song, error)
	HardDeleteSong(ctx context.Context, actor domain.Actor, id domain.SongID) error
}

// Handler wires catalog endpoints to the catalog service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a catalog handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts catalog endpoints on the router. Soft delete is the plain
// DELETE; hard delete lives under /purge and is global-administrator only.
func (h *Handler) Register(r chi.Router) {
	r.Route("/artists", func(r chi.Router) {
		r.Post("/", h.HandleCreateArtist)
		r.Get("/", h.HandleListArtists)
		r.Get("/{artistID}", h.HandleGetArtist)
		r.Put("/{artistID}", h.HandleUpdateArtist)
		r.Delete("/{artistID}", h.HandleSoftDeleteArtist)
		r.Post("/{artistID}/restore", h.HandleRestoreArtist)
		r.Delete("/{artistID}/purge", h.HandleHardDeleteArtist)
	})
	r.Route("/albums", func(r chi.Router) {
		r.Post("/", h.HandleCreateAlbum)
		r.Get("/", h.HandleListAlbums)
		r.Get("/{albumID}", h.HandleGetAlbum)
		r.Put("/{albumID}", h.HandleUpdateAlbum)
		r.Delete("/{albumID}", h.HandleSoftDeleteAlbum)
		r.Post("/{albumID}/restore", h.HandleRestoreAlbum)
		r.Delete("/{albumID}/purge", h.HandleHardDeleteAlbum)
	})
	r.Route("/songs", func(r chi.Router) {
		r.Post("/", h.HandleCreateSong)
		r.Get("/", h.HandleListSongs)
		r.Get("/{songID}", h.HandleGetSong)
		r.Put("/{songID}", h.HandleUpdateSong)
		r.Delete("/{songID}", h.HandleSoftDeleteSong)
		r.Post("/{songID}/restore", h.HandleRestoreSong)
		r.Delete("/{songID}/purge", h.HandleHardDeleteSong)
	})
}

// listParams extracts the optional listing filters from the query string.
func listParams(r *http.Request) (policy.ListParams, error) {
	var params policy.ListParams
	q := r.URL.Query()

	if raw := q.Get("organization_id"); raw != "" {
		orgID, err := domain.ParseOrganizationID(raw)
		if err != nil {
			return params, err
		}
		params.OrganizationID = &orgID
	}
	if raw := q.Get("artist_id"); raw != "" {
		artistID, err := domain.ParseArtistID(raw)
		if err != nil {
			return params, err
		}
		params.ArtistID = &artistID
	}
	if raw := q.Get("album_id"); raw != "" {
		albumID, err := domain.ParseAlbumID(raw)
		if err != nil {
			return params, err
		}
		params.AlbumID = &albumID
	}
	params.IncludeDeleted = queryFlag(q.Get("include_deleted"))
	params.TrashView = queryFlag(q.Get("trash"))
	return params, nil
}

func queryFlag(raw string) bool {
	return raw == "true" || raw == "1"
}

func parseArtistID(r *http.Request) (domain.ArtistID, error) {
	id, err := domain.ParseArtistID(chi.URLParam(r, "artistID"))
	if err != nil {
		return domain.ArtistID{}, dErrors.New(dErrors.CodeBadRequest, "invalid artist id")
	}
	return id, nil
}

func parseAlbumID(r *http.Request) (domain.AlbumID, error) {
	id, err := domain.ParseAlbumID(chi.URLParam(r, "albumID"))
	if err != nil {
		return domain.AlbumID{}, dErrors.New(dErrors.CodeBadRequest, "invalid album id")
	}
	return id, nil
}

func parseSongID(r *http.Request) (domain.SongID, error) {
	id, err := domain.ParseSongID(chi.URLParam(r, "songID"))
	if err != nil {
		return domain.SongID{}, dErrors.New(dErrors.CodeBadRequest, "invalid song id")
	}
	return id, nil
}
