package handler

import (
	"net/http"
	"time"

	"chorale/internal/catalog/service"
	"chorale/pkg/platform/httputil"
	"chorale/pkg/requestcontext"
)

// HandleCreateAlbum handles POST /albums.
func (h *Handler) HandleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateAlbumRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.CreateAlbum(ctx, actor, service.CreateAlbumInput{
		OrganizationID: req.ParsedOrganizationID(),
		ArtistID:       req.ParsedArtistID(),
		Title:          req.Title,
		CoverURL:       req.CoverURL,
		Visible:        req.Visible,
		ReleasedAt:     req.ReleasedAt,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "album creation failed",
			"request_id", requestID,
			"organization_id", req.OrganizationID,
			"artist_id", req.ArtistID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "album created",
		"request_id", requestID,
		"album_id", created.Album.ID,
		"draft", created.Advisory != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromCreatedAlbum(created))
}

// HandleListAlbums handles GET /albums.
func (h *Handler) HandleListAlbums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	params, err := listParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	albums, err := h.service.ListAlbums(ctx, actor, params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AlbumListResponse{Albums: albums})
}

// HandleGetAlbum handles GET /albums/{albumID}.
func (h *Handler) HandleGetAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	id, err := parseAlbumID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	album, err := h.service.GetAlbum(ctx, actor, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, album)
}

// HandleUpdateAlbum handles PUT /albums/{albumID}.
func (h *Handler) HandleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)

	id, err := parseAlbumID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateAlbumRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	album, err := h.service.UpdateAlbum(ctx, actor, id, service.UpdateAlbumInput{
		Title:    req.Title,
		CoverURL: req.CoverURL,
		Visible:  req.Visible,
		Featured: req.Featured,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, album)
}

// HandleSoftDeleteAlbum handles DELETE /albums/{albumID}.
func (h *Handler) HandleSoftDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	id, err := parseAlbumID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	album, err := h.service.SoftDeleteAlbum(ctx, actor, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, album)
}

// HandleRestoreAlbum handles POST /albums/{albumID}/restore.
func (h *Handler) HandleRestoreAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	id, err := parseAlbumID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	album, err := h.service.RestoreAlbum(ctx, actor, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, album)
}

// HandleHardDeleteAlbum handles DELETE /albums/{albumID}/purge.
func (h *Handler) HandleHardDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)

	id, err := parseAlbumID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.HardDeleteAlbum(ctx, actor, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "album hard deleted",
		"request_id", requestID,
		"album_id", id,
	)
	w.WriteHeader(http.StatusNoContent)
}
