package handler

import (
	"net/http"
	"time"

	"chorale/internal/catalog/service"
	"chorale/pkg/platform/httputil"
	"chorale/pkg/requestcontext"
)

// HandleCreateSong handles POST /songs.
func (h *Handler) HandleCreateSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateSongRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.CreateSong(ctx, actor, service.CreateSongInput{
		OrganizationID:  req.ParsedOrganizationID(),
		AlbumID:         req.ParsedAlbumID(),
		Title:           req.Title,
		AudioURL:        req.AudioURL,
		DurationSeconds: req.DurationSeconds,
		TrackNumber:     req.TrackNumber,
		Visible:         req.Visible,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "song creation failed",
			"request_id", requestID,
			"organization_id", req.OrganizationID,
			"album_id", req.AlbumID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "song created",
		"request_id", requestID,
		"song_id", created.Song.ID,
		"draft", created.Advisory != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromCreatedSong(created))
}

// HandleListSongs handles GET /songs.
func (h *Handler) HandleListSongs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	params, err := listParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	songs, err := h.service.ListSongs(ctx, actor, params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SongListResponse{Songs: songs})
}

// HandleGetSong handles GET /songs/{songID}.
func (h *Handler) HandleGetSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	id, err := parseSongID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	song, err := h.service.GetSong(ctx, actor, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, song)
}

// HandleUpdateSong handles PUT /songs/{songID}.
func (h *Handler) HandleUpdateSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)

	id, err := parseSongID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateSongRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	song, err := h.service.UpdateSong(ctx, actor, id, service.UpdateSongInput{
		Title:           req.Title,
		AudioURL:        req.AudioURL,
		DurationSeconds: req.DurationSeconds,
		TrackNumber:     req.TrackNumber,
		Visible:         req.Visible,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, song)
}

// HandleSoftDeleteSong handles DELETE /songs/{songID}.
func (h *Handler) HandleSoftDeleteSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	id, err := parseSongID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	song, err := h.service.SoftDeleteSong(ctx, actor, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, song)
}

// HandleRestoreSong handles POST /songs/{songID}/restore.
func (h *Handler) HandleRestoreSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	id, err := parseSongID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	song, err := h.service.RestoreSong(ctx, actor, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, song)
}

// HandleHardDeleteSong handles DELETE /songs/{songID}/purge.
func (h *Handler) HandleHardDeleteSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)

	id, err := parseSongID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.HardDeleteSong(ctx, actor, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "song hard deleted",
		"request_id", requestID,
		"song_id", id,
	)
	w.WriteHeader(http.StatusNoContent)
}
