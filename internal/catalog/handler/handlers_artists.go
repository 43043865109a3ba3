package handler

import (
	"net/http"
	"time"

	"chorale/internal/catalog/service"
	"chorale/pkg/platform/httputil"
	"chorale/pkg/requestcontext"
)

// HandleCreateArtist handles POST /artists.
func (h *Handler) HandleCreateArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateArtistRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.CreateArtist(ctx, actor, service.CreateArtistInput{
		OrganizationID: req.ParsedOrganizationID(),
		Name:           req.Name,
		ImageURL:       req.ImageURL,
		Bio:            req.Bio,
		Visible:        req.Visible,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "artist creation failed",
			"request_id", requestID,
			"organization_id", req.OrganizationID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "artist created",
		"request_id", requestID,
		"artist_id", created.Artist.ID,
		"draft", created.Advisory != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromCreatedArtist(created))
}

// HandleListArtists handles GET /artists.
func (h *Handler) HandleListArtists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	params, err := listParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	artists, err := h.service.ListArtists(ctx, actor, params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ArtistListResponse{Artists: artists})
}

// HandleGetArtist handles GET /artists/{artistID}.
func (h *Handler) HandleGetArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	id, err := parseArtistID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	artist, err := h.service.GetArtist(ctx, actor, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, artist)
}

// HandleUpdateArtist handles PUT /artists/{artistID}.
func (h *Handler) HandleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)

	id, err := parseArtistID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateArtistRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	artist, err := h.service.UpdateArtist(ctx, actor, id, service.UpdateArtistInput{
		Name:     req.Name,
		ImageURL: req.ImageURL,
		Bio:      req.Bio,
		Visible:  req.Visible,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, artist)
}

// HandleSoftDeleteArtist handles DELETE /artists/{artistID}.
func (h *Handler) HandleSoftDeleteArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	id, err := parseArtistID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	artist, err := h.service.SoftDeleteArtist(ctx, actor, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, artist)
}

// HandleRestoreArtist handles POST /artists/{artistID}/restore.
func (h *Handler) HandleRestoreArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	id, err := parseArtistID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	artist, err := h.service.RestoreArtist(ctx, actor, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, artist)
}

// HandleHardDeleteArtist handles DELETE /artists/{artistID}/purge.
func (h *Handler) HandleHardDeleteArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)

	id, err := parseArtistID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.HardDeleteArtist(ctx, actor, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "artist hard deleted",
		"request_id", requestID,
		"artist_id", id,
	)
	w.WriteHeader(http.StatusNoContent)
}
