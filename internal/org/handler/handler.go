// Package handler exposes the organization lifecycle over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"chorale/internal/org/models"
	"chorale/internal/org/service"
	"chorale/pkg/domain"
	"chorale/pkg/platform/httputil"
	"chorale/pkg/requestcontext"
)

// Service defines the organization operations the handler needs.
type Service interface {
	RegisterOrganization(ctx context.Context, actor domain.Actor, name, adminEmail, adminName string) (*service.Registration, error)
	GetOrganization(ctx context.Context, id domain.OrganizationID) (*models.Organization, error)
	ListOrganizations(ctx context.Context, actor domain.Actor) ([]*models.Organization, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, orgID domain.OrganizationID, logoURL, about string) (*models.Organization, error)
	SetVerification(ctx context.Context, actor domain.Actor, orgID domain.OrganizationID, status domain.VerificationStatus) (*models.Organization, error)
}

// Handler wires organization endpoints to the organization service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an organization handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts organization endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/organizations", func(r chi.Router) {
		r.Post("/", h.HandleRegister)
		r.Get("/", h.HandleList)
		r.Get("/{orgID}", h.HandleGet)
		r.Patch("/{orgID}/profile", h.HandleUpdateProfile)
		r.Post("/{orgID}/verification", h.HandleSetVerification)
	})
}

// HandleRegister handles POST /organizations.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reg, err := h.service.RegisterOrganization(ctx, actor, req.Name, req.AdminEmail, req.AdminName)
	if err != nil {
		h.logger.ErrorContext(ctx, "organization registration failed",
			"request_id", requestID,
			"name", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "organization registered",
		"request_id", requestID,
		"organization_id", reg.Organization.ID,
		"verification", reg.Organization.Verification,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRegistration(reg))
}

// HandleList handles GET /organizations.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	orgs, err := h.service.ListOrganizations(ctx, actor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, OrganizationListResponse{Organizations: orgs})
}

// HandleGet handles GET /organizations/{orgID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgID, err := domain.ParseOrganizationID(chi.URLParam(r, "orgID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	org, err := h.service.GetOrganization(ctx, orgID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, org)
}

// HandleUpdateProfile handles PATCH /organizations/{orgID}/profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)

	orgID, err := domain.ParseOrganizationID(chi.URLParam(r, "orgID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	org, err := h.service.UpdateProfile(ctx, actor, orgID, req.LogoURL, req.About)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, org)
}

// HandleSetVerification handles POST /organizations/{orgID}/verification.
func (h *Handler) HandleSetVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.Actor(ctx)

	orgID, err := domain.ParseOrganizationID(chi.URLParam(r, "orgID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetVerificationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	org, err := h.service.SetVerification(ctx, actor, orgID, req.ParsedStatus())
	if err != nil {
		h.logger.ErrorContext(ctx, "verification transition failed",
			"request_id", requestID,
			"organization_id", orgID,
			"status", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification transition applied",
		"request_id", requestID,
		"organization_id", orgID,
		"status", org.Verification,
	)
	httputil.WriteJSON(w, http.StatusOK, org)
}
