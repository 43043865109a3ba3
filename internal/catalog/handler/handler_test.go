package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chorale/internal/catalog/service"
	albumstore "chorale/internal/catalog/store/album"
	artiststore "chorale/internal/catalog/store/artist"
	songstore "chorale/internal/catalog/store/song"
	"chorale/pkg/domain"
	"chorale/pkg/requestcontext"
)

// stubVerification serves the persisted verification status the service
// re-reads before authorizing a mutation.
type stubVerification struct {
	statuses map[domain.OrganizationID]domain.VerificationStatus
}

func (s *stubVerification) OrganizationVerification(_ context.Context, orgID domain.OrganizationID) (domain.VerificationStatus, error) {
	return s.statuses[orgID], nil
}

// harness carries a mutable actor so sequential requests can switch callers.
type harness struct {
	router       http.Handler
	actor        domain.Actor
	orgID        domain.OrganizationID
	verification *stubVerification
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	orgID := domain.NewOrganizationID()
	verification := &stubVerification{
		statuses: map[domain.OrganizationID]domain.VerificationStatus{
			orgID: domain.VerificationPending,
		},
	}
	svc := service.New(
		artiststore.NewInMemory(),
		albumstore.NewInMemory(),
		songstore.NewInMemory(),
		service.WithVerificationSource(verification),
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := &harness{orgID: orgID, verification: verification}
	r := chi.NewRouter()
	r.Use(h.injectActor)
	New(svc, logger).Register(r)
	h.router = r
	return h
}

func (h *harness) injectActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithActor(r.Context(), h.actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *harness) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) orgAdmin() domain.Actor {
	return domain.Actor{
		ID:             uuid.New(),
		Role:           domain.RoleOrgAdmin,
		OrganizationID: h.orgID,
		Verification:   h.verification.statuses[h.orgID],
	}
}

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestCreateArtistReturnsDraftAdvisory(t *testing.T) {
	h := newHarness(t)
	h.actor = h.orgAdmin()

	rec := h.do(t, http.MethodPost, "/artists", map[string]any{
		"organization_id": h.orgID.String(),
		"name":            "Cathedral Voices",
		"visible":         true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Artist   json.RawMessage `json:"artist"`
		Advisory string          `json:"advisory"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Advisory == "" {
		t.Fatal("expected a draft advisory for an unverified organization")
	}
}

func TestMutationDeniedMapsToForbidden(t *testing.T) {
	h := newHarness(t)
	h.actor = h.orgAdmin()

	rec := h.do(t, http.MethodPost, "/artists", map[string]any{
		"organization_id": h.orgID.String(),
		"name":            "Cathedral Voices",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created struct {
		Artist struct {
			ID string `json:"id"`
		} `json:"artist"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created artist: %v", err)
	}

	rec = h.do(t, http.MethodPut, "/artists/"+created.Artist.ID, map[string]any{
		"name": "Renamed",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeError(t, rec)
	if body.Error != "forbidden" {
		t.Fatalf("expected error code forbidden, got %q", body.Error)
	}
	if body.ErrorDescription != "pending verification" {
		t.Fatalf("expected pending-verification reason, got %q", body.ErrorDescription)
	}
}

func TestHiddenContentIsNotFoundForGuests(t *testing.T) {
	h := newHarness(t)
	h.actor = h.orgAdmin()

	rec := h.do(t, http.MethodPost, "/artists", map[string]any{
		"organization_id": h.orgID.String(),
		"name":            "Cathedral Voices",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created struct {
		Artist struct {
			ID string `json:"id"`
		} `json:"artist"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created artist: %v", err)
	}

	h.actor = domain.Guest()
	rec = h.do(t, http.MethodGet, "/artists/"+created.Artist.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for hidden content, got %d", rec.Code)
	}

	rec = h.do(t, http.MethodGet, "/artists", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing artists, got %d", rec.Code)
	}
	var list struct {
		Artists []json.RawMessage `json:"artists"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Artists) != 0 {
		t.Fatalf("expected hidden drafts excluded from the public list, got %d", len(list.Artists))
	}
}

func TestMalformedRequests(t *testing.T) {
	h := newHarness(t)
	h.actor = h.orgAdmin()

	t.Run("invalid JSON body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/artists", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/artists", map[string]any{
			"organization_id": h.orgID.String(),
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("malformed path id", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/artists/not-a-uuid", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.ErrorDescription != "invalid artist id" {
			t.Fatalf("unexpected description %q", body.ErrorDescription)
		}
	})
}
