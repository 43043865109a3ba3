package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"chorale/pkg/domain"
	"chorale/pkg/requestcontext"
)

// TokenValidator turns a bearer token into an Actor.
type TokenValidator interface {
	Validate(tokenString string) (domain.Actor, error)
}

// ActorRefresher re-reads an org_admin's persisted verification status so a
// stale token cannot carry mutation rights past a rejection. Other roles pass
// through unchanged.
type ActorRefresher interface {
	RefreshActor(ctx context.Context, actor domain.Actor) (domain.Actor, error)
}

// ResolveActor attaches an Actor to the request context. A missing
// Authorization header resolves to the anonymous guest — public listings are
// served without credentials. An invalid or expired token is rejected rather
// than downgraded, so a broken client sees the failure instead of silently
// browsing as a guest.
func ResolveActor(validator TokenValidator, refresher ActorRefresher, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, domain.Guest())))
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				writeUnauthorized(w, "malformed Authorization header")
				return
			}

			actor, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "rejected token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			if refresher != nil && actor.Role == domain.RoleOrgAdmin {
				actor, err = refresher.RefreshActor(ctx, actor)
				if err != nil {
					logger.ErrorContext(ctx, "actor refresh failed",
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
					writeUnauthorized(w, "account state unavailable")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}

// RequireRole guards a route subtree to actors holding one of the given roles.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := requestcontext.Actor(r.Context())
			if !allowed[actor.Role] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":             "forbidden",
					"error_description": "insufficient role",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             "unauthorized",
		"error_description": description,
	})
}
