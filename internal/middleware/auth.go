package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorecore/internal/auth"
)

type CallerResolver interface {
	Resolve(ctx context.Context, token string) (auth.Caller, error)
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// RequireAuth resolves the bearer token and stores the Caller in the request
// context. Unprovisioned callers pass; use RequireHouse to reject them.
func RequireAuth(resolver CallerResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := resolver.Resolve(r.Context(), BearerToken(r))
			if errors.Is(err, auth.ErrUnauthenticated) {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "sign in required")
				return
			}
			if err != nil {
				logger.Error("resolve caller", "error", err)
				writeError(w, http.StatusInternalServerError, "internal", "internal server error")
				return
			}

			ctx := auth.WithCaller(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireHouse rejects callers that have not created or joined a house.
func RequireHouse(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := auth.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "sign in required")
			return
		}
		if !c.Provisioned() {
			writeError(w, http.StatusForbidden, "onboarding_required", "create or join a house first")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin checks that the caller is an admin of their house.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireHouse(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			writeError(w, http.StatusForbidden, "not_admin", "only an admin can do that")
			return
		}
		next.ServeHTTP(w, r)
	}))
}
