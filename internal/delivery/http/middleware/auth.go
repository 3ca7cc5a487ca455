package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "youthevents/internal/delivery/http/helpers"
	"youthevents/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// SetIdentity returns a context carrying the verified caller identity. Used by auth middleware.
func SetIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the verified caller identity from the context, if present.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

// RequireIdentity returns a wrapper that verifies the Bearer token and stores the resulting identity
// in the request context. If the token is missing or invalid, it responds with 401 and does not call next.
func RequireIdentity(verifier domain.IdentityVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetIdentity(r.Context(), *identity))
			next(w, r)
		}
	}
}
