package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/message-board/internal/apperror"
	"github.com/sakif/message-board/internal/model"
)

// CookieName is the cookie that carries the session token.
const CookieName = "auth"

// contextKey is unexported so no other package can read or overwrite the
// identity stored by RequireAuth.
type contextKey string

const identityKey contextKey = "identity"

// Authenticator turns a raw session token into the caller's identity.
// *TokenService is the production implementation: signature, issuer and
// expiry decide, and storage is never consulted.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Identity, error)
}

// RequireAuth enforces authentication on protected routes.
//
// The token is read from the "auth" cookie, or from an
// "Authorization: Bearer <token>" header when no cookie is present. If it is
// missing or fails validation the request stops here with
// 401 {"error":"Please login!"}, before any handler runs.
//
// The identity comes only from the token this request presented. Nothing is
// shared between requests.
func RequireAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := authn.Authenticate(r.Context(), tokenFromRequest(r))
			if err != nil {
				writeUnauthenticated(w)
				return
			}

			ctx := WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the authenticated caller.
// Returns false if the request did not pass through RequireAuth.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(model.Identity)
	return id, ok && id.UserID > 0
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	h := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	body := map[string]string{"error": apperror.Unauthenticated().Message}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}
