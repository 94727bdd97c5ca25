package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xgraupera/WanderWise/internal/domain"
)

// TokenVerifier validates a bearer token and returns the principal it names.
// Satisfied by auth.TokenManager.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

type contextKey string

const principalKey contextKey = "principal"

// NewAuthenticator returns a middleware that requires a valid
// "Authorization: Bearer <token>" header. On success the principal is stored
// on the request context for PrincipalFromContext; otherwise the request is
// rejected with 401.
func NewAuthenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "missing or malformed bearer token")
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized writes a 401 in the same error envelope the handlers use.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": "unauthorized", "message": message},
	})
}

// PrincipalFromContext returns the principal stored by NewAuthenticator.
// ok is false when the request did not pass through the authenticator.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// ContextWithPrincipal returns a context carrying the given principal.
// Intended for handler tests that bypass the authenticator.
func ContextWithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
