package auth

import (
	"net/http"
	"strings"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/georgemunganga/storefront-checkout/internal/platform/httpx"
	"go.uber.org/zap"
)

// Middleware rejects requests without a valid bearer token and stores the
// verified claims on the request context.
func Middleware(svc Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if header == "" || token == header {
				httpx.Error(w, r, log, apperr.Unauthorized("authentication required"))
				return
			}
			claims, err := svc.Verify(token)
			if err != nil {
				httpx.Error(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin must run after Middleware.
func RequireAdmin(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := ClaimsFrom(r.Context())
			if !claims.IsAdmin() {
				httpx.Error(w, r, log, apperr.Forbidden("admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
