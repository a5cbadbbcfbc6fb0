package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/infrastructure/auth"
	"github.com/iho/demobank/internal/infrastructure/metrics"
)

// Authenticate verifies the bearer token and stores the caller's principal in the context.
func Authenticate(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func(reason, message string) {
				if m != nil {
					m.AuthFailures.WithLabelValues(reason).Inc()
				}
				writeError(w, http.StatusUnauthorized, domain.CodeUnauthorized, message)
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reject("missing", "missing authorization header")
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				reject("malformed", "invalid authorization header format")
				return
			}

			claims, err := jwtManager.Verify(token)
			if err != nil {
				if errors.Is(err, domain.ErrExpiredToken) {
					reject("expired", err.Error())
					return
				}
				reject("invalid", domain.ErrInvalidToken.Error())
				return
			}

			ctx := domain.ContextWithPrincipal(r.Context(), claims.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose principal does not have role.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := domain.PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, domain.CodeUnauthorized, "authentication required")
				return
			}

			if p.Role != role {
				writeError(w, http.StatusForbidden, domain.CodeForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
