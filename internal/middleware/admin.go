package middleware

import (
	"log/slog"
	"net/http"

	"esi-server/internal/auth"
	"esi-server/internal/shared/errors"
	"esi-server/internal/shared/response"
)

func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "admin",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing admin authorization")

		claims := GetClaimsFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if claims.Role != auth.RoleAdmin {
			logger.Warn("Non-admin token used on admin endpoint",
				"subject", claims.Subject,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin guards next with JWT validation and the admin role. With no
// secret configured the admin API answers 503.
func RequireAdmin(secret string) func(http.Handler) http.Handler {
	if secret == "" {
		return func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger := slog.With("middleware", "admin", "path", r.URL.Path)
				response.Error(w, r, logger, errors.Unavailable("admin API is disabled"))
			})
		}
	}

	jwtMiddleware := JWTMiddleware(secret)
	return func(next http.Handler) http.Handler {
		return jwtMiddleware(AdminMiddleware(next))
	}
}
