package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"esi-server/internal/auth"
	"esi-server/internal/shared/errors"
	"esi-server/internal/shared/response"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// JWTMiddleware requires a valid "Authorization: Bearer <token>" header.
func JWTMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := slog.With(
				"middleware", "jwt",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			logger.Debug("Processing JWT authentication")

			tokenString, ok := bearerToken(r)
			if !ok {
				response.Error(w, r, logger, errors.Unauthorized("authentication required"))
				return
			}

			claims, err := auth.ValidateJWT(secret, tokenString)
			if err != nil {
				logger.Debug("Token rejected", "error", err)
				response.Error(w, r, logger, errors.Unauthorized("invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			logger.Debug("JWT authentication successful", "subject", claims.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaimsFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(ClaimsContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
