package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"legal-dashboard/pkg/auth"
	"legal-dashboard/pkg/errors"
)

// TokenVerifier turns a bearer token into the authenticated user
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.User, error)
}

var _ TokenVerifier = (*auth.Verifier)(nil)

// Authenticate verifies the Cognito access token of every request and stores
// the caller in the request context.
func Authenticate(verifier TokenVerifier, errorHandler *errors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "No token provided")
				return
			}

			user, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Warn("Token verification failed",
					zap.Error(err),
					zap.String("ip", getClientIP(r)),
					zap.String("path", r.URL.Path),
				)
				errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects callers outside the admin group
func RequireAdmin(errorHandler *errors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.UserFromContext(r.Context())
			if err != nil {
				errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "No token provided")
				return
			}
			if !user.IsAdmin {
				errorHandler.Handle(w, r, errors.NewForbiddenError("Admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken returns the second space-separated part of the Authorization header
func extractToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// getClientIP extracts the client IP address
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
