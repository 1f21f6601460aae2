package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"legal-dashboard/pkg/auth"
	"legal-dashboard/pkg/errors"
)

// IPRateLimit throttles requests per client address. It runs before
// authentication so unauthenticated floods are cut off early.
func IPRateLimit(limiter *auth.IPRateLimiter, errorHandler *errors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)
			if !limiter.Allow(ip) {
				logger.Warn("IP rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
				errorHandler.Handle(w, r, errors.NewRateLimitError("Rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserRateLimit throttles requests per authenticated user
func UserRateLimit(limiter *auth.UserRateLimiter, errorHandler *errors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.UserFromContext(r.Context())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(user.UserID) {
				logger.Warn("User rate limit exceeded", zap.String("userId", user.UserID), zap.String("path", r.URL.Path))
				errorHandler.Handle(w, r, errors.NewRateLimitError("User rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
