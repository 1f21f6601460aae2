package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"legal-dashboard/pkg/auth"
	"legal-dashboard/pkg/errors"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (*auth.User, error) {
	args := m.Called(ctx, token)
	if v := args.Get(0); v != nil {
		return v.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func errorHandler() *errors.ErrorHandler {
	return errors.NewErrorHandler(zap.NewNop(), false)
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid token stores the user", func(t *testing.T) {
		// Arrange
		verifier := new(mockVerifier)
		user := &auth.User{UserID: "u1", Email: "u1@example.com"}
		verifier.On("Verify", mock.Anything, "good-token").Return(user, nil)

		var seen *auth.User
		handler := Authenticate(verifier, errorHandler(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = auth.UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		// Act
		handler.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Same(t, user, seen)
	})

	t.Run("missing header", func(t *testing.T) {
		handler := Authenticate(new(mockVerifier), errorHandler(), zap.NewNop())(http.HandlerFunc(okHandler))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"No token provided"`)
	})

	t.Run("scheme without token", func(t *testing.T) {
		handler := Authenticate(new(mockVerifier), errorHandler(), zap.NewNop())(http.HandlerFunc(okHandler))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "No token provided")
	})

	t.Run("verification failure", func(t *testing.T) {
		verifier := new(mockVerifier)
		verifier.On("Verify", mock.Anything, "stale").Return(nil, auth.ErrExpiredToken)
		handler := Authenticate(verifier, errorHandler(), zap.NewNop())(http.HandlerFunc(okHandler))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid or expired token")
	})
}

func TestRequireAdmin(t *testing.T) {
	cases := []struct {
		name   string
		user   *auth.User
		status int
	}{
		{"admin passes", &auth.User{UserID: "a", IsAdmin: true}, http.StatusOK},
		{"regular user is forbidden", &auth.User{UserID: "u"}, http.StatusForbidden},
		{"anonymous is unauthorized", nil, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/admin/users", nil)
			if tc.user != nil {
				req = req.WithContext(auth.WithUser(req.Context(), tc.user))
			}
			rec := httptest.NewRecorder()

			RequireAdmin(errorHandler())(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), "Admin access required")
			}
		})
	}
}

func TestRateLimits(t *testing.T) {
	t.Run("ip limit", func(t *testing.T) {
		handler := IPRateLimit(auth.NewIPRateLimiter(60, 2), errorHandler(), zap.NewNop())(http.HandlerFunc(okHandler))

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

		other := httptest.NewRequest(http.MethodGet, "/", nil)
		other.Header.Set("X-Real-IP", "198.51.100.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, other)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user limit keys on the caller", func(t *testing.T) {
		handler := UserRateLimit(auth.NewUserRateLimiter(60, 1), errorHandler(), zap.NewNop())(http.HandlerFunc(okHandler))
		call := func(userID string) int {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(auth.WithUser(req.Context(), &auth.User{UserID: userID}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			return rec.Code
		}

		assert.Equal(t, http.StatusOK, call("u1"))
		assert.Equal(t, http.StatusTooManyRequests, call("u1"))
		assert.Equal(t, http.StatusOK, call("u2"))
	})
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	assert.Equal(t, "192.0.2.10", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", getClientIP(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	assert.Equal(t, "203.0.113.9", getClientIP(req))
}

func TestCircuitBreaker(t *testing.T) {
	// Arrange
	config := CircuitBreakerConfig{
		Name:             "agent",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}
	calls := 0
	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		errorHandler().Handle(w, r, stderrors.New("agent down"))
	})
	handler := CircuitBreaker(config, errorHandler(), zap.NewNop())(failing)

	serve := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/agent/query", nil))
		return rec
	}

	// Act
	first, second, third := serve(), serve(), serve()

	// Assert
	assert.Equal(t, http.StatusInternalServerError, first.Code)
	assert.Equal(t, http.StatusInternalServerError, second.Code)
	assert.Equal(t, http.StatusServiceUnavailable, third.Code)
	assert.Contains(t, third.Body.String(), "Service temporarily unavailable")
	assert.Equal(t, 2, calls)
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	config := DefaultCircuitBreakerConfig("agent")
	config.MinRequests = 1
	handler := CircuitBreaker(config, errorHandler(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://app.example.com"}, true)(http.HandlerFunc(okHandler))
	preflight := func(origin string) string {
		req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Header().Get("Access-Control-Allow-Origin")
	}

	assert.Equal(t, "https://app.example.com", preflight("https://app.example.com"))
	assert.Equal(t, "http://localhost:5173", preflight("http://localhost:5173"))
	assert.Empty(t, preflight("https://evil.example.com"))

	strict := CORS(nil, false)(http.HandlerFunc(okHandler))
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	strict.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	handler := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	failing := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	failing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/agent/query", nil))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "HTTP Request", entries[0].Message)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, int64(15), fields["bytes"])
	assert.Equal(t, zap.DebugLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
}
