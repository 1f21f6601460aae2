package rest

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"legal-dashboard/application/ports/mocks"
	"legal-dashboard/application/services"
	"legal-dashboard/domain/entities"
	"legal-dashboard/interfaces/http/rest/handlers"
	"legal-dashboard/interfaces/http/rest/middleware"
	"legal-dashboard/pkg/auth"
	"legal-dashboard/pkg/errors"
	"legal-dashboard/pkg/observability"
)

// tokenTable maps bearer tokens to users
type tokenTable map[string]*auth.User

func (t tokenTable) Verify(_ context.Context, token string) (*auth.User, error) {
	if user, ok := t[token]; ok {
		return user, nil
	}
	return nil, auth.ErrInvalidToken
}

type routerFixture struct {
	clients   *mocks.ClientRepository
	directory *mocks.UserDirectory
	router    *Router
}

func newRouterFixture(collector *observability.Collector) *routerFixture {
	logger := zap.NewNop()
	eh := errors.NewErrorHandler(logger, false)
	f := &routerFixture{
		clients:   new(mocks.ClientRepository),
		directory: new(mocks.UserDirectory),
	}

	documents := services.NewDocumentService(
		new(mocks.DocumentRepository), new(mocks.FileNumberRepository), new(mocks.ObjectStore), new(mocks.URLPresigner),
		new(mocks.TextStore), new(mocks.TextExtractor), new(mocks.AgentInvoker), nil, nil,
		services.DefaultDocumentServiceConfig(), logger,
	)
	h := Handlers{
		Clients:     handlers.NewClientHandler(services.NewClientService(f.clients, nil, logger), eh, logger),
		Packages:    handlers.NewPackageHandler(services.NewPackageService(new(mocks.PackageRepository), logger), eh, logger),
		FileNumbers: handlers.NewFileNumberHandler(services.NewFileNumberService(new(mocks.FileNumberRepository), logger), eh, logger),
		Workflows:   handlers.NewWorkflowHandler(services.NewWorkflowService(new(mocks.WorkflowRepository), logger), eh, logger),
		Documents:   handlers.NewDocumentHandler(documents, eh, logger),
		Agent:       handlers.NewAgentHandler(services.NewAgentService(new(mocks.AgentInvoker), new(mocks.FileNumberRepository), nil, logger), eh, logger),
		Admin:       handlers.NewAdminHandler(services.NewUserAdminService(f.directory, logger), eh, logger),
		System:      handlers.NewSystemHandler(eh, logger),
	}
	verifier := tokenTable{
		"user-token":  {UserID: "u1", Groups: []string{"user"}},
		"admin-token": {UserID: "a1", Groups: []string{"admin"}, IsAdmin: true},
	}
	config := RouterConfig{
		AllowedOrigins: []string{"https://app.example.com"},
		AllowLocalhost: true,
		AgentBreaker:   middleware.DefaultCircuitBreakerConfig("agent"),
	}

	f.router = NewRouter(h, verifier, eh, collector, observability.NewTracer("legal-dashboard", false), config, logger)
	return f
}

func serve(handler http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	handler := newRouterFixture(nil).router.Setup()

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := serve(handler, method, "/api/health", "")
		assert.Equal(t, http.StatusOK, rec.Code, method)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	}

	rec := serve(handler, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = serve(handler, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Authentication(t *testing.T) {
	f := newRouterFixture(nil)
	f.clients.On("ListByUserID", mock.Anything, "u1").Return([]*entities.Client{}, nil)
	handler := f.router.Setup()

	assert.Equal(t, http.StatusUnauthorized, serve(handler, http.MethodGet, "/api/clients", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(handler, http.MethodGet, "/api/clients", "forged").Code)

	rec := serve(handler, http.MethodGet, "/api/clients", "user-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = serve(handler, http.MethodGet, "/api/protected", "user-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":"u1"`)
}

func TestRouter_AdminRoutes(t *testing.T) {
	f := newRouterFixture(nil)
	f.directory.On("ListUsers", mock.Anything).Return([]*entities.DirectoryUser{{UserID: "u1", Approved: true}}, nil)
	handler := f.router.Setup()

	rec := serve(handler, http.MethodGet, "/api/auth/admin/users", "user-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin access required")

	rec = serve(handler, http.MethodGet, "/api/auth/admin/users", "admin-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":"u1"`)
}

func TestRouter_UnknownRoute(t *testing.T) {
	handler := newRouterFixture(nil).router.Setup()

	rec := serve(handler, http.MethodGet, "/api/clients/c1/nothing-here", "user-token")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")
}

func TestRouter_MetricsAndReadiness(t *testing.T) {
	collector := observability.NewCollector("legal_dashboard_test")
	f := newRouterFixture(collector)
	f.router.AddReadinessCheck("dynamodb", func(context.Context) error { return nil })
	f.router.AddReadinessCheck("s3", func(context.Context) error { return stderrors.New("bucket missing") })
	handler := f.router.Setup()

	rec := serve(handler, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "bucket missing")

	serve(handler, http.MethodGet, "/api/health", "")
	rec = serve(handler, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "legal_dashboard_test_http_requests_total"))
}
