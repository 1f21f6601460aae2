package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"legal-dashboard/interfaces/http/rest/handlers"
	"legal-dashboard/interfaces/http/rest/middleware"
	"legal-dashboard/pkg/auth"
	"legal-dashboard/pkg/errors"
	"legal-dashboard/pkg/observability"
)

// Handlers groups the resource handlers mounted by the router
type Handlers struct {
	Clients     *handlers.ClientHandler
	Packages    *handlers.PackageHandler
	FileNumbers *handlers.FileNumberHandler
	Workflows   *handlers.WorkflowHandler
	Documents   *handlers.DocumentHandler
	Agent       *handlers.AgentHandler
	Admin       *handlers.AdminHandler
	System      *handlers.SystemHandler
}

// ReadinessCheck reports whether a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// RouterConfig holds the HTTP surface settings
type RouterConfig struct {
	AllowedOrigins []string
	AllowLocalhost bool

	RateLimitEnabled  bool
	RequestsPerMinute int
	Burst             int

	AgentBreaker middleware.CircuitBreakerConfig
}

// Router creates and configures the HTTP router
type Router struct {
	handlers  Handlers
	verifier  middleware.TokenVerifier
	errors    *errors.ErrorHandler
	collector *observability.Collector
	tracer    *observability.Tracer
	readiness map[string]ReadinessCheck
	config    RouterConfig
	logger    *zap.Logger
}

// NewRouter creates a new router instance. collector may be nil when
// Prometheus metrics are disabled.
func NewRouter(
	h Handlers,
	verifier middleware.TokenVerifier,
	errorHandler *errors.ErrorHandler,
	collector *observability.Collector,
	tracer *observability.Tracer,
	config RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		handlers:  h,
		verifier:  verifier,
		errors:    errorHandler,
		collector: collector,
		tracer:    tracer,
		readiness: make(map[string]ReadinessCheck),
		config:    config,
		logger:    logger,
	}
}

// AddReadinessCheck registers a dependency probed by /ready
func (rt *Router) AddReadinessCheck(name string, check ReadinessCheck) {
	rt.readiness[name] = check
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.errors.Middleware)
	if rt.collector != nil {
		router.Use(observability.MetricsMiddleware(rt.collector))
	}
	router.Use(middleware.CORS(rt.config.AllowedOrigins, rt.config.AllowLocalhost))
	if rt.tracer != nil {
		router.Use(rt.tracer.Middleware)
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.collector != nil {
		router.Handle("/metrics", rt.collector.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", rt.handlers.System.Health)
		r.Post("/health", rt.handlers.System.Health)

		r.Group(func(r chi.Router) {
			if rt.config.RateLimitEnabled {
				r.Use(middleware.IPRateLimit(auth.NewIPRateLimiter(rt.config.RequestsPerMinute, rt.config.Burst), rt.errors, rt.logger))
			}
			r.Use(middleware.Authenticate(rt.verifier, rt.errors, rt.logger))
			if rt.tracer != nil && rt.tracer.Enabled() {
				r.Use(rt.annotateUser)
			}
			if rt.config.RateLimitEnabled {
				r.Use(middleware.UserRateLimit(auth.NewUserRateLimiter(2*rt.config.RequestsPerMinute, 2*rt.config.Burst), rt.errors, rt.logger))
			}

			r.Get("/protected", rt.handlers.System.Protected)

			r.Route("/clients", func(r chi.Router) {
				h := rt.handlers.Clients
				r.Post("/", h.Create)
				r.Get("/", h.List)
				r.Get("/{clientId}", h.Get)
				r.Put("/{clientId}", h.Update)
				r.Delete("/{clientId}", h.Delete)
			})

			r.Route("/packages", func(r chi.Router) {
				h := rt.handlers.Packages
				r.Post("/", h.Create)
				r.Get("/client/{clientId}", h.ListByClient)
				r.Get("/file-number/{fileNumberId}", h.ListByFileNumber)
				r.Get("/{packageId}", h.Get)
				r.Put("/{packageId}", h.Update)
				r.Delete("/{packageId}", h.Delete)
			})

			r.Route("/file-numbers", func(r chi.Router) {
				h := rt.handlers.FileNumbers
				r.Post("/", h.Create)
				r.Get("/client/{clientId}", h.ListByClient)
				r.Get("/package/{packageId}", h.ListByPackage)
				r.Get("/{fileId}", h.Get)
				r.Put("/{fileId}", h.Update)
				r.Delete("/{fileId}", h.Delete)

				r.Route("/{fileId}/documents", func(r chi.Router) {
					d := rt.handlers.Documents
					r.Get("/", d.List)
					r.Post("/", d.Upload)
					r.Post("/presigned-url", d.PresignUpload)
					r.Post("/confirm", d.ConfirmUpload)
					r.Delete("/{documentId}", d.Delete)
					r.Get("/{documentId}/versions", d.Versions)
					r.Get("/{documentId}/download", d.Download)
					r.Post("/{documentId}/analyze", d.Analyze)
					r.Post("/{documentId}/chat", d.Chat)
					r.Get("/{documentId}/conversation", d.Conversation)
				})
			})

			r.Route("/workflows", func(r chi.Router) {
				h := rt.handlers.Workflows
				r.Post("/", h.Create)
				r.Get("/package/{packageId}", h.ListByPackage)
				r.Get("/{workflowId}", h.Get)
				r.Put("/{workflowId}", h.Update)
				r.Delete("/{workflowId}", h.Delete)
			})

			r.Route("/agent", func(r chi.Router) {
				r.Use(middleware.CircuitBreaker(rt.config.AgentBreaker, rt.errors, rt.logger))
				r.Post("/query", rt.handlers.Agent.Query)
			})

			r.Route("/auth/admin", func(r chi.Router) {
				h := rt.handlers.Admin
				r.Use(middleware.RequireAdmin(rt.errors))
				r.Get("/users", h.ListUsers)
				r.Get("/pending-users", h.ListPendingUsers)
				r.Post("/users/{userId}/groups/{group}", h.AddToGroup)
				r.Delete("/users/{userId}/groups/{group}", h.RemoveFromGroup)
				r.Delete("/users/{userId}", h.DeleteUser)
			})
		})
	})

	return router
}

// annotateUser tags the request segment with the caller so traces can be searched by user
func (rt *Router) annotateUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := auth.UserFromContext(r.Context()); err == nil {
			rt.tracer.AddAnnotation(r.Context(), "userId", user.UserID)
		}
		next.ServeHTTP(w, r)
	})
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	writeStatus(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}

// readinessCheck runs every registered dependency check
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	failed := make(map[string]string)
	for name, check := range rt.readiness {
		if err := check(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "not ready", "checks": failed})
		return
	}
	writeStatus(w, http.StatusOK, map[string]interface{}{"status": "ready"})
}

func writeStatus(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
