package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"legal-dashboard/pkg/errors"
)

// SystemHandler serves the health and session endpoints under /api
type SystemHandler struct {
	responder
}

func NewSystemHandler(errorHandler *errors.ErrorHandler, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{responder: newResponder(errorHandler, logger)}
}

// Health handles GET and POST /api/health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Protected handles GET /api/protected, echoing the authenticated caller
func (h *SystemHandler) Protected(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "This is a protected route",
		"user":    user,
	})
}
