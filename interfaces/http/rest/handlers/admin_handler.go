package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"legal-dashboard/application/services"
	"legal-dashboard/pkg/errors"
)

// AdminHandler serves user administration for the admin group
type AdminHandler struct {
	responder
	users *services.UserAdminService
}

func NewAdminHandler(users *services.UserAdminService, errorHandler *errors.ErrorHandler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		responder: newResponder(errorHandler, logger),
		users:     users,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

// ListUsers handles GET /api/auth/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch users")
		return
	}
	h.respondJSON(w, http.StatusOK, users)
}

// ListPendingUsers handles GET /api/auth/admin/pending-users
func (h *AdminHandler) ListPendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListPendingUsers(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch pending users")
		return
	}
	h.respondJSON(w, http.StatusOK, users)
}

// AddToGroup handles POST /api/auth/admin/users/{userId}/groups/{group}
func (h *AdminHandler) AddToGroup(w http.ResponseWriter, r *http.Request) {
	userID, group := chi.URLParam(r, "userId"), chi.URLParam(r, "group")
	if err := h.users.AddToGroup(r.Context(), userID, group); err != nil {
		h.fail(w, r, err, "Failed to update user groups")
		return
	}
	h.respondJSON(w, http.StatusOK, messageResponse{Message: "User added to group " + group})
}

// RemoveFromGroup handles DELETE /api/auth/admin/users/{userId}/groups/{group}
func (h *AdminHandler) RemoveFromGroup(w http.ResponseWriter, r *http.Request) {
	userID, group := chi.URLParam(r, "userId"), chi.URLParam(r, "group")
	if err := h.users.RemoveFromGroup(r.Context(), userID, group); err != nil {
		h.fail(w, r, err, "Failed to update user groups")
		return
	}
	h.respondJSON(w, http.StatusOK, messageResponse{Message: "User removed from group " + group})
}

// DeleteUser handles DELETE /api/auth/admin/users/{userId}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	if err := h.users.DeleteUser(r.Context(), chi.URLParam(r, "userId"), actor.UserID); err != nil {
		h.fail(w, r, err, "Failed to delete user")
		return
	}
	h.respondJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
