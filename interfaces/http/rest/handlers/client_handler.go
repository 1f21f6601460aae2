package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"legal-dashboard/application/services"
	"legal-dashboard/domain/entities"
	"legal-dashboard/pkg/errors"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	responder
	clients *services.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clients *services.ClientService, errorHandler *errors.ErrorHandler, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		responder: newResponder(errorHandler, logger),
		clients:   clients,
	}
}

// Create handles POST /api/clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	var cmd services.CreateClientCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.fail(w, r, err, "")
		return
	}
	cmd.UserID = user.UserID

	client, err := h.clients.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err, "Failed to create client")
		return
	}
	h.respondJSON(w, http.StatusCreated, client)
}

// List handles GET /api/clients, returning the caller's clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	clients, err := h.clients.List(r.Context(), user.UserID)
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve clients")
		return
	}
	h.respondJSON(w, http.StatusOK, clients)
}

// Get handles GET /api/clients/{clientId}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, err := h.clients.Get(r.Context(), chi.URLParam(r, "clientId"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve client")
		return
	}
	h.respondJSON(w, http.StatusOK, client)
}

// Update handles PUT /api/clients/{clientId}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var changes entities.ClientChanges
	if err := decodeJSON(w, r, &changes); err != nil {
		h.fail(w, r, err, "")
		return
	}

	client, err := h.clients.Update(r.Context(), chi.URLParam(r, "clientId"), changes)
	if err != nil {
		h.fail(w, r, err, "Failed to update client")
		return
	}
	h.respondJSON(w, http.StatusOK, client)
}

// Delete handles DELETE /api/clients/{clientId}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.clients.Delete(r.Context(), chi.URLParam(r, "clientId")); err != nil {
		h.fail(w, r, err, "Failed to delete client")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
