package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"legal-dashboard/application/services"
	"legal-dashboard/domain/entities"
	"legal-dashboard/pkg/errors"
)

// WorkflowHandler handles workflow-related HTTP requests
type WorkflowHandler struct {
	responder
	workflows *services.WorkflowService
}

func NewWorkflowHandler(workflows *services.WorkflowService, errorHandler *errors.ErrorHandler, logger *zap.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		responder: newResponder(errorHandler, logger),
		workflows: workflows,
	}
}

func (h *WorkflowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd services.CreateWorkflowCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.fail(w, r, err, "")
		return
	}

	workflow, err := h.workflows.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err, "Failed to create workflow")
		return
	}
	h.respondJSON(w, http.StatusCreated, workflow)
}

func (h *WorkflowHandler) ListByPackage(w http.ResponseWriter, r *http.Request) {
	workflows, err := h.workflows.ListByPackage(r.Context(), chi.URLParam(r, "packageId"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve workflows")
		return
	}
	h.respondJSON(w, http.StatusOK, workflows)
}

func (h *WorkflowHandler) Get(w http.ResponseWriter, r *http.Request) {
	workflow, err := h.workflows.Get(r.Context(), chi.URLParam(r, "workflowId"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve workflow")
		return
	}
	h.respondJSON(w, http.StatusOK, workflow)
}

func (h *WorkflowHandler) Update(w http.ResponseWriter, r *http.Request) {
	var changes entities.WorkflowChanges
	if err := decodeJSON(w, r, &changes); err != nil {
		h.fail(w, r, err, "")
		return
	}

	workflow, err := h.workflows.Update(r.Context(), chi.URLParam(r, "workflowId"), changes)
	if err != nil {
		h.fail(w, r, err, "Failed to update workflow")
		return
	}
	h.respondJSON(w, http.StatusOK, workflow)
}

func (h *WorkflowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.workflows.Delete(r.Context(), chi.URLParam(r, "workflowId")); err != nil {
		h.fail(w, r, err, "Failed to delete workflow")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
