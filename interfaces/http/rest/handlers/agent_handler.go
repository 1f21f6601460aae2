package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"legal-dashboard/application/services"
	"legal-dashboard/pkg/errors"
)

// AgentHandler serves knowledge-base queries
type AgentHandler struct {
	responder
	agent *services.AgentService
}

func NewAgentHandler(agent *services.AgentService, errorHandler *errors.ErrorHandler, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		responder: newResponder(errorHandler, logger),
		agent:     agent,
	}
}

// Query handles POST /api/agent/query
func (h *AgentHandler) Query(w http.ResponseWriter, r *http.Request) {
	var cmd services.AgentQueryCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.fail(w, r, err, "")
		return
	}

	answer, err := h.agent.Query(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err, "Failed to process query")
		return
	}
	h.respondJSON(w, http.StatusOK, answer)
}
