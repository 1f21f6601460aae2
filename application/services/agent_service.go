package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"legal-dashboard/application/ports"
	"legal-dashboard/pkg/errors"

	"go.uber.org/zap"
)

// AgentQueryCommand is a free-form question for the agent, optionally scoped to a case.
type AgentQueryCommand struct {
	Query        string `json:"query"`
	ClientID     string `json:"clientId"`
	FileNumberID string `json:"fileNumberId"`
}

// AgentAnswer is the parsed agent reply.
type AgentAnswer struct {
	Answer       string `json:"answer"`
	Query        string `json:"query"`
	ClientID     string `json:"clientId,omitempty"`
	FileNumberID string `json:"fileNumberId,omitempty"`
}

// AgentService answers knowledge-base questions through the agent.
type AgentService struct {
	agent       ports.AgentInvoker
	fileNumbers ports.FileNumberRepository
	metrics     ports.MetricsRecorder
	logger      *zap.Logger
	now         func() time.Time
}

// NewAgentService creates a new agent service
func NewAgentService(agent ports.AgentInvoker, fileNumbers ports.FileNumberRepository, metrics ports.MetricsRecorder, logger *zap.Logger) *AgentService {
	return &AgentService{
		agent:       agent,
		fileNumbers: fileNumbers,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Query validates the request, adds case context and invokes the agent.
func (s *AgentService) Query(ctx context.Context, cmd AgentQueryCommand) (*AgentAnswer, error) {
	var problems []string
	if strings.TrimSpace(cmd.Query) == "" {
		problems = append(problems, "Query is required and cannot be empty")
	}
	if !s.agent.Configured() {
		problems = append(problems, "Bedrock agent configuration missing (BEDROCK_AGENT_ID or BEDROCK_AGENT_ALIAS_ID)")
	}
	if len(problems) > 0 {
		return nil, errors.NewValidationError(strings.Join(problems, "; "))
	}

	input := s.withContext(ctx, cmd)
	sessionID := fmt.Sprintf("session-%d", s.now().UnixMilli())

	start := time.Now()
	raw, err := s.agent.Invoke(ctx, sessionID, input)
	recordLatency(ctx, s.metrics, "AgentQuery", start)
	recordCount(ctx, s.metrics, MetricAgentInvocations, map[string]string{"Purpose": "query"})
	if err != nil {
		s.logger.Error("Agent invocation failed", zap.String("sessionId", sessionID), zap.Error(err))
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.NewInternalError("Failed to process query").WithReason(err.Error()).WithCause(err)
	}

	return &AgentAnswer{
		Answer:       ParseAgentReply(raw),
		Query:        cmd.Query,
		ClientID:     cmd.ClientID,
		FileNumberID: cmd.FileNumberID,
	}, nil
}

// withContext prefixes the query with the client and file number it concerns.
func (s *AgentService) withContext(ctx context.Context, cmd AgentQueryCommand) string {
	if cmd.ClientID == "" && cmd.FileNumberID == "" {
		return cmd.Query
	}

	var parts []string
	if cmd.ClientID != "" {
		parts = append(parts, "Client ID: "+cmd.ClientID)
	}
	if cmd.FileNumberID != "" {
		parts = append(parts, s.fileNumberLabel(ctx, cmd.FileNumberID))
	}

	return fmt.Sprintf("Context: %s\n\nQuery: %s", strings.Join(parts, ", "), cmd.Query)
}

// fileNumberLabel prefers the human readable file number over its id.
func (s *AgentService) fileNumberLabel(ctx context.Context, fileNumberID string) string {
	fileNumber, err := s.fileNumbers.Get(ctx, fileNumberID)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Warn("Failed to fetch file number", zap.String("fileNumberId", fileNumberID), zap.Error(err))
		}
		return "File Number ID: " + fileNumberID
	}
	if fileNumber.FileNumber == "" {
		return "File Number ID: " + fileNumberID
	}
	return "File Number: " + fileNumber.FileNumber
}

// replyFields are checked in order for a plain-text answer inside a JSON reply.
var replyFields = []string{"output", "response", "message", "content"}

// ParseAgentReply unwraps agents that answer with a JSON envelope. Unknown JSON
// is pretty printed and anything else is returned as is.
func ParseAgentReply(reply string) string {
	if reply == "" {
		return ""
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return reply
	}

	if obj, ok := parsed.(map[string]interface{}); ok {
		for _, field := range replyFields {
			if text, ok := obj[field].(string); ok && (field == "output" || text != "") {
				return text
			}
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(reply)), "", "  "); err != nil {
		return reply
	}
	return buf.String()
}
