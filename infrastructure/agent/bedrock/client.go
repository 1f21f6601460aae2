// Package bedrock invokes the managed Bedrock agent and collects its streamed
// completion into a single reply.
package bedrock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"legal-dashboard/application/ports"
	apperrors "legal-dashboard/pkg/errors"
)

// AgentRuntimeAPI is the subset of the Bedrock Agent Runtime client in use
type AgentRuntimeAPI interface {
	InvokeAgent(ctx context.Context, params *bedrockagentruntime.InvokeAgentInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.InvokeAgentOutput, error)
}

var _ AgentRuntimeAPI = (*bedrockagentruntime.Client)(nil)

// ErrNotConfigured is returned by Invoke when the agent or alias id is missing
var ErrNotConfigured = errors.New("bedrock agent configuration missing (BEDROCK_AGENT_ID or BEDROCK_AGENT_ALIAS_ID)")

// completionStream is the part of the SDK event stream Invoke reads
type completionStream interface {
	Events() <-chan types.ResponseStream
	Close() error
	Err() error
}

// Config identifies the agent and tunes the breaker around it
type Config struct {
	AgentID string
	AliasID string

	BreakerMinRequests   uint32
	BreakerFailureRatio  float64
	BreakerOpenTimeout   time.Duration
	BreakerHalfOpenCalls uint32
}

// DefaultConfig returns breaker settings suited to a slow, rarely failing agent
func DefaultConfig(agentID, aliasID string) Config {
	return Config{
		AgentID:              agentID,
		AliasID:              aliasID,
		BreakerMinRequests:   5,
		BreakerFailureRatio:  0.6,
		BreakerOpenTimeout:   30 * time.Second,
		BreakerHalfOpenCalls: 1,
	}
}

// Client implements ports.AgentInvoker
type Client struct {
	api     AgentRuntimeAPI
	config  Config
	breaker *gobreaker.CircuitBreaker
	metrics ports.MetricsRecorder
	logger  *zap.Logger
}

var _ ports.AgentInvoker = (*Client)(nil)

func NewClient(api AgentRuntimeAPI, config Config, metrics ports.MetricsRecorder, logger *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "bedrock-agent",
		MaxRequests: config.BreakerHalfOpenCalls,
		Timeout:     config.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= config.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			// Cancelled callers say nothing about the agent's health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		api:     api,
		config:  config,
		breaker: breaker,
		metrics: metrics,
		logger:  logger,
	}
}

// Configured reports whether both agent identifiers are set
func (c *Client) Configured() bool {
	return c.config.AgentID != "" && c.config.AliasID != ""
}

// Invoke sends inputText in sessionID and returns the concatenated completion
func (c *Client) Invoke(ctx context.Context, sessionID, inputText string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.invoke(ctx, sessionID, inputText)
	})
	if c.metrics != nil {
		c.metrics.RecordLatency(ctx, "BedrockInvokeAgent", time.Since(start))
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", apperrors.NewUnavailableError("AI agent temporarily unavailable").WithCause(err)
		}
		return "", err
	}

	completion := result.(string)
	c.logger.Debug("Agent invocation finished",
		zap.String("sessionId", sessionID),
		zap.Int("promptChars", len(inputText)),
		zap.Int("completionChars", len(completion)),
		zap.Duration("duration", time.Since(start)),
	)
	return completion, nil
}

func (c *Client) invoke(ctx context.Context, sessionID, inputText string) (string, error) {
	out, err := c.api.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(c.config.AgentID),
		AgentAliasId: aws.String(c.config.AliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(inputText),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke agent: %w", err)
	}

	stream := out.GetStream()
	if stream == nil {
		return "", errors.New("agent returned no completion stream")
	}
	return collectCompletion(stream)
}

// collectCompletion drains the stream, concatenating chunk payloads as UTF-8
func collectCompletion(stream completionStream) (string, error) {
	defer stream.Close()

	var sb strings.Builder
	for event := range stream.Events() {
		if chunk, ok := event.(*types.ResponseStreamMemberChunk); ok {
			sb.Write(chunk.Value.Bytes)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("agent completion stream failed: %w", err)
	}
	return sb.String(), nil
}
