package bedrock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"legal-dashboard/application/ports/mocks"
	apperrors "legal-dashboard/pkg/errors"
)

type mockRuntime struct {
	mock.Mock
}

func (m *mockRuntime) InvokeAgent(ctx context.Context, in *bedrockagentruntime.InvokeAgentInput, _ ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.InvokeAgentOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*bedrockagentruntime.InvokeAgentOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

type fakeStream struct {
	events chan types.ResponseStream
	err    error
	closed bool
}

func newFakeStream(err error, events ...types.ResponseStream) *fakeStream {
	ch := make(chan types.ResponseStream, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)
	return &fakeStream{events: ch, err: err}
}

func (s *fakeStream) Events() <-chan types.ResponseStream { return s.events }
func (s *fakeStream) Close() error                        { s.closed = true; return nil }
func (s *fakeStream) Err() error                          { return s.err }

func chunk(text string) types.ResponseStream {
	return &types.ResponseStreamMemberChunk{Value: types.PayloadPart{Bytes: []byte(text)}}
}

func TestCollectCompletion(t *testing.T) {
	t.Run("concatenates chunks and skips other events", func(t *testing.T) {
		// Arrange
		stream := newFakeStream(nil,
			chunk("The statute of limitations "),
			&types.ResponseStreamMemberTrace{},
			chunk("is two years."),
		)

		// Act
		text, err := collectCompletion(stream)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "The statute of limitations is two years.", text)
		assert.True(t, stream.closed)
	})

	t.Run("stream error", func(t *testing.T) {
		stream := newFakeStream(errors.New("throttled"), chunk("partial"))

		_, err := collectCompletion(stream)

		assert.EqualError(t, err, "agent completion stream failed: throttled")
		assert.True(t, stream.closed)
	})
}

func TestClient_Configured(t *testing.T) {
	assert.True(t, NewClient(&mockRuntime{}, DefaultConfig("A", "B"), nil, zap.NewNop()).Configured())
	assert.False(t, NewClient(&mockRuntime{}, DefaultConfig("A", ""), nil, zap.NewNop()).Configured())
	assert.False(t, NewClient(&mockRuntime{}, DefaultConfig("", "B"), nil, zap.NewNop()).Configured())
}

func TestClient_Invoke(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfigured client does not call the agent", func(t *testing.T) {
		api := &mockRuntime{}

		_, err := NewClient(api, DefaultConfig("", ""), nil, zap.NewNop()).Invoke(ctx, "s", "hi")

		assert.ErrorIs(t, err, ErrNotConfigured)
		api.AssertNotCalled(t, "InvokeAgent", mock.Anything, mock.Anything)
	})

	t.Run("sends identifiers and records latency", func(t *testing.T) {
		// Arrange
		api := &mockRuntime{}
		metrics := &mocks.MetricsRecorder{}
		metrics.On("RecordLatency", ctx, "BedrockInvokeAgent", mock.AnythingOfType("time.Duration")).Return()
		api.On("InvokeAgent", ctx, mock.MatchedBy(func(in *bedrockagentruntime.InvokeAgentInput) bool {
			return aws.ToString(in.AgentId) == "AGENT" &&
				aws.ToString(in.AgentAliasId) == "ALIAS" &&
				aws.ToString(in.SessionId) == "session-1" &&
				aws.ToString(in.InputText) == "summarize"
		})).Return(nil, errors.New("access denied"))

		// Act
		_, err := NewClient(api, DefaultConfig("AGENT", "ALIAS"), metrics, zap.NewNop()).Invoke(ctx, "session-1", "summarize")

		// Assert
		assert.EqualError(t, err, "failed to invoke agent: access denied")
		api.AssertExpectations(t)
		metrics.AssertExpectations(t)
	})

	t.Run("output without stream", func(t *testing.T) {
		api := &mockRuntime{}
		api.On("InvokeAgent", ctx, mock.Anything).Return(&bedrockagentruntime.InvokeAgentOutput{}, nil)

		_, err := NewClient(api, DefaultConfig("A", "B"), nil, zap.NewNop()).Invoke(ctx, "s", "hi")

		assert.ErrorContains(t, err, "no completion stream")
	})

	t.Run("breaker opens after repeated failures", func(t *testing.T) {
		// Arrange
		api := &mockRuntime{}
		api.On("InvokeAgent", ctx, mock.Anything).Return(nil, errors.New("service unavailable"))
		config := DefaultConfig("A", "B")
		config.BreakerMinRequests = 3
		config.BreakerOpenTimeout = time.Minute
		client := NewClient(api, config, nil, zap.NewNop())

		// Act
		for i := 0; i < 3; i++ {
			_, _ = client.Invoke(ctx, "s", "hi")
		}
		_, err := client.Invoke(ctx, "s", "hi")

		// Assert
		assert.ErrorContains(t, err, "temporarily unavailable")
		assert.True(t, apperrors.IsUnavailable(err))
		api.AssertNumberOfCalls(t, "InvokeAgent", 3)
	})
}
