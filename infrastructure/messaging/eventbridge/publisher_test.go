package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"legal-dashboard/domain/events"
)

type mockEventBridge struct {
	mock.Mock
}

func (m *mockEventBridge) PutEvents(ctx context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*eventbridge.PutEventsOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestPublisher(client EventBridgeAPI) *Publisher {
	p := NewPublisher(client, "legal-bus", zap.NewNop())
	p.backoff = time.Millisecond
	return p
}

func uploaded(n int) []events.DomainEvent {
	at := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	out := make([]events.DomainEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, events.NewDocumentUploaded("F-1", fmt.Sprintf("d%d", i), "a.pdf", "k", "v1", "user-1", at))
	}
	return out
}

func withEntries(n int) interface{} {
	return mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool { return len(in.Entries) == n })
}

func TestPublisher_PublishBatchChunksByTen(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &mockEventBridge{}
	client.On("PutEvents", ctx, withEntries(10)).Return(&eventbridge.PutEventsOutput{}, nil).Twice()
	client.On("PutEvents", ctx, withEntries(3)).Return(&eventbridge.PutEventsOutput{}, nil).Once()

	// Act
	err := newTestPublisher(client).PublishBatch(ctx, uploaded(23))

	// Assert
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestPublisher_EntryShape(t *testing.T) {
	ctx := context.Background()
	client := &mockEventBridge{}
	var captured *eventbridge.PutEventsInput
	client.On("PutEvents", ctx, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*eventbridge.PutEventsInput)
	}).Return(&eventbridge.PutEventsOutput{}, nil)

	err := newTestPublisher(client).Publish(ctx, uploaded(1)[0])

	require.NoError(t, err)
	require.Len(t, captured.Entries, 1)
	entry := captured.Entries[0]
	assert.Equal(t, "legal-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, events.Source, aws.ToString(entry.Source))
	assert.Equal(t, events.TypeDocumentUploaded, aws.ToString(entry.DetailType))

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "F-1", detail["fileId"])
	assert.Equal(t, "d0", detail["documentId"])
}

func TestPublisher_Retries(t *testing.T) {
	ctx := context.Background()

	t.Run("resubmits only rejected entries", func(t *testing.T) {
		client := &mockEventBridge{}
		client.On("PutEvents", ctx, withEntries(3)).Return(&eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries: []types.PutEventsResultEntry{
				{EventId: aws.String("e0")},
				{ErrorCode: aws.String("ThrottlingException"), ErrorMessage: aws.String("slow down")},
				{EventId: aws.String("e2")},
			},
		}, nil).Once()
		client.On("PutEvents", ctx, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
			return len(in.Entries) == 1 && aws.ToString(in.Entries[0].Detail) != ""
		})).Return(&eventbridge.PutEventsOutput{}, nil).Once()

		err := newTestPublisher(client).PublishBatch(ctx, uploaded(3))

		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		client := &mockEventBridge{}
		client.On("PutEvents", ctx, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "ThrottlingException", Fault: smithy.FaultClient})

		err := newTestPublisher(client).Publish(ctx, uploaded(1)[0])

		assert.ErrorContains(t, err, "after 3 attempts")
		client.AssertNumberOfCalls(t, "PutEvents", maxAttempts)
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		client := &mockEventBridge{}
		client.On("PutEvents", ctx, mock.Anything).Return(nil, errors.New("access denied"))

		err := newTestPublisher(client).Publish(ctx, uploaded(1)[0])

		assert.ErrorContains(t, err, "failed to publish events to EventBridge")
		client.AssertNumberOfCalls(t, "PutEvents", 1)
	})
}

func TestNewEventPublisher(t *testing.T) {
	noop := NewEventPublisher(&mockEventBridge{}, "", zap.NewNop())
	assert.IsType(t, &NoopPublisher{}, noop)
	assert.NoError(t, noop.PublishBatch(context.Background(), uploaded(2)))

	assert.IsType(t, &Publisher{}, NewEventPublisher(&mockEventBridge{}, "bus", zap.NewNop()))
}
