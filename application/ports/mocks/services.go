package mocks

import (
	"context"
	"time"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
	"legal-dashboard/domain/events"

	"github.com/stretchr/testify/mock"
)

// ObjectStore is a testify mock of ports.ObjectStore.
type ObjectStore struct {
	mock.Mock
}

func (m *ObjectStore) PutObject(ctx context.Context, in ports.PutObjectInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *ObjectStore) GetObject(ctx context.Context, key string) (*ports.StoredObject, error) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.(*ports.StoredObject), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ObjectStore) HeadVersion(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *ObjectStore) ListVersions(ctx context.Context, key string) ([]entities.DocumentVersion, error) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.([]entities.DocumentVersion), args.Error(1)
	}
	return nil, args.Error(1)
}

// URLPresigner is a testify mock of ports.URLPresigner.
type URLPresigner struct {
	mock.Mock
}

func (m *URLPresigner) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *URLPresigner) PresignDownload(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// TextStore is a testify mock of ports.TextStore.
type TextStore struct {
	mock.Mock
}

func (m *TextStore) PutText(ctx context.Context, key, text string) (int, error) {
	args := m.Called(ctx, key, text)
	return args.Int(0), args.Error(1)
}

func (m *TextStore) GetText(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// TextExtractor is a testify mock of ports.TextExtractor.
type TextExtractor struct {
	mock.Mock
}

func (m *TextExtractor) Extract(ctx context.Context, s3Key, contentType, fileName string) (string, error) {
	args := m.Called(ctx, s3Key, contentType, fileName)
	return args.String(0), args.Error(1)
}

// AgentInvoker is a testify mock of ports.AgentInvoker.
type AgentInvoker struct {
	mock.Mock
}

func (m *AgentInvoker) Configured() bool {
	return m.Called().Bool(0)
}

func (m *AgentInvoker) Invoke(ctx context.Context, sessionID, inputText string) (string, error) {
	args := m.Called(ctx, sessionID, inputText)
	return args.String(0), args.Error(1)
}

// UserDirectory is a testify mock of ports.UserDirectory.
type UserDirectory struct {
	mock.Mock
}

func (m *UserDirectory) ListUsers(ctx context.Context) ([]*entities.DirectoryUser, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*entities.DirectoryUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserDirectory) AddUserToGroup(ctx context.Context, userID, group string) error {
	return m.Called(ctx, userID, group).Error(0)
}

func (m *UserDirectory) RemoveUserFromGroup(ctx context.Context, userID, group string) error {
	return m.Called(ctx, userID, group).Error(0)
}

func (m *UserDirectory) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// EventPublisher is a testify mock of ports.EventPublisher.
type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *EventPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	return m.Called(ctx, batch).Error(0)
}

// MetricsRecorder is a testify mock of ports.MetricsRecorder.
type MetricsRecorder struct {
	mock.Mock
}

func (m *MetricsRecorder) RecordLatency(ctx context.Context, operation string, latency time.Duration) {
	m.Called(ctx, operation, latency)
}

func (m *MetricsRecorder) RecordCount(ctx context.Context, metricName string, value float64, dimensions map[string]string) {
	m.Called(ctx, metricName, value, dimensions)
}
