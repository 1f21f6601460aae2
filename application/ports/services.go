package ports

import (
	"context"
	"errors"
	"time"

	"legal-dashboard/domain/entities"
	"legal-dashboard/domain/events"
)

// PutObjectInput describes an object written to the documents bucket.
type PutObjectInput struct {
	Key         string
	Body        []byte
	ContentType string
	Metadata    map[string]string
}

// StoredObject is an object read back from storage.
type StoredObject struct {
	Body            []byte
	ContentType     string
	ContentEncoding string
}

// ObjectStore is the versioned documents bucket.
type ObjectStore interface {
	// PutObject returns the version id assigned by the bucket, "" when unversioned.
	PutObject(ctx context.Context, in PutObjectInput) (string, error)
	GetObject(ctx context.Context, key string) (*StoredObject, error)
	HeadVersion(ctx context.Context, key string) (string, error)

	// ListVersions returns the versions of exactly key, not of keys sharing its prefix.
	ListVersions(ctx context.Context, key string) ([]entities.DocumentVersion, error)
}

// URLPresigner issues time-limited URLs so browsers talk to the bucket directly.
type URLPresigner interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

// TextStore keeps gzip-compressed derived artifacts.
type TextStore interface {
	// PutText returns the compressed size in bytes.
	PutText(ctx context.Context, key, text string) (int, error)
	GetText(ctx context.Context, key string) (string, error)
}

// ErrUnsupportedDocumentType is wrapped by extractors that have no decoder for a file.
var ErrUnsupportedDocumentType = errors.New("unsupported document type")

// TextExtractor turns a stored original into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, s3Key, contentType, fileName string) (string, error)
}

// AgentInvoker sends prompts to the managed agent.
type AgentInvoker interface {
	Configured() bool
	Invoke(ctx context.Context, sessionID, inputText string) (string, error)
}

// UserDirectory manages accounts in the identity provider.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]*entities.DirectoryUser, error)
	AddUserToGroup(ctx context.Context, userID, group string) error
	RemoveUserFromGroup(ctx context.Context, userID, group string) error
	DeleteUser(ctx context.Context, userID string) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// MetricsRecorder records operational and business metrics.
type MetricsRecorder interface {
	RecordLatency(ctx context.Context, operation string, latency time.Duration)
	RecordCount(ctx context.Context, metricName string, value float64, dimensions map[string]string)
}
