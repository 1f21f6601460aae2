package events

import "time"

// Source is the EventBridge source for every event emitted by the API.
const Source = "legal-dashboard.api"

// Event types
const (
	TypeClientCreated          = "client.created"
	TypeDocumentUploaded       = "document.uploaded"
	TypeDocumentVersionAdded   = "document.version_added"
	TypeDocumentDeleted        = "document.deleted"
	TypeDocumentAnalyzed       = "document.analyzed"
	TypeDocumentAnalysisStored = "document.analysis_stored"
)

// DomainEvent is something that already happened to an aggregate.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregateId"`
	EventType   string    `json:"eventType"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, at time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   at,
		Version:     1,
	}
}

// ClientCreated is raised when a user registers a new client
type ClientCreated struct {
	BaseEvent
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
}

// NewClientCreated creates a ClientCreated event
func NewClientCreated(clientID, userID, name string, at time.Time) ClientCreated {
	return ClientCreated{
		BaseEvent: newBase(clientID, TypeClientCreated, at),
		ClientID:  clientID,
		UserID:    userID,
		Name:      name,
	}
}

// DocumentEvent carries the identity of a document plus who triggered the change.
type DocumentEvent struct {
	BaseEvent
	FileID     string `json:"fileId"`
	DocumentID string `json:"documentId"`
	FileName   string `json:"fileName"`
	S3Key      string `json:"s3Key,omitempty"`
	VersionID  string `json:"versionId,omitempty"`
	Actor      string `json:"actor,omitempty"`
}

func newDocumentEvent(eventType, fileID, documentID, fileName string, at time.Time) DocumentEvent {
	return DocumentEvent{
		BaseEvent:  newBase(fileID+"/"+documentID, eventType, at),
		FileID:     fileID,
		DocumentID: documentID,
		FileName:   fileName,
	}
}

// NewDocumentUploaded is raised when a document record is created for a new file.
func NewDocumentUploaded(fileID, documentID, fileName, s3Key, versionID, actor string, at time.Time) DocumentEvent {
	e := newDocumentEvent(TypeDocumentUploaded, fileID, documentID, fileName, at)
	e.S3Key = s3Key
	e.VersionID = versionID
	e.Actor = actor
	return e
}

// NewDocumentVersionAdded is raised when an upload replaces an existing document of the same name.
func NewDocumentVersionAdded(fileID, documentID, fileName, s3Key, versionID, actor string, at time.Time) DocumentEvent {
	e := newDocumentEvent(TypeDocumentVersionAdded, fileID, documentID, fileName, at)
	e.S3Key = s3Key
	e.VersionID = versionID
	e.Actor = actor
	return e
}

// NewDocumentDeleted is raised on soft delete.
func NewDocumentDeleted(fileID, documentID, fileName, actor string, at time.Time) DocumentEvent {
	e := newDocumentEvent(TypeDocumentDeleted, fileID, documentID, fileName, at)
	e.Actor = actor
	return e
}

// NewDocumentAnalyzed is raised once extracted text is stored.
func NewDocumentAnalyzed(fileID, documentID, fileName, textKey string, at time.Time) DocumentEvent {
	e := newDocumentEvent(TypeDocumentAnalyzed, fileID, documentID, fileName, at)
	e.S3Key = textKey
	return e
}

// NewDocumentAnalysisStored is raised when the background agent analysis finishes.
func NewDocumentAnalysisStored(fileID, documentID, fileName, analysisKey string, at time.Time) DocumentEvent {
	e := newDocumentEvent(TypeDocumentAnalysisStored, fileID, documentID, fileName, at)
	e.S3Key = analysisKey
	return e
}
