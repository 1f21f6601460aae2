package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
	"legal-dashboard/domain/events"
	"legal-dashboard/pkg/errors"
	"legal-dashboard/pkg/utils"

	"go.uber.org/zap"
)

// Metric names
const (
	MetricDocumentsUploaded = "DocumentsUploaded"
	MetricDocumentsAnalyzed = "DocumentsAnalyzed"
	MetricAgentInvocations  = "AgentInvocations"
)

// DocumentServiceConfig tunes the analysis pipeline.
type DocumentServiceConfig struct {
	// PreviewChars is the length of the analysis preview kept on the record.
	PreviewChars int
	// MaxAgentChars bounds the text handed to the agent for background analysis.
	MaxAgentChars int
	// BackgroundTimeout bounds a single background analysis job.
	BackgroundTimeout time.Duration
	// DeferAnalysis skips the in-process job; a consumer of the
	// document.analyzed event calls Enrich instead.
	DeferAnalysis bool
}

// DefaultDocumentServiceConfig returns the production defaults.
func DefaultDocumentServiceConfig() DocumentServiceConfig {
	return DocumentServiceConfig{
		PreviewChars:      500,
		MaxAgentChars:     100000,
		BackgroundTimeout: 5 * time.Minute,
	}
}

// UploadDocumentCommand carries a file received through multipart upload.
type UploadDocumentCommand struct {
	FileID      string
	ClientID    string
	FileNumber  string
	FileName    string
	ContentType string
	Size        int64
	Body        []byte
	UploadedBy  string
}

// UploadResult reports whether an upload created a document or added a version.
type UploadResult struct {
	Document *entities.Document
	Created  bool
}

// PresignUploadCommand requests a direct-to-bucket upload URL.
type PresignUploadCommand struct {
	FileID      string
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
	ClientID    string `json:"clientId" validate:"required"`
	FileNumber  string `json:"fileNumber" validate:"required"`
}

// PresignedUpload is returned to the browser before a direct upload.
type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	S3Key     string `json:"s3Key"`
	FileName  string `json:"fileName"`
}

// ConfirmUploadCommand records a document uploaded through a presigned URL.
type ConfirmUploadCommand struct {
	FileID      string
	DocumentID  string `json:"documentId"`
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
	Size        int64  `json:"size" validate:"gt=0"`
	S3Key       string `json:"s3Key" validate:"required"`
	ClientID    string `json:"clientId" validate:"required"`
	FileNumber  string `json:"fileNumber" validate:"required"`
	UploadedBy  string
}

// DocumentVersions lists the bucket versions of one document.
type DocumentVersions struct {
	DocumentID string                     `json:"documentId"`
	FileName   string                     `json:"fileName"`
	Versions   []entities.DocumentVersion `json:"versions"`
}

// AnalysisResult is returned as soon as text extraction finishes.
type AnalysisResult struct {
	DocumentID string  `json:"documentId"`
	FileName   string  `json:"fileName"`
	Analysis   *string `json:"analysis"`
	AnalyzedAt *string `json:"analyzedAt"`
}

// ChatResult is one exchange with the agent about a document.
type ChatResult struct {
	DocumentID          string                         `json:"documentId"`
	UserMessage         string                         `json:"userMessage"`
	AssistantMessage    string                         `json:"assistantMessage"`
	ConversationHistory []entities.ConversationMessage `json:"conversationHistory"`
}

// Conversation is the stored chat history of a document.
type Conversation struct {
	DocumentID          string                         `json:"documentId"`
	ConversationHistory []entities.ConversationMessage `json:"conversationHistory"`
}

// DocumentService runs the document pipeline: uploads, versions, text
// extraction, AI analysis and document chat.
type DocumentService struct {
	documents   ports.DocumentRepository
	fileNumbers ports.FileNumberRepository
	objects     ports.ObjectStore
	presigner   ports.URLPresigner
	texts       ports.TextStore
	extractor   ports.TextExtractor
	agent       ports.AgentInvoker
	publisher   ports.EventPublisher
	metrics     ports.MetricsRecorder
	logger      *zap.Logger
	config      DocumentServiceConfig
	now         func() time.Time

	background sync.WaitGroup
}

// NewDocumentService creates a new document service
func NewDocumentService(
	documents ports.DocumentRepository,
	fileNumbers ports.FileNumberRepository,
	objects ports.ObjectStore,
	presigner ports.URLPresigner,
	texts ports.TextStore,
	extractor ports.TextExtractor,
	agent ports.AgentInvoker,
	publisher ports.EventPublisher,
	metrics ports.MetricsRecorder,
	config DocumentServiceConfig,
	logger *zap.Logger,
) *DocumentService {
	defaults := DefaultDocumentServiceConfig()
	if config.PreviewChars <= 0 {
		config.PreviewChars = defaults.PreviewChars
	}
	if config.MaxAgentChars <= 0 {
		config.MaxAgentChars = defaults.MaxAgentChars
	}
	if config.BackgroundTimeout <= 0 {
		config.BackgroundTimeout = defaults.BackgroundTimeout
	}

	return &DocumentService{
		documents:   documents,
		fileNumbers: fileNumbers,
		objects:     objects,
		presigner:   presigner,
		texts:       texts,
		extractor:   extractor,
		agent:       agent,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
		config:      config,
		now:         time.Now,
	}
}

// Wait blocks until running background jobs finish or ctx is done.
func (s *DocumentService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *DocumentService) timestamp() string {
	return utils.FormatTimestamp(s.now())
}

// getActive loads a document and hides soft-deleted ones.
func (s *DocumentService) getActive(ctx context.Context, fileID, documentID string) (*entities.Document, error) {
	doc, err := s.documents.Get(ctx, fileID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted() {
		return nil, errors.NewNotFoundError("Document")
	}
	return doc, nil
}

// List returns the non-deleted documents of a file number.
func (s *DocumentService) List(ctx context.Context, fileID string) ([]*entities.Document, error) {
	return s.documents.ListByFileID(ctx, fileID)
}

// Upload stores the file in the documents bucket. A second upload with the
// same name becomes a new version of the existing document.
func (s *DocumentService) Upload(ctx context.Context, cmd UploadDocumentCommand) (*UploadResult, error) {
	if cmd.FileName == "" {
		return nil, errors.NewValidationError("File is required")
	}
	if cmd.ClientID == "" || cmd.FileNumber == "" {
		return nil, errors.NewValidationError("clientId and fileNumber are required")
	}

	safeName := utils.SanitizeFileName(cmd.FileName)
	key := DocumentObjectKey(cmd.ClientID, cmd.FileNumber, safeName)

	start := time.Now()
	versionID, err := s.objects.PutObject(ctx, ports.PutObjectInput{
		Key:         key,
		Body:        cmd.Body,
		ContentType: cmd.ContentType,
		Metadata: map[string]string{
			"clientid":   cmd.ClientID,
			"filenumber": cmd.FileNumber,
		},
	})
	recordLatency(ctx, s.metrics, "DocumentUpload", start)
	if err != nil {
		return nil, errors.NewStorageError("put document", err)
	}

	existing, err := s.documents.FindByFileName(ctx, cmd.FileID, safeName)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		latest := existing.LatestVersionID
		if versionID != "" {
			latest = &versionID
		}
		updated, err := s.documents.Update(ctx, cmd.FileID, existing.DocumentID, entities.DocumentChanges{
			ContentType:     &cmd.ContentType,
			Size:            &cmd.Size,
			LatestVersionID: latest,
			UploadedBy:      &cmd.UploadedBy,
		})
		if err != nil {
			return nil, err
		}

		s.logger.Info("Document version added",
			zap.String("fileId", cmd.FileID),
			zap.String("documentId", updated.DocumentID),
			zap.String("s3Key", key),
			zap.String("versionId", versionID),
		)
		publishEvent(ctx, s.publisher, s.logger, events.NewDocumentVersionAdded(
			cmd.FileID, updated.DocumentID, safeName, key, versionID, cmd.UploadedBy, s.now()))
		recordCount(ctx, s.metrics, MetricDocumentsUploaded, map[string]string{"Kind": "version"})
		return &UploadResult{Document: updated}, nil
	}

	created, err := s.documents.Create(ctx, cmd.FileID, entities.NewDocument{
		ClientID:        cmd.ClientID,
		FileNumber:      cmd.FileNumber,
		FileName:        safeName,
		ContentType:     cmd.ContentType,
		Size:            cmd.Size,
		S3Key:           key,
		LatestVersionID: optionalString(versionID),
		UploadedBy:      cmd.UploadedBy,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Document uploaded",
		zap.String("fileId", cmd.FileID),
		zap.String("documentId", created.DocumentID),
		zap.String("s3Key", key),
	)
	publishEvent(ctx, s.publisher, s.logger, events.NewDocumentUploaded(
		cmd.FileID, created.DocumentID, safeName, key, versionID, cmd.UploadedBy, s.now()))
	recordCount(ctx, s.metrics, MetricDocumentsUploaded, map[string]string{"Kind": "new"})
	return &UploadResult{Document: created, Created: true}, nil
}

// PresignUpload returns a short-lived URL the browser can PUT the file to.
func (s *DocumentService) PresignUpload(ctx context.Context, cmd PresignUploadCommand) (*PresignedUpload, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, errors.NewValidationError("fileName, contentType, clientId, and fileNumber are required")
	}

	safeName := utils.SanitizeFileName(cmd.FileName)
	key := DocumentObjectKey(cmd.ClientID, cmd.FileNumber, safeName)

	url, err := s.presigner.PresignUpload(ctx, key, cmd.ContentType)
	if err != nil {
		return nil, errors.NewStorageError("presign upload", err)
	}

	return &PresignedUpload{UploadURL: url, S3Key: key, FileName: safeName}, nil
}

// ConfirmUpload records a document the browser uploaded with a presigned URL.
func (s *DocumentService) ConfirmUpload(ctx context.Context, cmd ConfirmUploadCommand) (*UploadResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, errors.NewValidationError("All fields are required")
	}

	existing, err := s.documents.FindByFileName(ctx, cmd.FileID, cmd.FileName)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		versionID, err := s.objects.HeadVersion(ctx, cmd.S3Key)
		if err != nil {
			return nil, errors.NewStorageError("head document", err)
		}
		latest := existing.LatestVersionID
		if versionID != "" {
			latest = &versionID
		}

		updated, err := s.documents.Update(ctx, cmd.FileID, existing.DocumentID, entities.DocumentChanges{
			ContentType:     &cmd.ContentType,
			Size:            &cmd.Size,
			LatestVersionID: latest,
			UploadedBy:      &cmd.UploadedBy,
		})
		if err != nil {
			return nil, err
		}
		publishEvent(ctx, s.publisher, s.logger, events.NewDocumentVersionAdded(
			cmd.FileID, updated.DocumentID, cmd.FileName, cmd.S3Key, versionID, cmd.UploadedBy, s.now()))
		recordCount(ctx, s.metrics, MetricDocumentsUploaded, map[string]string{"Kind": "version"})
		return &UploadResult{Document: updated}, nil
	}

	created, err := s.documents.Create(ctx, cmd.FileID, entities.NewDocument{
		DocumentID:  cmd.DocumentID,
		ClientID:    cmd.ClientID,
		FileNumber:  cmd.FileNumber,
		FileName:    cmd.FileName,
		ContentType: cmd.ContentType,
		Size:        cmd.Size,
		S3Key:       cmd.S3Key,
		UploadedBy:  cmd.UploadedBy,
	})
	if err != nil {
		return nil, err
	}

	versionID, err := s.objects.HeadVersion(ctx, cmd.S3Key)
	if err != nil {
		return nil, errors.NewStorageError("head document", err)
	}
	if versionID != "" {
		if _, err := s.documents.Update(ctx, cmd.FileID, created.DocumentID, entities.DocumentChanges{
			LatestVersionID: &versionID,
		}); err != nil {
			return nil, err
		}
		created.LatestVersionID = &versionID
	}

	publishEvent(ctx, s.publisher, s.logger, events.NewDocumentUploaded(
		cmd.FileID, created.DocumentID, cmd.FileName, cmd.S3Key, versionID, cmd.UploadedBy, s.now()))
	recordCount(ctx, s.metrics, MetricDocumentsUploaded, map[string]string{"Kind": "new"})
	return &UploadResult{Document: created, Created: true}, nil
}

// Versions lists the bucket versions of a document's original file.
func (s *DocumentService) Versions(ctx context.Context, fileID, documentID string) (*DocumentVersions, error) {
	doc, err := s.getActive(ctx, fileID, documentID)
	if err != nil {
		return nil, err
	}

	versions, err := s.objects.ListVersions(ctx, doc.S3Key)
	if err != nil {
		return nil, errors.NewStorageError("list versions", err)
	}
	if versions == nil {
		versions = []entities.DocumentVersion{}
	}

	return &DocumentVersions{DocumentID: doc.DocumentID, FileName: doc.FileName, Versions: versions}, nil
}

// Delete soft deletes a document and returns the updated record.
func (s *DocumentService) Delete(ctx context.Context, fileID, documentID, deletedBy string) (*entities.Document, error) {
	doc, err := s.getActive(ctx, fileID, documentID)
	if err != nil {
		return nil, err
	}

	updated, err := s.documents.SoftDelete(ctx, fileID, documentID, deletedBy)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Document deleted",
		zap.String("fileId", fileID),
		zap.String("documentId", documentID),
		zap.String("deletedBy", deletedBy),
	)
	publishEvent(ctx, s.publisher, s.logger, events.NewDocumentDeleted(fileID, documentID, doc.FileName, deletedBy, s.now()))
	return updated, nil
}

// DownloadURL returns a presigned GET URL for the latest version.
func (s *DocumentService) DownloadURL(ctx context.Context, fileID, documentID string) (string, error) {
	doc, err := s.getActive(ctx, fileID, documentID)
	if err != nil {
		return "", err
	}

	url, err := s.presigner.PresignDownload(ctx, doc.S3Key)
	if err != nil {
		return "", errors.NewStorageError("presign download", err)
	}
	return url, nil
}

// Analyze extracts the document text, stores it, and returns a preview right
// away. When the agent is available a background job replaces the preview with
// the agent's analysis.
func (s *DocumentService) Analyze(ctx context.Context, fileID, documentID string) (*AnalysisResult, error) {
	doc, err := s.getActive(ctx, fileID, documentID)
	if err != nil {
		return nil, err
	}

	if !entities.SupportsAnalysis(doc.ContentType) {
		return nil, errors.NewValidationError("Unsupported document type").
			WithDescription("Only PDF, Word (.docx), and text files can be analyzed. Images require OCR processing.")
	}

	start := time.Now()
	text, err := s.extractor.Extract(ctx, doc.S3Key, doc.ContentType, doc.FileName)
	recordLatency(ctx, s.metrics, "TextExtraction", start)
	if err != nil {
		s.logger.Error("Failed to extract document text",
			zap.String("fileId", fileID),
			zap.String("documentId", documentID),
			zap.String("contentType", doc.ContentType),
			zap.Error(err),
		)
		return nil, extractionError(err)
	}

	textKey, err := s.storeArtifact(ctx, ArtifactExtractedText, doc, text)
	if err != nil {
		return nil, err
	}

	preview := utils.Preview(text, s.config.PreviewChars)
	now := s.timestamp()
	updated, err := s.documents.Update(ctx, fileID, documentID, entities.DocumentChanges{
		ClearExtractedText:       true,
		ExtractedTextS3Key:       &textKey,
		ExtractedTextS3UpdatedAt: &now,
		Analysis:                 &preview,
		ClearAnalysisS3Key:       true,
		AnalyzedAt:               &now,
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, events.NewDocumentAnalyzed(fileID, documentID, doc.FileName, textKey, s.now()))
	recordCount(ctx, s.metrics, MetricDocumentsAnalyzed, nil)

	if !s.config.DeferAnalysis && s.wantsAgentAnalysis(text) {
		s.startAnalysisJob(doc, text)
	}

	return &AnalysisResult{
		DocumentID: updated.DocumentID,
		FileName:   updated.FileName,
		Analysis:   updated.Analysis,
		AnalyzedAt: updated.AnalyzedAt,
	}, nil
}

// extractionError maps decoder failures to the response the client expects.
// Formats the decoders cannot read are the caller's problem; anything else is ours.
func extractionError(err error) error {
	msg := err.Error()
	var appErr *errors.AppError
	if stderrors.Is(err, ports.ErrUnsupportedDocumentType) ||
		strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "single-page") {
		appErr = errors.NewValidationError("Failed to retrieve document content")
	} else {
		appErr = errors.NewInternalError("Failed to retrieve document content")
	}
	return appErr.WithReason(msg).WithCause(err)
}

func (s *DocumentService) wantsAgentAnalysis(text string) bool {
	return s.agent.Configured() && utf8.RuneCountInString(text) < s.config.MaxAgentChars
}

// Enrich runs the agent analysis for a document whose text has already been
// extracted. It is a no-op when the agent is not configured or the text is too
// long to hand over.
func (s *DocumentService) Enrich(ctx context.Context, fileID, documentID string) error {
	doc, err := s.getActive(ctx, fileID, documentID)
	if err != nil {
		return err
	}

	text, err := s.ensureExtractedText(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to load extracted text: %w", err)
	}
	if !s.wantsAgentAnalysis(text) {
		s.logger.Debug("Skipping agent analysis",
			zap.String("fileId", fileID),
			zap.String("documentId", documentID),
			zap.Bool("agentConfigured", s.agent.Configured()),
		)
		return nil
	}

	return s.runAnalysis(ctx, doc, text)
}

func (s *DocumentService) startAnalysisJob(doc *entities.Document, text string) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.config.BackgroundTimeout)
		defer cancel()

		if err := s.runAnalysis(ctx, doc, text); err != nil {
			s.logger.Error("Background document analysis failed",
				zap.String("fileId", doc.FileID),
				zap.String("documentId", doc.DocumentID),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("Background document analysis completed",
			zap.String("fileId", doc.FileID),
			zap.String("documentId", doc.DocumentID),
		)
	}()
}

func (s *DocumentService) runAnalysis(ctx context.Context, doc *entities.Document, text string) error {
	prompt := analysisPrompt(s.legalContext(ctx, doc.FileID), doc.FileName, text)
	sessionID := fmt.Sprintf("doc-analysis-%d", s.now().UnixMilli())

	analysis, err := s.agent.Invoke(ctx, sessionID, prompt)
	recordCount(ctx, s.metrics, MetricAgentInvocations, map[string]string{"Purpose": "analysis"})
	if err != nil {
		return fmt.Errorf("failed to invoke agent: %w", err)
	}

	analysisKey, err := s.storeArtifact(ctx, ArtifactAnalysis, doc, analysis)
	if err != nil {
		return err
	}

	preview := utils.Preview(analysis, s.config.PreviewChars)
	now := s.timestamp()
	if _, err := s.documents.Update(ctx, doc.FileID, doc.DocumentID, entities.DocumentChanges{
		Analysis:            &preview,
		AnalysisS3Key:       &analysisKey,
		AnalysisS3UpdatedAt: &now,
		AnalyzedAt:          &now,
	}); err != nil {
		return err
	}

	publishEvent(ctx, s.publisher, s.logger, events.NewDocumentAnalysisStored(doc.FileID, doc.DocumentID, doc.FileName, analysisKey, s.now()))
	return nil
}

// ChatCommand is a question about a single document.
type ChatCommand struct {
	FileID     string
	DocumentID string
	Message    string `json:"message"`
}

// Chat answers a question about a document, using the full extracted text and
// the earlier conversation as context, and persists the exchange.
func (s *DocumentService) Chat(ctx context.Context, cmd ChatCommand) (*ChatResult, error) {
	if strings.TrimSpace(cmd.Message) == "" {
		return nil, errors.NewValidationError("Message cannot be empty")
	}

	doc, err := s.getActive(ctx, cmd.FileID, cmd.DocumentID)
	if err != nil {
		return nil, err
	}

	text, err := s.ensureExtractedText(ctx, doc)
	if err != nil {
		s.logger.Error("Failed to load document text for chat",
			zap.String("fileId", cmd.FileID),
			zap.String("documentId", cmd.DocumentID),
			zap.Error(err),
		)
		return nil, errors.NewValidationError("Cannot extract document text").
			WithDescription("Unable to extract text from document for chat.").
			WithCause(err)
	}

	if !s.agent.Configured() {
		return nil, errors.NewUnavailableError("AI chat not available").
			WithDescription("Bedrock agent not configured")
	}

	legalContext := s.legalContext(ctx, cmd.FileID)

	history, err := s.loadConversation(ctx, doc)
	if err != nil {
		return nil, chatError(err)
	}

	prompt := chatPrompt(legalContext, history, doc.FileName, text, cmd.Message)
	sessionID := fmt.Sprintf("doc-chat-%s-%s", cmd.FileID, cmd.DocumentID)

	start := time.Now()
	answer, err := s.agent.Invoke(ctx, sessionID, prompt)
	recordLatency(ctx, s.metrics, "DocumentChat", start)
	recordCount(ctx, s.metrics, MetricAgentInvocations, map[string]string{"Purpose": "chat"})
	if err != nil {
		return nil, chatError(err)
	}

	history = append(history,
		entities.ConversationMessage{Role: entities.RoleUser, Content: cmd.Message, Timestamp: s.timestamp()},
		entities.ConversationMessage{Role: entities.RoleAssistant, Content: answer, Timestamp: s.timestamp()},
	)

	if err := s.saveConversation(ctx, doc, history); err != nil {
		return nil, chatError(err)
	}

	return &ChatResult{
		DocumentID:          cmd.DocumentID,
		UserMessage:         cmd.Message,
		AssistantMessage:    answer,
		ConversationHistory: history,
	}, nil
}

func chatError(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewInternalError("Failed to chat about document").WithReason(err.Error()).WithCause(err)
}

// Conversation returns the chat history of a document.
func (s *DocumentService) Conversation(ctx context.Context, fileID, documentID string) (*Conversation, error) {
	doc, err := s.getActive(ctx, fileID, documentID)
	if err != nil {
		return nil, err
	}

	history, err := s.loadConversation(ctx, doc)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load conversation history").WithCause(err)
	}

	return &Conversation{DocumentID: documentID, ConversationHistory: history}, nil
}

// ensureExtractedText returns the document text, reading the stored artifact,
// migrating a legacy embedded copy, or extracting it from the original, in that order.
func (s *DocumentService) ensureExtractedText(ctx context.Context, doc *entities.Document) (string, error) {
	if doc.ExtractedTextS3Key != nil && *doc.ExtractedTextS3Key != "" {
		return s.texts.GetText(ctx, *doc.ExtractedTextS3Key)
	}

	text, ok := doc.LegacyExtractedText()
	if ok {
		s.logger.Warn("Migrating embedded extracted text to S3",
			zap.String("fileId", doc.FileID),
			zap.String("documentId", doc.DocumentID),
		)
	} else {
		var err error
		text, err = s.extractor.Extract(ctx, doc.S3Key, doc.ContentType, doc.FileName)
		if err != nil {
			return "", err
		}
	}

	key, err := s.storeArtifact(ctx, ArtifactExtractedText, doc, text)
	if err != nil {
		return "", err
	}

	now := s.timestamp()
	if _, err := s.documents.Update(ctx, doc.FileID, doc.DocumentID, entities.DocumentChanges{
		ExtractedTextS3Key:       &key,
		ExtractedTextS3UpdatedAt: &now,
		ClearExtractedText:       true,
	}); err != nil {
		return "", err
	}
	doc.ExtractedTextS3Key = &key
	doc.ExtractedText = nil

	return text, nil
}

// loadConversation reads the stored history, migrating a legacy embedded
// history on first access.
func (s *DocumentService) loadConversation(ctx context.Context, doc *entities.Document) ([]entities.ConversationMessage, error) {
	if doc.ConversationHistoryS3Key != nil && *doc.ConversationHistoryS3Key != "" {
		raw, err := s.texts.GetText(ctx, *doc.ConversationHistoryS3Key)
		if err != nil {
			return nil, err
		}
		var history []entities.ConversationMessage
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			return nil, fmt.Errorf("failed to decode conversation history: %w", err)
		}
		if history == nil {
			history = []entities.ConversationMessage{}
		}
		return history, nil
	}

	if len(doc.ConversationHistory) > 0 {
		s.logger.Warn("Migrating embedded conversation history to S3",
			zap.String("fileId", doc.FileID),
			zap.String("documentId", doc.DocumentID),
			zap.Int("messages", len(doc.ConversationHistory)),
		)
		history := doc.ConversationHistory
		if err := s.saveConversation(ctx, doc, history); err != nil {
			return nil, err
		}
		return history, nil
	}

	return []entities.ConversationMessage{}, nil
}

// saveConversation writes history to the document's existing chat key, or a new one.
func (s *DocumentService) saveConversation(ctx context.Context, doc *entities.Document, history []entities.ConversationMessage) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode conversation history: %w", err)
	}

	key := ""
	if doc.ConversationHistoryS3Key != nil {
		key = *doc.ConversationHistoryS3Key
	}
	if key == "" {
		key = s.artifactKey(ArtifactChat, doc)
	}

	if _, err := s.texts.PutText(ctx, key, string(raw)); err != nil {
		return err
	}

	now := s.timestamp()
	if _, err := s.documents.Update(ctx, doc.FileID, doc.DocumentID, entities.DocumentChanges{
		ConversationHistoryS3Key:     &key,
		ConversationHistoryUpdatedAt: &now,
		ClearConversationHistory:     true,
	}); err != nil {
		return err
	}
	doc.ConversationHistoryS3Key = &key
	doc.ConversationHistory = nil
	return nil
}

func (s *DocumentService) storeArtifact(ctx context.Context, kind ArtifactKind, doc *entities.Document, text string) (string, error) {
	key := s.artifactKey(kind, doc)
	size, err := s.texts.PutText(ctx, key, text)
	if err != nil {
		return "", err
	}
	s.logger.Debug("Stored document artifact",
		zap.String("kind", string(kind)),
		zap.String("s3Key", key),
		zap.Int("bytes", size),
	)
	return key, nil
}

func (s *DocumentService) artifactKey(kind ArtifactKind, doc *entities.Document) string {
	key, legacy := ArtifactKey(kind, doc)
	if legacy {
		s.logger.Warn("Document missing clientId/fileNumber, using fileId based S3 key",
			zap.String("fileId", doc.FileID),
			zap.String("documentId", doc.DocumentID),
			zap.String("s3Key", key),
		)
	}
	return key
}

// legalContext returns the file number description, or "" when unavailable.
func (s *DocumentService) legalContext(ctx context.Context, fileID string) string {
	fileNumber, err := s.fileNumbers.Get(ctx, fileID)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Warn("Failed to load file number for legal context",
				zap.String("fileId", fileID),
				zap.Error(err),
			)
		}
		return ""
	}
	return fileNumber.LegalContext()
}

func analysisPrompt(legalContext, fileName, text string) string {
	var b strings.Builder
	b.WriteString("Please analyze the following document")
	if legalContext != "" {
		b.WriteString(" in the context of this legal matter: ")
		b.WriteString(legalContext)
	}
	b.WriteString("\n\nDocument Name: ")
	b.WriteString(fileName)
	b.WriteString("\n\nDocument Content:\n")
	b.WriteString(text)
	return b.String()
}

func chatPrompt(legalContext string, history []entities.ConversationMessage, fileName, text, question string) string {
	var b strings.Builder
	b.WriteString("You are assisting a legal professional review a document. ")
	b.WriteString("You have access to the full document text below. ")
	if legalContext != "" {
		fmt.Fprintf(&b, "This is for the following legal matter: %s. ", legalContext)
	}

	if len(history) > 0 {
		lines := make([]string, 0, len(history))
		for _, msg := range history {
			lines = append(lines, msg.Speaker()+": "+msg.Content)
		}
		fmt.Fprintf(&b, "\n\nPrevious conversation:\n%s\n\n", strings.Join(lines, "\n"))
	}

	fmt.Fprintf(&b, "\n\nDocument Name: %s\n", fileName)
	fmt.Fprintf(&b, "Document Content:\n%s\n\n", text)
	fmt.Fprintf(&b, "User's current question: %s", question)
	return b.String()
}
