package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	domainevents "legal-dashboard/domain/events"
	"legal-dashboard/infrastructure/config"
	"legal-dashboard/infrastructure/di"
	"legal-dashboard/pkg/errors"
)

// enricher runs the agent analysis for one document
type enricher interface {
	Enrich(ctx context.Context, fileID, documentID string) error
}

var container *di.Container

// bootstrap builds the container once per sandbox, during cold start
func bootstrap() {
	started := time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	container.Logger.Info("Worker cold start completed", zap.Duration("duration", time.Since(started)))
}

// handleEvent enriches the document named by a document.analyzed event.
// Returned errors let EventBridge retry the delivery.
func handleEvent(ctx context.Context, docs enricher, logger *zap.Logger, event events.CloudWatchEvent) error {
	if event.Source != domainevents.Source || event.DetailType != domainevents.TypeDocumentAnalyzed {
		logger.Debug("Ignoring event",
			zap.String("source", event.Source),
			zap.String("detailType", event.DetailType),
		)
		return nil
	}

	var detail domainevents.DocumentEvent
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		logger.Error("Malformed document event", zap.String("id", event.ID), zap.Error(err))
		return nil
	}
	if detail.FileID == "" || detail.DocumentID == "" {
		logger.Error("Document event without identity", zap.String("id", event.ID))
		return nil
	}

	logger = logger.With(
		zap.String("fileId", detail.FileID),
		zap.String("documentId", detail.DocumentID),
	)

	start := time.Now()
	if err := docs.Enrich(ctx, detail.FileID, detail.DocumentID); err != nil {
		if errors.IsNotFound(err) {
			logger.Warn("Document gone before analysis", zap.Error(err))
			return nil
		}
		logger.Error("Document analysis failed", zap.Error(err))
		return fmt.Errorf("enrich %s/%s: %w", detail.FileID, detail.DocumentID, err)
	}

	logger.Info("Document analysis completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// Handler is the Lambda function handler for EventBridge deliveries
func Handler(ctx context.Context, event events.CloudWatchEvent) error {
	return handleEvent(ctx, container.Documents, container.Logger, event)
}

func main() {
	bootstrap()
	lambda.Start(Handler)
}
