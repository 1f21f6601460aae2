package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"go.uber.org/zap"
)

// TextractAPI is the subset of the Textract client used for PDF extraction
type TextractAPI interface {
	StartDocumentTextDetection(ctx context.Context, params *textract.StartDocumentTextDetectionInput, optFns ...func(*textract.Options)) (*textract.StartDocumentTextDetectionOutput, error)
	GetDocumentTextDetection(ctx context.Context, params *textract.GetDocumentTextDetectionInput, optFns ...func(*textract.Options)) (*textract.GetDocumentTextDetectionOutput, error)
}

var _ TextractAPI = (*textract.Client)(nil)

var (
	ErrTextractTimeout = errors.New("document analysis timeout - extraction is taking too long. Please try again.")
	ErrNoTextFound     = errors.New("no text found in PDF. The document may be an image-only scan without text layer.")
)

// TextractExtractor runs asynchronous text detection on PDFs already stored in
// the documents bucket. Multi-page documents are supported.
type TextractExtractor struct {
	client       TextractAPI
	bucket       string
	maxPolls     int
	pollInterval time.Duration
	logger       *zap.Logger
}

func NewTextractExtractor(client TextractAPI, bucket string, maxPolls int, pollInterval time.Duration, logger *zap.Logger) *TextractExtractor {
	return &TextractExtractor{
		client:       client,
		bucket:       bucket,
		maxPolls:     maxPolls,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// ExtractPDF starts a detection job for key, waits for it and returns the
// LINE blocks of every result page joined by newlines
func (e *TextractExtractor) ExtractPDF(ctx context.Context, key string) (string, error) {
	text, err := e.extract(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from PDF: %w", err)
	}
	return text, nil
}

func (e *TextractExtractor) extract(ctx context.Context, key string) (string, error) {
	start, err := e.client.StartDocumentTextDetection(ctx, &textract.StartDocumentTextDetectionInput{
		DocumentLocation: &types.DocumentLocation{
			S3Object: &types.S3Object{
				Bucket: aws.String(e.bucket),
				Name:   aws.String(key),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to start text detection: %w", err)
	}
	jobID := aws.ToString(start.JobId)
	e.logger.Info("Textract job started", zap.String("jobId", jobID), zap.String("s3Key", key))

	result, err := e.waitForJob(ctx, jobID)
	if err != nil {
		return "", err
	}

	var lines []string
	for {
		for _, block := range result.Blocks {
			if block.BlockType == types.BlockTypeLine {
				lines = append(lines, aws.ToString(block.Text))
			}
		}
		if result.NextToken == nil {
			break
		}
		result, err = e.client.GetDocumentTextDetection(ctx, &textract.GetDocumentTextDetectionInput{
			JobId:     aws.String(jobID),
			NextToken: result.NextToken,
		})
		if err != nil {
			return "", fmt.Errorf("failed to read text detection results: %w", err)
		}
	}

	if len(lines) == 0 {
		return "", ErrNoTextFound
	}

	text := strings.Join(lines, "\n")
	e.logger.Info("Textract job finished",
		zap.String("jobId", jobID),
		zap.Int("lines", len(lines)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

// waitForJob polls until the job leaves IN_PROGRESS or the attempts run out
func (e *TextractExtractor) waitForJob(ctx context.Context, jobID string) (*textract.GetDocumentTextDetectionOutput, error) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= e.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		out, err := e.client.GetDocumentTextDetection(ctx, &textract.GetDocumentTextDetectionInput{
			JobId: aws.String(jobID),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to poll text detection: %w", err)
		}

		e.logger.Debug("Textract job status",
			zap.String("jobId", jobID),
			zap.String("status", string(out.JobStatus)),
			zap.Int("attempt", attempt),
		)

		switch out.JobStatus {
		case types.JobStatusInProgress:
			continue
		case types.JobStatusFailed:
			message := aws.ToString(out.StatusMessage)
			if message == "" {
				message = "unknown error"
			}
			return nil, fmt.Errorf("textract job failed: %s", message)
		default:
			return out, nil
		}
	}
	return nil, ErrTextractTimeout
}
