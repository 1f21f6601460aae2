// Package extraction turns stored documents into plain text: PDFs through
// Textract, Word files through their document.xml, text formats as UTF-8.
package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"legal-dashboard/application/ports"
)

// PDFExtractor reads the text of a PDF stored under key
type PDFExtractor interface {
	ExtractPDF(ctx context.Context, key string) (string, error)
}

var textFileName = regexp.MustCompile(`(?i)\.(txt|md|json|xml)$`)

// Extractor dispatches on content type, falling back to the file extension
type Extractor struct {
	objects ports.ObjectStore
	pdf     PDFExtractor
	logger  *zap.Logger
}

var _ ports.TextExtractor = (*Extractor)(nil)

func NewExtractor(objects ports.ObjectStore, pdf PDFExtractor, logger *zap.Logger) *Extractor {
	return &Extractor{objects: objects, pdf: pdf, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, s3Key, contentType, fileName string) (string, error) {
	switch {
	case isPDF(contentType, fileName):
		e.logger.Info("Extracting text from PDF", zap.String("fileName", fileName), zap.String("s3Key", s3Key))
		return e.pdf.ExtractPDF(ctx, s3Key)

	case isWord(contentType, fileName):
		body, err := e.fetch(ctx, s3Key)
		if err != nil {
			return "", err
		}
		text, err := DocxText(body)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from Word document: %w", err)
		}
		return text, nil

	case isText(contentType, fileName):
		body, err := e.fetch(ctx, s3Key)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	return "", &UnsupportedTypeError{ContentType: contentType}
}

// UnsupportedTypeError is returned for content types with no decoder
type UnsupportedTypeError struct {
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s. Supported types: PDF, Word (.docx), and text files.", e.ContentType)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ports.ErrUnsupportedDocumentType
}

func (e *Extractor) fetch(ctx context.Context, key string) ([]byte, error) {
	obj, err := e.objects.GetObject(ctx, key)
	if err != nil {
		return nil, err
	}
	return obj.Body, nil
}

func isPDF(contentType, fileName string) bool {
	return strings.Contains(contentType, "pdf") || strings.HasSuffix(fileName, ".pdf")
}

func isWord(contentType, fileName string) bool {
	return strings.Contains(contentType, "wordprocessingml") || strings.HasSuffix(fileName, ".docx")
}

func isText(contentType, fileName string) bool {
	return strings.Contains(contentType, "text") ||
		strings.Contains(contentType, "plain") ||
		contentType == "application/json" ||
		contentType == "application/xml" ||
		textFileName.MatchString(fileName)
}
