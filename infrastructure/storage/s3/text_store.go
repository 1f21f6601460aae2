package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"legal-dashboard/application/ports"
)

// ErrTextBucketNotConfigured is returned when S3_BUCKET_EXTRACTED_TEXT is unset
var ErrTextBucketNotConfigured = errors.New("extracted text bucket is not configured (S3_BUCKET_EXTRACTED_TEXT)")

const (
	textContentType = "text/plain; charset=utf-8"
	gzipEncoding    = "gzip"
)

// TextStore keeps extracted text, analyses and chat transcripts gzip-compressed
// in the artifact bucket
type TextStore struct {
	client S3API
	bucket string
	logger *zap.Logger
}

var _ ports.TextStore = (*TextStore)(nil)

func NewTextStore(client S3API, bucket string, logger *zap.Logger) *TextStore {
	return &TextStore{client: client, bucket: bucket, logger: logger}
}

func (s *TextStore) PutText(ctx context.Context, key, text string) (int, error) {
	if s.bucket == "" {
		return 0, ErrTextBucketNotConfigured
	}
	if key == "" {
		return 0, errors.New("missing S3 key")
	}

	compressed, err := compress(text)
	if err != nil {
		return 0, err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(compressed),
		ContentLength:   aws.Int64(int64(len(compressed))),
		ContentType:     aws.String(textContentType),
		ContentEncoding: aws.String(gzipEncoding),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to put text %s: %w", key, err)
	}

	s.logger.Debug("Text artifact stored",
		zap.String("s3Key", key),
		zap.Int("chars", len(text)),
		zap.Int("bytes", len(compressed)),
	)
	return len(compressed), nil
}

// GetText reads an artifact, inflating it when it is stored gzip-encoded or
// its key ends in .gz
func (s *TextStore) GetText(ctx context.Context, key string) (string, error) {
	if s.bucket == "" {
		return "", ErrTextBucketNotConfigured
	}
	if key == "" {
		return "", errors.New("missing S3 key")
	}

	obj, err := getObject(ctx, s.client, s.bucket, key)
	if err != nil {
		return "", err
	}

	if obj.ContentEncoding != gzipEncoding && !strings.HasSuffix(key, ".gz") {
		return string(obj.Body), nil
	}
	text, err := decompress(obj.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decompress %s: %w", key, err)
	}
	return text, nil
}

func compress(text string) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(text)); err != nil {
		return nil, fmt.Errorf("failed to compress text: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress text: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) (string, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
