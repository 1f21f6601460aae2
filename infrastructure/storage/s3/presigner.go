package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"legal-dashboard/application/ports"
)

// Presigner issues upload and download URLs for the documents bucket
type Presigner struct {
	client         PresignAPI
	bucket         string
	uploadExpiry   time.Duration
	downloadExpiry time.Duration
}

var _ ports.URLPresigner = (*Presigner)(nil)

func NewPresigner(client PresignAPI, bucket string, uploadExpiry, downloadExpiry time.Duration) *Presigner {
	return &Presigner{
		client:         client,
		bucket:         bucket,
		uploadExpiry:   uploadExpiry,
		downloadExpiry: downloadExpiry,
	}
}

// PresignUpload signs a PUT bound to contentType
func (p *Presigner) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.uploadExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}
	return req.URL, nil
}

func (p *Presigner) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.downloadExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign download for %s: %w", key, err)
	}
	return req.URL, nil
}
