package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
	"legal-dashboard/pkg/utils"
)

// ObjectStore reads and writes original documents in the versioned documents bucket
type ObjectStore struct {
	client S3API
	bucket string
	logger *zap.Logger
}

var _ ports.ObjectStore = (*ObjectStore)(nil)

func NewObjectStore(client S3API, bucket string, logger *zap.Logger) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, logger: logger}
}

func (s *ObjectStore) PutObject(ctx context.Context, in ports.PutObjectInput) (string, error) {
	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(in.Key),
		Body:          bytes.NewReader(in.Body),
		ContentLength: aws.Int64(int64(len(in.Body))),
		ContentType:   aws.String(in.ContentType),
		Metadata:      in.Metadata,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", in.Key, err)
	}

	s.logger.Debug("Object stored",
		zap.String("bucket", s.bucket),
		zap.String("s3Key", in.Key),
		zap.Int("bytes", len(in.Body)),
		zap.String("versionId", aws.ToString(out.VersionId)),
	)
	return aws.ToString(out.VersionId), nil
}

func (s *ObjectStore) GetObject(ctx context.Context, key string) (*ports.StoredObject, error) {
	return getObject(ctx, s.client, s.bucket, key)
}

func (s *ObjectStore) HeadVersion(ctx context.Context, key string) (string, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to head object %s: %w", key, err)
	}
	return aws.ToString(out.VersionId), nil
}

// ListVersions pages through ListObjectVersions on the key as a prefix and
// keeps only versions of that exact key
func (s *ObjectStore) ListVersions(ctx context.Context, key string) ([]entities.DocumentVersion, error) {
	input := &s3.ListObjectVersionsInput{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(key),
	}

	versions := []entities.DocumentVersion{}
	for {
		out, err := s.client.ListObjectVersions(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list versions of %s: %w", key, err)
		}

		for _, v := range out.Versions {
			if aws.ToString(v.Key) != key {
				continue
			}
			version := entities.DocumentVersion{
				VersionID: aws.ToString(v.VersionId),
				IsLatest:  aws.ToBool(v.IsLatest),
				Size:      aws.ToInt64(v.Size),
			}
			if v.LastModified != nil {
				version.LastModified = utils.FormatTimestamp(*v.LastModified)
			}
			versions = append(versions, version)
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		input.KeyMarker = out.NextKeyMarker
		input.VersionIdMarker = out.NextVersionIdMarker
	}
	return versions, nil
}

func getObject(ctx context.Context, client S3API, bucket, key string) (*ports.StoredObject, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return &ports.StoredObject{
		Body:            body,
		ContentType:     aws.ToString(out.ContentType),
		ContentEncoding: aws.ToString(out.ContentEncoding),
	}, nil
}
