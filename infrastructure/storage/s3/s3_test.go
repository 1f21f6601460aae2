package s3

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"legal-dashboard/application/ports"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*s3.GetObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*s3.HeadObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3) ListObjectVersions(ctx context.Context, in *s3.ListObjectVersionsInput, _ ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*s3.ListObjectVersionsOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPresign struct {
	mock.Mock
}

func (m *mockPresign) PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	args := m.Called(ctx, in, opts.Expires)
	if v := args.Get(0); v != nil {
		return v.(*v4.PresignedHTTPRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPresign) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	args := m.Called(ctx, in, opts.Expires)
	if v := args.Get(0); v != nil {
		return v.(*v4.PresignedHTTPRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func body(data []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(data))
}

func TestObjectStore_PutObjectReturnsVersion(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &mockS3{}
	store := NewObjectStore(client, "legal-documents", zap.NewNop())
	client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "legal-documents" &&
			aws.ToString(in.Key) == "clients/c1/file-numbers/F-1/docs/a.pdf" &&
			aws.ToString(in.ContentType) == "application/pdf" &&
			in.Metadata["clientid"] == "c1"
	})).Return(&s3.PutObjectOutput{VersionId: aws.String("v2")}, nil)

	// Act
	version, err := store.PutObject(ctx, ports.PutObjectInput{
		Key:         "clients/c1/file-numbers/F-1/docs/a.pdf",
		Body:        []byte("%PDF"),
		ContentType: "application/pdf",
		Metadata:    map[string]string{"clientid": "c1", "filenumber": "F-1"},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "v2", version)
	client.AssertExpectations(t)
}

func TestObjectStore_HeadVersionUnversioned(t *testing.T) {
	ctx := context.Background()
	client := &mockS3{}
	store := NewObjectStore(client, "legal-documents", zap.NewNop())
	client.On("HeadObject", ctx, mock.Anything).Return(&s3.HeadObjectOutput{}, nil)

	version, err := store.HeadVersion(ctx, "k")

	require.NoError(t, err)
	assert.Empty(t, version)
}

func TestObjectStore_ListVersionsKeepsExactKey(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &mockS3{}
	store := NewObjectStore(client, "legal-documents", zap.NewNop())
	modified := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	key := "clients/c1/file-numbers/F-1/docs/a.pdf"

	client.On("ListObjectVersions", ctx, mock.MatchedBy(func(in *s3.ListObjectVersionsInput) bool {
		return in.KeyMarker == nil
	})).Return(&s3.ListObjectVersionsOutput{
		Versions: []types.ObjectVersion{
			{Key: aws.String(key), VersionId: aws.String("v2"), IsLatest: aws.Bool(true), LastModified: &modified, Size: aws.Int64(20)},
			{Key: aws.String(key + ".bak"), VersionId: aws.String("x1")},
		},
		IsTruncated:         aws.Bool(true),
		NextKeyMarker:       aws.String(key),
		NextVersionIdMarker: aws.String("v2"),
	}, nil).Once()
	client.On("ListObjectVersions", ctx, mock.MatchedBy(func(in *s3.ListObjectVersionsInput) bool {
		return aws.ToString(in.VersionIdMarker) == "v2"
	})).Return(&s3.ListObjectVersionsOutput{
		Versions: []types.ObjectVersion{
			{Key: aws.String(key), VersionId: aws.String("v1"), IsLatest: aws.Bool(false), Size: aws.Int64(10)},
		},
	}, nil).Once()

	// Act
	versions, err := store.ListVersions(ctx, key)

	// Assert
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "v2", versions[0].VersionID)
	assert.True(t, versions[0].IsLatest)
	assert.Equal(t, "2024-05-02T08:30:00.000Z", versions[0].LastModified)
	assert.Equal(t, int64(20), versions[0].Size)
	assert.Equal(t, "v1", versions[1].VersionID)
	client.AssertExpectations(t)
}

func TestTextStore_RoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &mockS3{}
	store := NewTextStore(client, "extracted-text", zap.NewNop())
	key := "clients/c1/file-numbers/F-1/extracted-text/d1.txt.gz"
	text := "Plaintiff alleges negligence.\nDamages exceed $10,000."

	var stored []byte
	client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.ContentEncoding) == "gzip" &&
			aws.ToString(in.ContentType) == "text/plain; charset=utf-8"
	})).Run(func(args mock.Arguments) {
		data, err := io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
		require.NoError(t, err)
		stored = data
	}).Return(&s3.PutObjectOutput{}, nil)

	// Act
	size, err := store.PutText(ctx, key, text)
	require.NoError(t, err)

	client.On("GetObject", ctx, mock.Anything).Return(&s3.GetObjectOutput{
		Body:            body(stored),
		ContentEncoding: aws.String("gzip"),
	}, nil)
	got, err := store.GetText(ctx, key)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, len(stored), size)
	assert.Equal(t, []byte{0x1f, 0x8b}, stored[:2])
	assert.Equal(t, text, got)
}

func TestTextStore_GetText(t *testing.T) {
	ctx := context.Background()

	t.Run("plain object without gz suffix is returned as is", func(t *testing.T) {
		client := &mockS3{}
		store := NewTextStore(client, "extracted-text", zap.NewNop())
		client.On("GetObject", ctx, mock.Anything).Return(&s3.GetObjectOutput{Body: body([]byte("raw text"))}, nil)

		got, err := store.GetText(ctx, "legacy/d1.txt")

		require.NoError(t, err)
		assert.Equal(t, "raw text", got)
	})

	t.Run("gz suffix without encoding is inflated", func(t *testing.T) {
		client := &mockS3{}
		store := NewTextStore(client, "extracted-text", zap.NewNop())
		compressed, err := compress("[]")
		require.NoError(t, err)
		client.On("GetObject", ctx, mock.Anything).Return(&s3.GetObjectOutput{Body: body(compressed)}, nil)

		got, err := store.GetText(ctx, "chat/f1/d1.json.gz")

		require.NoError(t, err)
		assert.Equal(t, "[]", got)
	})

	t.Run("unconfigured bucket", func(t *testing.T) {
		store := NewTextStore(&mockS3{}, "", zap.NewNop())

		_, err := store.GetText(ctx, "k")
		assert.ErrorIs(t, err, ErrTextBucketNotConfigured)

		_, err = store.PutText(ctx, "k", "text")
		assert.ErrorIs(t, err, ErrTextBucketNotConfigured)
	})

	t.Run("missing key", func(t *testing.T) {
		store := NewTextStore(&mockS3{}, "extracted-text", zap.NewNop())

		_, err := store.GetText(ctx, "")

		assert.ErrorContains(t, err, "missing S3 key")
	})
}

func TestPresigner(t *testing.T) {
	ctx := context.Background()
	client := &mockPresign{}
	presigner := NewPresigner(client, "legal-documents", 5*time.Minute, 30*time.Minute)

	client.On("PresignPutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.ContentType) == "application/pdf"
	}), 5*time.Minute).Return(&v4.PresignedHTTPRequest{URL: "https://put.example/a.pdf"}, nil)
	client.On("PresignGetObject", ctx, mock.Anything, 30*time.Minute).
		Return(&v4.PresignedHTTPRequest{URL: "https://get.example/a.pdf"}, nil)

	uploadURL, err := presigner.PresignUpload(ctx, "a.pdf", "application/pdf")
	require.NoError(t, err)
	downloadURL, err := presigner.PresignDownload(ctx, "a.pdf")
	require.NoError(t, err)

	assert.Equal(t, "https://put.example/a.pdf", uploadURL)
	assert.Equal(t, "https://get.example/a.pdf", downloadURL)
	client.AssertExpectations(t)
}
