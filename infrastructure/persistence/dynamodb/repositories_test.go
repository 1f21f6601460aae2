package dynamodb

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"legal-dashboard/domain/entities"
	"legal-dashboard/pkg/errors"
)

type mockDynamo struct {
	mock.Mock
}

func (m *mockDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*dynamodb.GetItemOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*dynamodb.PutItemOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*dynamodb.UpdateItemOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*dynamodb.DeleteItemOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*dynamodb.QueryOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*dynamodb.ScanOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func marshal(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return item
}

func TestClientRepository_Create(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := &mockDynamo{}
	repo := NewClientRepository(db, "clients", zap.NewNop())
	repo.table.now = fixedClock

	db.On("PutItem", ctx, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		_, hasID := in.Item["clientId"]
		return aws.ToString(in.TableName) == "clients" &&
			hasID &&
			strings.Contains(aws.ToString(in.ConditionExpression), "attribute_not_exists")
	})).Return(&dynamodb.PutItemOutput{}, nil)

	// Act
	created, err := repo.Create(ctx, &entities.Client{Name: "Acme", Email: "a@acme.test", UserID: "u1", Status: "active"})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, created.ClientID)
	assert.Equal(t, "2024-06-01T10:00:00.000Z", created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	db.AssertExpectations(t)
}

func TestClientRepository_CreateStampsWallClock(t *testing.T) {
	ctx := context.Background()
	db := &mockDynamo{}
	repo := NewClientRepository(db, "clients", zap.NewNop())
	db.On("PutItem", ctx, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)
	before := time.Now().UTC().Truncate(time.Millisecond)

	created, err := repo.Create(ctx, &entities.Client{Name: "Acme", Email: "a@acme.test", UserID: "u1"})

	require.NoError(t, err)
	stamped, err := time.Parse("2006-01-02T15:04:05.000Z", created.CreatedAt)
	require.NoError(t, err)
	assert.False(t, stamped.Before(before))
	assert.WithinDuration(t, time.Now(), stamped, time.Minute)
}

func TestClientRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db := &mockDynamo{}
		repo := NewClientRepository(db, "clients", zap.NewNop())
		stored := entities.Client{ClientID: "c1", Name: "Acme", Email: "a@acme.test", Status: "active"}
		db.On("GetItem", ctx, mock.Anything).Return(&dynamodb.GetItemOutput{Item: marshal(t, stored)}, nil)

		got, err := repo.Get(ctx, "c1")

		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Name)
		assert.Nil(t, got.Phone)
	})

	t.Run("missing item is not found", func(t *testing.T) {
		db := &mockDynamo{}
		repo := NewClientRepository(db, "clients", zap.NewNop())
		db.On("GetItem", ctx, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := repo.Get(ctx, "nope")

		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Equal(t, "Client not found", errors.GetAppError(err).Message)
	})

	t.Run("sdk failure is a database error", func(t *testing.T) {
		db := &mockDynamo{}
		repo := NewClientRepository(db, "clients", zap.NewNop())
		db.On("GetItem", ctx, mock.Anything).Return(nil, assert.AnError)

		_, err := repo.Get(ctx, "c1")

		assert.True(t, errors.IsType(err, errors.ErrorTypeDatabase))
	})
}

func TestClientRepository_ListByUserIDFollowsPages(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := &mockDynamo{}
	repo := NewClientRepository(db, "clients", zap.NewNop())
	cursor := map[string]types.AttributeValue{"clientId": &types.AttributeValueMemberS{Value: "c1"}}

	db.On("Query", ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == "userIdIndex" && in.ExclusiveStartKey == nil
	})).Return(&dynamodb.QueryOutput{
		Items:            []map[string]types.AttributeValue{marshal(t, entities.Client{ClientID: "c1"})},
		LastEvaluatedKey: cursor,
	}, nil).Once()
	db.On("Query", ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey != nil
	})).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{marshal(t, entities.Client{ClientID: "c2"})},
	}, nil).Once()

	// Act
	clients, err := repo.ListByUserID(ctx, "u1")

	// Assert
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "c1", clients[0].ClientID)
	assert.Equal(t, "c2", clients[1].ClientID)
	db.AssertExpectations(t)
}

func TestClientRepository_UpdateMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	db := &mockDynamo{}
	repo := NewClientRepository(db, "clients", zap.NewNop())
	name := "Renamed"
	db.On("UpdateItem", ctx, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		return strings.Contains(aws.ToString(in.ConditionExpression), "attribute_exists") &&
			in.ReturnValues == types.ReturnValueAllNew
	})).Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("nope")})

	_, err := repo.Update(ctx, "ghost", entities.ClientChanges{Name: &name})

	assert.True(t, errors.IsNotFound(err))
}

func TestPackageRepository_ListByFileNumberID(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the index", func(t *testing.T) {
		db := &mockDynamo{}
		repo := NewPackageRepository(db, "packages", zap.NewNop())
		db.On("Query", ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return aws.ToString(in.IndexName) == "fileNumberIdIndex"
		})).Return(&dynamodb.QueryOutput{}, nil)

		packages, err := repo.ListByFileNumberID(ctx, "f1")

		require.NoError(t, err)
		assert.NotNil(t, packages)
		assert.Empty(t, packages)
		db.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything)
	})

	t.Run("falls back to scan when the index is missing", func(t *testing.T) {
		db := &mockDynamo{}
		repo := NewPackageRepository(db, "packages", zap.NewNop())
		fileNumberID := "f1"
		db.On("Query", ctx, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "ValidationException", Message: "index not found"})
		db.On("Scan", ctx, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
			return aws.ToString(in.TableName) == "packages" && in.FilterExpression != nil
		})).Return(&dynamodb.ScanOutput{
			Items: []map[string]types.AttributeValue{marshal(t, entities.Package{PackageID: "p1", FileNumberID: &fileNumberID})},
		}, nil)

		packages, err := repo.ListByFileNumberID(ctx, fileNumberID)

		require.NoError(t, err)
		require.Len(t, packages, 1)
		assert.Equal(t, "p1", packages[0].PackageID)
	})

	t.Run("other errors are returned", func(t *testing.T) {
		db := &mockDynamo{}
		repo := NewPackageRepository(db, "packages", zap.NewNop())
		db.On("Query", ctx, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException"})

		_, err := repo.ListByFileNumberID(ctx, "f1")

		require.Error(t, err)
		db.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything)
	})
}

func TestFileNumberRepository_ListByClientIDScans(t *testing.T) {
	ctx := context.Background()
	db := &mockDynamo{}
	repo := NewFileNumberRepository(db, "file-numbers", zap.NewNop())
	clientID := "c1"
	db.On("Scan", ctx, mock.MatchedBy(func(in *dynamodb.ScanInput) bool { return in.ExclusiveStartKey == nil })).
		Return(&dynamodb.ScanOutput{
			Items:            []map[string]types.AttributeValue{marshal(t, entities.FileNumber{FileID: "f1", ClientID: &clientID})},
			LastEvaluatedKey: map[string]types.AttributeValue{"fileId": &types.AttributeValueMemberS{Value: "f1"}},
		}, nil).Once()
	db.On("Scan", ctx, mock.MatchedBy(func(in *dynamodb.ScanInput) bool { return in.ExclusiveStartKey != nil })).
		Return(&dynamodb.ScanOutput{
			Items: []map[string]types.AttributeValue{marshal(t, entities.FileNumber{FileID: "f2", ClientID: &clientID})},
		}, nil).Once()

	fileNumbers, err := repo.ListByClientID(ctx, clientID)

	require.NoError(t, err)
	assert.Len(t, fileNumbers, 2)
	db.AssertExpectations(t)
}

func TestWorkflowRepository_CreateDefaultsSteps(t *testing.T) {
	ctx := context.Background()
	db := &mockDynamo{}
	repo := NewWorkflowRepository(db, "workflows", zap.NewNop())
	db.On("PutItem", ctx, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

	created, err := repo.Create(ctx, &entities.Workflow{PackageID: "p1", Name: "Intake"})

	require.NoError(t, err)
	assert.NotNil(t, created.Steps)
	assert.NotEmpty(t, created.WorkflowID)
}

func TestDocumentRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("honours a supplied document id", func(t *testing.T) {
		db := &mockDynamo{}
		repo := NewDocumentRepository(db, "documents", zap.NewNop())
		repo.table.now = fixedClock
		db.On("PutItem", ctx, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			id, ok := in.Item["documentId"].(*types.AttributeValueMemberS)
			return ok && id.Value == "doc-1"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		doc, err := repo.Create(ctx, "f1", entities.NewDocument{DocumentID: "doc-1", FileName: "a.pdf", Size: 10})

		require.NoError(t, err)
		assert.Equal(t, "f1", doc.FileID)
		assert.Equal(t, "doc-1", doc.DocumentID)
		assert.Equal(t, "2024-06-01T10:00:00.000Z", doc.CreatedAt)
	})

	t.Run("existing key is a conflict", func(t *testing.T) {
		db := &mockDynamo{}
		repo := NewDocumentRepository(db, "documents", zap.NewNop())
		db.On("PutItem", ctx, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		_, err := repo.Create(ctx, "f1", entities.NewDocument{DocumentID: "doc-1"})

		assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))
	})
}

func TestDocumentRepository_FindByFileName(t *testing.T) {
	ctx := context.Background()

	t.Run("no match", func(t *testing.T) {
		db := &mockDynamo{}
		repo := NewDocumentRepository(db, "documents", zap.NewNop())
		db.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		doc, err := repo.FindByFileName(ctx, "f1", "a.pdf")

		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("first match", func(t *testing.T) {
		db := &mockDynamo{}
		repo := NewDocumentRepository(db, "documents", zap.NewNop())
		db.On("Query", ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.IndexName == nil && strings.Contains(aws.ToString(in.FilterExpression), "attribute_not_exists")
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
			marshal(t, entities.Document{FileID: "f1", DocumentID: "d1", FileName: "a.pdf"}),
			marshal(t, entities.Document{FileID: "f1", DocumentID: "d2", FileName: "a.pdf"}),
		}}, nil)

		doc, err := repo.FindByFileName(ctx, "f1", "a.pdf")

		require.NoError(t, err)
		assert.Equal(t, "d1", doc.DocumentID)
	})
}

func TestDocumentRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := &mockDynamo{}
	repo := NewDocumentRepository(db, "documents", zap.NewNop())
	key := "clients/c1/file-numbers/F-1/extracted-text/d1.txt.gz"
	stored := entities.Document{FileID: "f1", DocumentID: "d1", ExtractedTextS3Key: &key}

	var captured *dynamodb.UpdateItemInput
	db.On("UpdateItem", ctx, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*dynamodb.UpdateItemInput) }).
		Return(&dynamodb.UpdateItemOutput{Attributes: marshal(t, stored)}, nil)

	doc, err := repo.Update(ctx, "f1", "d1", entities.DocumentChanges{
		ExtractedTextS3Key: &key,
		ClearExtractedText: true,
		ClearAnalysisS3Key: true,
	})

	require.NoError(t, err)
	assert.Equal(t, key, *doc.ExtractedTextS3Key)
	require.NotNil(t, captured)
	update := aws.ToString(captured.UpdateExpression)
	assert.Contains(t, update, "SET")
	assert.Contains(t, update, "REMOVE")
	assert.Len(t, captured.Key, 2)

	var names []string
	for _, name := range captured.ExpressionAttributeNames {
		names = append(names, name)
	}
	assert.Contains(t, names, "extractedText")
	assert.Contains(t, names, "analysisS3Key")
}

func TestDocumentRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()
	db := &mockDynamo{}
	repo := NewDocumentRepository(db, "documents", zap.NewNop())
	repo.table.now = fixedClock

	var names []string
	db.On("UpdateItem", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			for _, name := range args.Get(1).(*dynamodb.UpdateItemInput).ExpressionAttributeNames {
				names = append(names, name)
			}
		}).
		Return(&dynamodb.UpdateItemOutput{Attributes: marshal(t, entities.Document{FileID: "f1", DocumentID: "d1"})}, nil)

	_, err := repo.SoftDelete(ctx, "f1", "d1", "user-1")

	require.NoError(t, err)
	assert.Contains(t, names, "deletedAt")
	assert.Contains(t, names, "deletedBy")
	assert.Contains(t, names, "updatedAt")
}
