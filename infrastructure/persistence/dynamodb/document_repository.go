package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
)

// DocumentRepository stores document records under fileId (hash) and
// documentId (range). Deletion is soft: deletedAt and deletedBy are set.
type DocumentRepository struct {
	table table[entities.Document]
}

var _ ports.DocumentRepository = (*DocumentRepository)(nil)

func NewDocumentRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{table: newTable[entities.Document](client, tableName, "Document", "fileId", logger)}
}

func documentKey(fileID, documentID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"fileId":     &types.AttributeValueMemberS{Value: fileID},
		"documentId": &types.AttributeValueMemberS{Value: documentID},
	}
}

// notDeleted matches items that never had deletedAt set or hold it as NULL
func notDeleted() expression.ConditionBuilder {
	return expression.Name("deletedAt").AttributeNotExists().
		Or(expression.Name("deletedAt").AttributeType(expression.Null))
}

func (r *DocumentRepository) Create(ctx context.Context, fileID string, doc entities.NewDocument) (*entities.Document, error) {
	documentID := doc.DocumentID
	if documentID == "" {
		documentID = uuid.NewString()
	}
	now := r.table.timestamp()

	item := &entities.Document{
		FileID:          fileID,
		DocumentID:      documentID,
		ClientID:        doc.ClientID,
		FileNumber:      doc.FileNumber,
		FileName:        doc.FileName,
		ContentType:     doc.ContentType,
		Size:            doc.Size,
		S3Key:           doc.S3Key,
		LatestVersionID: doc.LatestVersionID,
		UploadedBy:      doc.UploadedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := r.table.put(ctx, item); err != nil {
		return nil, err
	}

	r.table.logger.Debug("Document record created",
		zap.String("fileId", fileID),
		zap.String("documentId", documentID),
		zap.String("s3Key", doc.S3Key),
	)
	return item, nil
}

func (r *DocumentRepository) Get(ctx context.Context, fileID, documentID string) (*entities.Document, error) {
	return r.table.get(ctx, documentKey(fileID, documentID))
}

func (r *DocumentRepository) ListByFileID(ctx context.Context, fileID string) ([]*entities.Document, error) {
	filter := notDeleted()
	return r.table.query(ctx, "", expression.Key("fileId").Equal(expression.Value(fileID)), &filter)
}

func (r *DocumentRepository) FindByFileName(ctx context.Context, fileID, fileName string) (*entities.Document, error) {
	filter := expression.Name("fileName").Equal(expression.Value(fileName)).And(notDeleted())
	docs, err := r.table.query(ctx, "", expression.Key("fileId").Equal(expression.Value(fileID)), &filter)
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

// Update applies changes; Clear* flags REMOVE the corresponding attributes
func (r *DocumentRepository) Update(ctx context.Context, fileID, documentID string, changes entities.DocumentChanges) (*entities.Document, error) {
	var update expression.UpdateBuilder
	update = setString(update, "contentType", changes.ContentType)
	if changes.Size != nil {
		update = update.Set(expression.Name("size"), expression.Value(*changes.Size))
	}
	update = setString(update, "latestVersionId", changes.LatestVersionID)
	update = setString(update, "uploadedBy", changes.UploadedBy)
	update = setString(update, "deletedAt", changes.DeletedAt)
	update = setString(update, "deletedBy", changes.DeletedBy)

	update = setString(update, "extractedTextS3Key", changes.ExtractedTextS3Key)
	update = setString(update, "extractedTextS3UpdatedAt", changes.ExtractedTextS3UpdatedAt)
	update = setString(update, "analysis", changes.Analysis)
	update = setString(update, "analysisS3UpdatedAt", changes.AnalysisS3UpdatedAt)
	update = setString(update, "analyzedAt", changes.AnalyzedAt)
	update = setString(update, "conversationHistoryS3Key", changes.ConversationHistoryS3Key)
	update = setString(update, "conversationHistoryUpdatedAt", changes.ConversationHistoryUpdatedAt)

	if changes.ClearAnalysisS3Key {
		update = update.Remove(expression.Name("analysisS3Key"))
	} else {
		update = setString(update, "analysisS3Key", changes.AnalysisS3Key)
	}
	if changes.ClearExtractedText {
		update = update.Remove(expression.Name("extractedText"))
	}
	if changes.ClearConversationHistory {
		update = update.Remove(expression.Name("conversationHistory"))
	}

	return r.table.update(ctx, documentKey(fileID, documentID), update)
}

func (r *DocumentRepository) SoftDelete(ctx context.Context, fileID, documentID, deletedBy string) (*entities.Document, error) {
	now := r.table.timestamp()
	return r.Update(ctx, fileID, documentID, entities.DocumentChanges{
		DeletedAt: &now,
		DeletedBy: &deletedBy,
	})
}
