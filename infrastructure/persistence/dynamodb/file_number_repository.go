package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
)

const fileNumbersPackageIndex = "packageIdIndex"

// FileNumberRepository stores file numbers keyed by fileId.
// The table has no clientId index, so client lookups scan.
type FileNumberRepository struct {
	table table[entities.FileNumber]
}

var _ ports.FileNumberRepository = (*FileNumberRepository)(nil)

func NewFileNumberRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *FileNumberRepository {
	return &FileNumberRepository{table: newTable[entities.FileNumber](client, tableName, "File number", "fileId", logger)}
}

func (r *FileNumberRepository) Create(ctx context.Context, f *entities.FileNumber) (*entities.FileNumber, error) {
	item := *f
	if item.FileID == "" {
		item.FileID = uuid.NewString()
	}
	now := r.table.timestamp()
	item.CreatedAt, item.UpdatedAt = now, now

	if err := r.table.put(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *FileNumberRepository) Get(ctx context.Context, fileID string) (*entities.FileNumber, error) {
	return r.table.get(ctx, stringKey("fileId", fileID))
}

func (r *FileNumberRepository) ListByClientID(ctx context.Context, clientID string) ([]*entities.FileNumber, error) {
	return r.table.scan(ctx, expression.Name("clientId").Equal(expression.Value(clientID)))
}

func (r *FileNumberRepository) ListByPackageID(ctx context.Context, packageID string) ([]*entities.FileNumber, error) {
	keyCond := expression.Key("packageId").Equal(expression.Value(packageID))
	return r.table.query(ctx, fileNumbersPackageIndex, keyCond, nil)
}

func (r *FileNumberRepository) Update(ctx context.Context, fileID string, changes entities.FileNumberChanges) (*entities.FileNumber, error) {
	var update expression.UpdateBuilder
	update = setString(update, "packageId", changes.PackageID)
	update = setString(update, "clientId", changes.ClientID)
	update = setString(update, "fileNumber", changes.FileNumber)
	update = setString(update, "description", changes.Description)
	update = setString(update, "status", changes.Status)
	return r.table.update(ctx, stringKey("fileId", fileID), update)
}

func (r *FileNumberRepository) Delete(ctx context.Context, fileID string) error {
	return r.table.delete(ctx, stringKey("fileId", fileID))
}
