package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
)

const (
	packagesClientIndex     = "clientIdIndex"
	packagesFileNumberIndex = "fileNumberIdIndex"
)

// PackageRepository stores packages keyed by packageId
type PackageRepository struct {
	table table[entities.Package]
}

var _ ports.PackageRepository = (*PackageRepository)(nil)

func NewPackageRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *PackageRepository {
	return &PackageRepository{table: newTable[entities.Package](client, tableName, "Package", "packageId", logger)}
}

func (r *PackageRepository) Create(ctx context.Context, p *entities.Package) (*entities.Package, error) {
	item := *p
	if item.PackageID == "" {
		item.PackageID = uuid.NewString()
	}
	now := r.table.timestamp()
	item.CreatedAt, item.UpdatedAt = now, now

	if err := r.table.put(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PackageRepository) Get(ctx context.Context, packageID string) (*entities.Package, error) {
	return r.table.get(ctx, stringKey("packageId", packageID))
}

func (r *PackageRepository) ListByClientID(ctx context.Context, clientID string) ([]*entities.Package, error) {
	keyCond := expression.Key("clientId").Equal(expression.Value(clientID))
	return r.table.query(ctx, packagesClientIndex, keyCond, nil)
}

func (r *PackageRepository) ListByFileNumberID(ctx context.Context, fileNumberID string) ([]*entities.Package, error) {
	keyCond := expression.Key("fileNumberId").Equal(expression.Value(fileNumberID))
	packages, err := r.table.query(ctx, packagesFileNumberIndex, keyCond, nil)
	if err == nil || !isMissingIndex(err) {
		return packages, err
	}

	r.table.logger.Warn("fileNumberIdIndex unavailable, scanning packages",
		zap.String("table", r.table.name),
		zap.String("fileNumberId", fileNumberID),
		zap.Error(err),
	)
	return r.table.scan(ctx, expression.Name("fileNumberId").Equal(expression.Value(fileNumberID)))
}

func (r *PackageRepository) Update(ctx context.Context, packageID string, changes entities.PackageChanges) (*entities.Package, error) {
	var update expression.UpdateBuilder
	update = setString(update, "fileNumberId", changes.FileNumberID)
	update = setString(update, "name", changes.Name)
	update = setString(update, "description", changes.Description)
	update = setString(update, "recipient", changes.Recipient)
	update = setString(update, "type", changes.Type)
	update = setString(update, "status", changes.Status)
	if changes.Documents != nil {
		update = update.Set(expression.Name("documents"), expression.Value(changes.Documents))
	}
	return r.table.update(ctx, stringKey("packageId", packageID), update)
}

func (r *PackageRepository) Delete(ctx context.Context, packageID string) error {
	return r.table.delete(ctx, stringKey("packageId", packageID))
}
