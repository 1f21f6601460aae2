package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
)

const clientsUserIndex = "userIdIndex"

// ClientRepository stores clients in their own table, keyed by clientId
type ClientRepository struct {
	table table[entities.Client]
}

var _ ports.ClientRepository = (*ClientRepository)(nil)

func NewClientRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{table: newTable[entities.Client](client, tableName, "Client", "clientId", logger)}
}

func (r *ClientRepository) Create(ctx context.Context, c *entities.Client) (*entities.Client, error) {
	item := *c
	if item.ClientID == "" {
		item.ClientID = uuid.NewString()
	}
	now := r.table.timestamp()
	item.CreatedAt, item.UpdatedAt = now, now

	if err := r.table.put(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ClientRepository) Get(ctx context.Context, clientID string) (*entities.Client, error) {
	return r.table.get(ctx, stringKey("clientId", clientID))
}

// ListByUserID returns the clients owned by userID
func (r *ClientRepository) ListByUserID(ctx context.Context, userID string) ([]*entities.Client, error) {
	keyCond := expression.Key("userId").Equal(expression.Value(userID))
	return r.table.query(ctx, clientsUserIndex, keyCond, nil)
}

func (r *ClientRepository) Update(ctx context.Context, clientID string, changes entities.ClientChanges) (*entities.Client, error) {
	var update expression.UpdateBuilder
	update = setString(update, "name", changes.Name)
	update = setString(update, "email", changes.Email)
	update = setString(update, "phone", changes.Phone)
	update = setString(update, "address", changes.Address)
	update = setString(update, "status", changes.Status)
	return r.table.update(ctx, stringKey("clientId", clientID), update)
}

func (r *ClientRepository) Delete(ctx context.Context, clientID string) error {
	return r.table.delete(ctx, stringKey("clientId", clientID))
}
