package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
)

const workflowsPackageIndex = "packageIdIndex"

// WorkflowRepository stores workflows keyed by workflowId
type WorkflowRepository struct {
	table table[entities.Workflow]
}

var _ ports.WorkflowRepository = (*WorkflowRepository)(nil)

func NewWorkflowRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *WorkflowRepository {
	return &WorkflowRepository{table: newTable[entities.Workflow](client, tableName, "Workflow", "workflowId", logger)}
}

func (r *WorkflowRepository) Create(ctx context.Context, w *entities.Workflow) (*entities.Workflow, error) {
	item := *w
	if item.WorkflowID == "" {
		item.WorkflowID = uuid.NewString()
	}
	if item.Steps == nil {
		item.Steps = []entities.WorkflowStep{}
	}
	now := r.table.timestamp()
	item.CreatedAt, item.UpdatedAt = now, now

	if err := r.table.put(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *WorkflowRepository) Get(ctx context.Context, workflowID string) (*entities.Workflow, error) {
	return r.table.get(ctx, stringKey("workflowId", workflowID))
}

func (r *WorkflowRepository) ListByPackageID(ctx context.Context, packageID string) ([]*entities.Workflow, error) {
	keyCond := expression.Key("packageId").Equal(expression.Value(packageID))
	return r.table.query(ctx, workflowsPackageIndex, keyCond, nil)
}

func (r *WorkflowRepository) Update(ctx context.Context, workflowID string, changes entities.WorkflowChanges) (*entities.Workflow, error) {
	var update expression.UpdateBuilder
	update = setString(update, "name", changes.Name)
	update = setString(update, "description", changes.Description)
	update = setString(update, "status", changes.Status)
	if changes.Steps != nil {
		update = update.Set(expression.Name("steps"), expression.Value(changes.Steps))
	}
	if changes.CurrentStep != nil {
		update = update.Set(expression.Name("currentStep"), expression.Value(*changes.CurrentStep))
	}
	return r.table.update(ctx, stringKey("workflowId", workflowID), update)
}

func (r *WorkflowRepository) Delete(ctx context.Context, workflowID string) error {
	return r.table.delete(ctx, stringKey("workflowId", workflowID))
}
