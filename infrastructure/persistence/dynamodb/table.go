package dynamodb

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"legal-dashboard/pkg/errors"
	"legal-dashboard/pkg/utils"
)

// DynamoDBAPI is the subset of the DynamoDB client the repositories use
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ DynamoDBAPI = (*dynamodb.Client)(nil)

// table provides the CRUD primitives shared by the entity repositories.
// Every entity lives in its own table keyed by a single (or hash+range) id.
type table[T any] struct {
	client   DynamoDBAPI
	name     string
	resource string
	hashKey  string
	logger   *zap.Logger
	now      func() time.Time
}

func newTable[T any](client DynamoDBAPI, name, resource, hashKey string, logger *zap.Logger) table[T] {
	return table[T]{
		client:   client,
		name:     name,
		resource: resource,
		hashKey:  hashKey,
		logger:   logger,
		now:      time.Now,
	}
}

func (t *table[T]) timestamp() string {
	return utils.FormatTimestamp(t.now())
}

// put writes a new item, refusing to overwrite an existing one
func (t *table[T]) put(ctx context.Context, entity *T) error {
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", t.resource, err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.Name(t.hashKey).AttributeNotExists()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(t.name),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if stderrors.As(err, &ccf) {
			return errors.NewConflictError(fmt.Sprintf("%s already exists", t.resource)).WithCause(err)
		}
		return errors.NewDatabaseError("put "+t.name, err)
	}
	return nil
}

func (t *table[T]) get(ctx context.Context, key map[string]types.AttributeValue) (*T, error) {
	result, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.name),
		Key:       key,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("get "+t.name, err)
	}
	if result.Item == nil {
		return nil, errors.NewNotFoundError(t.resource)
	}
	return t.decode(result.Item)
}

// query runs a key condition against the table or one of its indexes and
// follows LastEvaluatedKey until the result set is exhausted
func (t *table[T]) query(ctx context.Context, index string, keyCond expression.KeyConditionBuilder, filter *expression.ConditionBuilder) ([]*T, error) {
	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if filter != nil {
		builder = builder.WithFilter(*filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(t.name),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if index != "" {
		input.IndexName = aws.String(index)
	}

	var out []*T
	for {
		result, err := t.client.Query(ctx, input)
		if err != nil {
			return nil, errors.NewDatabaseError("query "+t.name, err)
		}
		decoded, err := t.decodeAll(result.Items)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return nonNil(out), nil
}

// scan reads the whole table through a filter, page by page
func (t *table[T]) scan(ctx context.Context, filter expression.ConditionBuilder) ([]*T, error) {
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(t.name),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var out []*T
	for {
		result, err := t.client.Scan(ctx, input)
		if err != nil {
			return nil, errors.NewDatabaseError("scan "+t.name, err)
		}
		decoded, err := t.decodeAll(result.Items)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return nonNil(out), nil
}

// update applies a partial update to an existing item, bumping updatedAt,
// and returns the item as stored afterwards
func (t *table[T]) update(ctx context.Context, key map[string]types.AttributeValue, update expression.UpdateBuilder) (*T, error) {
	update = update.Set(expression.Name("updatedAt"), expression.Value(t.timestamp()))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.Name(t.hashKey).AttributeExists()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	result, err := t.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.name),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if stderrors.As(err, &ccf) {
			return nil, errors.NewNotFoundError(t.resource)
		}
		return nil, errors.NewDatabaseError("update "+t.name, err)
	}
	return t.decode(result.Attributes)
}

func (t *table[T]) delete(ctx context.Context, key map[string]types.AttributeValue) error {
	_, err := t.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.name),
		Key:       key,
	})
	if err != nil {
		return errors.NewDatabaseError("delete "+t.name, err)
	}
	return nil
}

func (t *table[T]) decode(item map[string]types.AttributeValue) (*T, error) {
	var entity T
	if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", t.resource, err)
	}
	return &entity, nil
}

func (t *table[T]) decodeAll(items []map[string]types.AttributeValue) ([]*T, error) {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		entity, err := t.decode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func nonNil[T any](items []*T) []*T {
	if items == nil {
		return []*T{}
	}
	return items
}

func stringKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// isMissingIndex reports whether err means the queried index does not exist yet
func isMissingIndex(err error) bool {
	var apiErr smithy.APIError
	if !stderrors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "ValidationException", "ResourceNotFoundException":
		return true
	}
	return false
}

// setString adds SET name = value when value is non-nil
func setString(update expression.UpdateBuilder, name string, value *string) expression.UpdateBuilder {
	if value == nil {
		return update
	}
	return update.Set(expression.Name(name), expression.Value(*value))
}
