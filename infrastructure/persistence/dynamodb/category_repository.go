package dynamodb

import (
	"context"
	"fmt"

	"sptpts-backend/application/ports"
	"sptpts-backend/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// CategoryRepository reads the categories record
type CategoryRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// GetAll returns the stored categories or nil, nil when the record is absent
func (r *CategoryRepository) GetAll(ctx context.Context) (*valueobjects.CategorySet, error) {
	expr, err := expression.NewBuilder().
		WithProjection(expression.NamesList(expression.Name("data"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build projection: %w", err)
	}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: categoriesKey},
			"sk": &types.AttributeValueMemberS{Value: categoriesKey},
		},
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		r.logger.Error("Failed to get categories", zap.Error(err))
		return nil, classifyError(err)
	}

	if len(result.Item) == 0 {
		return nil, nil
	}

	var item categoriesItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	set := valueobjects.NewCategorySet(item.Data)
	return &set, nil
}
