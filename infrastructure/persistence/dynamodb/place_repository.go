package dynamodb

import (
	"context"
	"fmt"

	"sptpts-backend/application/ports"
	"sptpts-backend/domain/core/entities"
	"sptpts-backend/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// PlaceRepository implements ports.PlaceRepository using DynamoDB
type PlaceRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

// NewPlaceRepository creates a new PlaceRepository
func NewPlaceRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *PlaceRepository {
	return &PlaceRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.PlaceRepository = (*PlaceRepository)(nil)

// GetByID retrieves a place info item. A missing item yields nil, nil.
func (r *PlaceRepository) GetByID(ctx context.Context, id valueobjects.PlaceID) (*entities.Place, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: placeKey(id.String())},
			"sk": &types.AttributeValueMemberS{Value: placeInfoSK},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		r.logger.Error("Failed to get place",
			zap.String("placeID", id.String()),
			zap.Error(err),
		)
		return nil, classifyError(err)
	}

	if len(result.Item) == 0 {
		return nil, nil
	}

	var item placeItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal place %s: %w", id, err)
	}

	return item.toEntity(id), nil
}
