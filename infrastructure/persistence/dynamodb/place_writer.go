package dynamodb

import (
	"context"
	"fmt"
	"time"

	"sptpts-backend/application/ports"
	"sptpts-backend/domain/core/entities"
	"sptpts-backend/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	// BatchWriteItem accepts at most 25 requests
	maxBatchSize = 25
	maxRetries   = 5
)

// PlaceWriter stores imported places and the categories record
type PlaceWriter struct {
	client    DynamoDBAPI
	tableName string
	indexName string
	logger    *zap.Logger

	// backoff returns the pause before the given retry
	backoff func(retry int) time.Duration
}

// NewPlaceWriter creates a new PlaceWriter. indexName is the GSI keyed on gsi1pk.
func NewPlaceWriter(client DynamoDBAPI, tableName, indexName string, logger *zap.Logger) *PlaceWriter {
	return &PlaceWriter{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
		backoff: func(retry int) time.Duration {
			return time.Duration(retry*retry+1) * time.Millisecond * 100
		},
	}
}

var _ ports.PlaceWriter = (*PlaceWriter)(nil)

// PutPlaces writes places in batches of 25, re-sending unprocessed items
func (w *PlaceWriter) PutPlaces(ctx context.Context, places []*entities.Place) (int, error) {
	totalProcessed := 0

	for start := 0; start < len(places); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(places) {
			end = len(places)
		}
		batch := places[start:end]

		requests := make([]types.WriteRequest, 0, len(batch))
		for _, place := range batch {
			item, err := attributevalue.MarshalMap(newPlaceItem(place))
			if err != nil {
				return totalProcessed, fmt.Errorf("failed to marshal place %s: %w", place.ID, err)
			}
			requests = append(requests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := w.writeBatch(ctx, requests); err != nil {
			return totalProcessed, err
		}

		totalProcessed += len(batch)
		w.logger.Debug("Wrote place batch",
			zap.Int("batchSize", len(batch)),
			zap.Int("totalProcessed", totalProcessed),
		)
	}

	return totalProcessed, nil
}

func (w *PlaceWriter) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	unprocessedRequests := requests
	var lastErr error

	for retry := 0; retry < maxRetries && len(unprocessedRequests) > 0; retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.backoff(retry)):
			}
		}

		result, err := w.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				w.tableName: unprocessedRequests,
			},
		})
		if err != nil {
			lastErr = err
			w.logger.Warn("Batch write failed, retrying",
				zap.Error(err),
				zap.Int("retry", retry+1),
			)
			continue
		}

		unprocessedRequests = result.UnprocessedItems[w.tableName]
		if len(unprocessedRequests) > 0 {
			w.logger.Debug("Found unprocessed items, retrying",
				zap.Int("unprocessedCount", len(unprocessedRequests)),
				zap.Int("retry", retry+1),
			)
		}
	}

	if len(unprocessedRequests) > 0 {
		if lastErr != nil {
			return fmt.Errorf("failed to process %d items after %d retries: %w", len(unprocessedRequests), maxRetries, classifyError(lastErr))
		}
		return fmt.Errorf("failed to process %d items after %d retries", len(unprocessedRequests), maxRetries)
	}
	return nil
}

// PutCategories replaces the categories record. DynamoDB cannot store an
// empty string set, so an empty set leaves the record untouched.
func (w *PlaceWriter) PutCategories(ctx context.Context, categories *valueobjects.CategorySet) error {
	if categories == nil || categories.Len() == 0 {
		w.logger.Warn("No categories to write, keeping the stored record")
		return nil
	}

	item, err := attributevalue.MarshalMap(categoriesItem{
		PK:     categoriesKey,
		SK:     categoriesKey,
		GSI1PK: categoriesKey,
		Data:   categories.Names(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	if _, err := w.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(w.tableName),
		Item:      item,
	}); err != nil {
		return classifyError(err)
	}
	return nil
}

// ListPlaceIDs pages through the place partition of the GSI
func (w *PlaceWriter) ListPlaceIDs(ctx context.Context) ([]valueobjects.PlaceID, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("gsi1pk").Equal(expression.Value(placeGSI1PK))).
		WithProjection(expression.NamesList(expression.Name("pk"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(w.client, &dynamodb.QueryInput{
		TableName:                 aws.String(w.tableName),
		IndexName:                 aws.String(w.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	var ids []valueobjects.PlaceID
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyError(err)
		}

		for _, raw := range page.Items {
			var key struct {
				PK string `dynamodbav:"pk"`
			}
			if err := attributevalue.UnmarshalMap(raw, &key); err != nil {
				return nil, fmt.Errorf("failed to unmarshal place key: %w", err)
			}
			rawID, ok := placeIDFromKey(key.PK)
			if !ok {
				continue
			}
			id, err := valueobjects.NewPlaceIDFromString(rawID)
			if err != nil {
				w.logger.Warn("Skipping stored place with invalid id", zap.String("pk", key.PK))
				continue
			}
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// MarkUnsearchable sets data.searchable = false on each place
func (w *PlaceWriter) MarkUnsearchable(ctx context.Context, ids []valueobjects.PlaceID) error {
	if len(ids) == 0 {
		return nil
	}

	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name("data.searchable"), expression.Value(false))).
		WithCondition(expression.AttributeExists(expression.Name("pk"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	for _, id := range ids {
		_, err := w.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(w.tableName),
			Key: map[string]types.AttributeValue{
				"pk": &types.AttributeValueMemberS{Value: placeKey(id.String())},
				"sk": &types.AttributeValueMemberS{Value: placeInfoSK},
			},
			UpdateExpression:          expr.Update(),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		if err != nil {
			if isConditionalCheckFailed(err) {
				w.logger.Debug("Place vanished before it could be hidden", zap.String("placeID", id.String()))
				continue
			}
			return fmt.Errorf("failed to hide place %s: %w", id, classifyError(err))
		}
	}

	w.logger.Info("Marked stale places unsearchable", zap.Int("count", len(ids)))
	return nil
}
