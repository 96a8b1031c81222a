package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"sptpts-backend/application/ports"
	"sptpts-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	lockKeyPrefix = "lock-"
	lockSK        = "lock"
)

// lockItem is the lock record. ttl lets DynamoDB expire abandoned locks.
type lockItem struct {
	PK         string `dynamodbav:"pk"`
	SK         string `dynamodbav:"sk"`
	Owner      string `dynamodbav:"owner"`
	AcquiredAt string `dynamodbav:"acquiredAt"`
	ExpiresAt  int64  `dynamodbav:"expiresAt"`
	TTL        int64  `dynamodbav:"ttl"`
}

// RunLock is a lease on a named resource held through a conditional write.
// Lock items carry no gsi1pk so place listings never see them.
type RunLock struct {
	client    DynamoDBAPI
	tableName string
	resource  string
	logger    *zap.Logger
	now       func() time.Time
}

// NewRunLock creates a lock on resource
func NewRunLock(client DynamoDBAPI, tableName, resource string, logger *zap.Logger) *RunLock {
	return &RunLock{
		client:    client,
		tableName: tableName,
		resource:  resource,
		logger:    logger,
		now:       time.Now,
	}
}

// Acquire takes the lock for ttl. An expired lease held by someone else is taken over.
func (l *RunLock) Acquire(ctx context.Context, owner string, ttl time.Duration) (func(context.Context) error, error) {
	now := l.now()
	expiresAt := now.Add(ttl)

	item, err := attributevalue.MarshalMap(lockItem{
		PK:         lockKeyPrefix + l.resource,
		SK:         lockSK,
		Owner:      owner,
		AcquiredAt: utils.FormatRFC3339(now),
		ExpiresAt:  expiresAt.Unix(),
		TTL:        expiresAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lock: %w", err)
	}

	_, err = l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(l.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(pk) OR expiresAt < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, fmt.Errorf("%w: %s", ports.ErrLockHeld, l.resource)
		}
		return nil, classifyError(err)
	}

	l.logger.Debug("Lock acquired",
		zap.String("resource", l.resource),
		zap.String("owner", owner),
		zap.Duration("ttl", ttl),
	)

	return func(ctx context.Context) error {
		return l.release(ctx, owner)
	}, nil
}

func (l *RunLock) release(ctx context.Context, owner string) error {
	_, err := l.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(l.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: lockKeyPrefix + l.resource},
			"sk": &types.AttributeValueMemberS{Value: lockSK},
		},
		ConditionExpression: aws.String("#owner = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#owner": "owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: owner},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			// the lease expired and someone else took it over
			l.logger.Warn("Lock no longer owned",
				zap.String("resource", l.resource),
				zap.String("owner", owner),
			)
			return nil
		}
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
