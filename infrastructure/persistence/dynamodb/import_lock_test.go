package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"sptpts-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunLock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)

	newLock := func(client *MockDynamoDB) *RunLock {
		lock := NewRunLock(client, "sptpts", "import", zap.NewNop())
		lock.now = func() time.Time { return now }
		return lock
	}

	t.Run("acquire and release", func(t *testing.T) {
		client := new(MockDynamoDB)
		client.On("PutItem", ctx, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			pk, _ := in.Item["pk"].(*types.AttributeValueMemberS)
			owner, _ := in.Item["owner"].(*types.AttributeValueMemberS)
			expires, _ := in.Item["expiresAt"].(*types.AttributeValueMemberN)
			return pk != nil && pk.Value == "lock-import" &&
				owner != nil && owner.Value == "run-1" &&
				expires != nil && expires.Value == "1714533000" &&
				in.Item["gsi1pk"] == nil
		})).Return(&dynamodb.PutItemOutput{}, nil)
		client.On("DeleteItem", ctx, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
			owner, _ := in.ExpressionAttributeValues[":owner"].(*types.AttributeValueMemberS)
			return owner != nil && owner.Value == "run-1"
		})).Return(&dynamodb.DeleteItemOutput{}, nil)

		release, err := newLock(client).Acquire(ctx, "run-1", 10*time.Minute)
		require.NoError(t, err)
		require.NoError(t, release(ctx))
		client.AssertExpectations(t)
	})

	t.Run("held lock", func(t *testing.T) {
		client := new(MockDynamoDB)
		client.On("PutItem", ctx, mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "ConditionalCheckFailedException"})

		_, err := newLock(client).Acquire(ctx, "run-2", time.Minute)
		assert.ErrorIs(t, err, ports.ErrLockHeld)
	})

	t.Run("lost lease is not an error", func(t *testing.T) {
		client := new(MockDynamoDB)
		client.On("PutItem", ctx, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)
		client.On("DeleteItem", ctx, mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "ConditionalCheckFailedException"})

		release, err := newLock(client).Acquire(ctx, "run-1", time.Minute)
		require.NoError(t, err)
		assert.NoError(t, release(ctx))
	})

	t.Run("store failure", func(t *testing.T) {
		client := new(MockDynamoDB)
		client.On("PutItem", ctx, mock.Anything).Return(nil, errors.New("throttled"))

		_, err := newLock(client).Acquire(ctx, "run-1", time.Minute)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ports.ErrLockHeld)
	})
}
