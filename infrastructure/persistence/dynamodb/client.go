package dynamodb

import (
	"context"
	"errors"
	"strings"

	pkgerrors "sptpts-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go"
)

// Key layout of the single table
const (
	placeKeyPrefix = "p-"
	placeInfoSK    = "p-info"
	placeGSI1PK    = "place"
	categoriesKey  = "category"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the repositories.
// *dynamodb.Client satisfies it.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ DynamoDBAPI = (*dynamodb.Client)(nil)

func placeKey(id string) string {
	return placeKeyPrefix + id
}

func placeIDFromKey(pk string) (string, bool) {
	if !strings.HasPrefix(pk, placeKeyPrefix) {
		return "", false
	}
	return strings.TrimPrefix(pk, placeKeyPrefix), true
}

// classifyError turns a failed SDK call into an unavailable/timeout AppError
// carrying the AWS error code.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	appErr := pkgerrors.FromBackendError("dynamodb", err)
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		appErr = appErr.WithCode(apiErr.ErrorCode())
	}
	return appErr
}

func isConditionalCheckFailed(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}
