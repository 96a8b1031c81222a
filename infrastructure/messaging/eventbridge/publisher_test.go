package eventbridge

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sptpts-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockEventBridge struct {
	mock.Mock
}

func (m *MockEventBridge) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) != nil {
		return args.Get(0).(*eventbridge.PutEventsOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPublishImportCompleted(t *testing.T) {
	ctx := context.Background()
	client := new(MockEventBridge)

	var detail map[string]interface{}
	client.On("PutEvents", ctx, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		entry := in.Entries[0]
		_ = json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail)
		return aws.ToString(entry.DetailType) == EventTypeImportCompleted &&
			aws.ToString(entry.EventBusName) == "sptpts-events"
	})).Return(&eventbridge.PutEventsOutput{}, nil)

	finished := time.Date(2024, 5, 1, 3, 0, 5, 0, time.UTC)
	err := NewPublisher(client, "sptpts-events", zap.NewNop()).PublishImportCompleted(ctx, ports.ImportSummary{
		RunID:      "run-1",
		StartedAt:  finished.Add(-5 * time.Second),
		FinishedAt: finished,
		Imported:   42,
	})
	require.NoError(t, err)
	assert.Equal(t, "run-1", detail["runId"])
	assert.Equal(t, float64(42), detail["imported"])
	assert.Equal(t, "2024-05-01T03:00:05Z", detail["finishedAt"])
}

func TestPublishImportCompletedReportsFailedEntries(t *testing.T) {
	ctx := context.Background()
	client := new(MockEventBridge)
	client.On("PutEvents", ctx, mock.Anything).Return(&eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("ThrottlingException")}},
	}, nil)

	err := NewPublisher(client, "sptpts-events", zap.NewNop()).PublishImportCompleted(ctx, ports.ImportSummary{})
	assert.Error(t, err)
}

func TestPublishWithoutBusIsNoop(t *testing.T) {
	client := new(MockEventBridge)
	require.NoError(t, NewPublisher(client, "", zap.NewNop()).PublishImportCompleted(context.Background(), ports.ImportSummary{}))
	client.AssertNotCalled(t, "PutEvents", mock.Anything, mock.Anything)
}
