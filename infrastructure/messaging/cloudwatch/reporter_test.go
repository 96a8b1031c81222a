package cloudwatch

import (
	"context"
	"testing"
	"time"

	"sptpts-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCloudWatch struct {
	mock.Mock
}

func (m *MockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	args := m.Called(ctx, params)
	return &cloudwatch.PutMetricDataOutput{}, args.Error(0)
}

func TestReportImport(t *testing.T) {
	ctx := context.Background()
	client := new(MockCloudWatch)
	client.On("PutMetricData", ctx, mock.MatchedBy(func(in *cloudwatch.PutMetricDataInput) bool {
		values := map[string]float64{}
		for _, d := range in.MetricData {
			values[aws.ToString(d.MetricName)] = aws.ToFloat64(d.Value)
		}
		return aws.ToString(in.Namespace) == "SptPts/Import" &&
			values["PlacesImported"] == 120 &&
			values["PlacesHidden"] == 3 &&
			values["ImportDuration"] == 1500
	})).Return(nil)

	started := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	err := NewReporter("SptPts/Import", client, zap.NewNop()).ReportImport(ctx, ports.ImportSummary{
		RunID:      "run-1",
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Imported:   120,
		Stale:      3,
	})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestReportImportWithoutClient(t *testing.T) {
	assert.NoError(t, NewReporter("SptPts/Import", nil, zap.NewNop()).ReportImport(context.Background(), ports.ImportSummary{}))
}
