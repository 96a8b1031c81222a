package cloudwatch

import (
	"context"
	"fmt"

	"sptpts-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// PutMetricDataAPI is the CloudWatch call used by the reporter
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Reporter publishes import run metrics to CloudWatch
type Reporter struct {
	namespace string
	client    PutMetricDataAPI
	logger    *zap.Logger
}

// NewReporter creates a new Reporter. A nil client disables reporting.
func NewReporter(namespace string, client PutMetricDataAPI, logger *zap.Logger) *Reporter {
	return &Reporter{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

var _ ports.MetricsReporter = (*Reporter)(nil)

// ReportImport records the counters of one import run
func (r *Reporter) ReportImport(ctx context.Context, summary ports.ImportSummary) error {
	if r.client == nil {
		return nil // Skip if no client configured
	}

	timestamp := aws.Time(summary.FinishedAt)
	datum := func(name string, value float64, unit types.StandardUnit) types.MetricDatum {
		return types.MetricDatum{
			MetricName: aws.String(name),
			Value:      aws.Float64(value),
			Unit:       unit,
			Timestamp:  timestamp,
		}
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(r.namespace),
		MetricData: []types.MetricDatum{
			datum("PlacesImported", float64(summary.Imported), types.StandardUnitCount),
			datum("PlacesIndexed", float64(summary.Indexed), types.StandardUnitCount),
			datum("RecordsFailed", float64(summary.Failed), types.StandardUnitCount),
			datum("PlacesHidden", float64(summary.Stale), types.StandardUnitCount),
			datum("Categories", float64(summary.Categories), types.StandardUnitCount),
			datum("ImportDuration", float64(summary.FinishedAt.Sub(summary.StartedAt).Milliseconds()), types.StandardUnitMilliseconds),
		},
	}

	if _, err := r.client.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("failed to send import metrics: %w", err)
	}

	r.logger.Debug("Import metrics sent", zap.String("namespace", r.namespace), zap.String("runID", summary.RunID))
	return nil
}
