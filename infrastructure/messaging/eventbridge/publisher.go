package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"sptpts-backend/application/ports"
	"sptpts-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const (
	// SourceImporter is the event source of the import job
	SourceImporter = "sptpts.importer"

	EventTypeImportCompleted = "PlacesImportCompleted"
)

// PutEventsAPI is the EventBridge call used by the publisher
type PutEventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher implements ports.EventPublisher using AWS EventBridge
type Publisher struct {
	client       PutEventsAPI
	eventBusName string
	source       string
	logger       *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client PutEventsAPI, eventBusName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		source:       SourceImporter,
		logger:       logger,
	}
}

var _ ports.EventPublisher = (*Publisher)(nil)

// importCompletedDetail is the event payload
type importCompletedDetail struct {
	RunID      string `json:"runId"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt"`
	Sources    int    `json:"sources"`
	Imported   int    `json:"imported"`
	Indexed    int    `json:"indexed"`
	Failed     int    `json:"failed"`
	Stale      int    `json:"stale"`
	Categories int    `json:"categories"`
}

// PublishImportCompleted announces a finished import run. Without a bus name it does nothing.
func (p *Publisher) PublishImportCompleted(ctx context.Context, summary ports.ImportSummary) error {
	if p.eventBusName == "" {
		return nil
	}

	detail, err := json.Marshal(importCompletedDetail{
		RunID:      summary.RunID,
		StartedAt:  utils.FormatRFC3339(summary.StartedAt),
		FinishedAt: utils.FormatRFC3339(summary.FinishedAt),
		Sources:    summary.Sources,
		Imported:   summary.Imported,
		Indexed:    summary.Indexed,
		Failed:     summary.Failed,
		Stale:      summary.Stale,
		Categories: summary.Categories,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(EventTypeImportCompleted),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(summary.FinishedAt),
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to publish events to EventBridge: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for _, entry := range result.Entries {
			if entry.ErrorCode != nil {
				p.logger.Error("Failed to publish event",
					zap.String("eventType", EventTypeImportCompleted),
					zap.String("errorCode", *entry.ErrorCode),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d events failed to publish", result.FailedEntryCount)
	}

	p.logger.Debug("Event published to EventBridge",
		zap.String("eventType", EventTypeImportCompleted),
		zap.String("eventBus", p.eventBusName),
	)
	return nil
}
