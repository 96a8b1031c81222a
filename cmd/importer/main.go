// Command importer loads the published sports-facility datasets into
// DynamoDB and Elasticsearch.
//
// Inside Lambda it runs once per scheduled event. Elsewhere it is a CLI:
//
//	importer                       Import every CSV_DATA_URLS source
//	importer --url https://...     Import only the given sources
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"sptpts-backend/application/ports"
	"sptpts-backend/infrastructure/config"
	"sptpts-backend/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// scheduleDetail is the optional detail of the triggering event
type scheduleDetail struct {
	URLs []string `json:"urls"`
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(handleEvent)
		return
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		urls    []string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "importer",
		Short: "Import sports facilities into the record store and the search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			summary, err := runImport(ctx, urls)
			if summary != nil {
				out, _ := json.MarshalIndent(summary, "", "  ")
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&urls, "url", nil, "CSV source to import (repeatable, defaults to CSV_DATA_URLS)")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Minute, "Abort the import after this long")

	return cmd
}

// handleEvent runs an import for a scheduled EventBridge rule
func handleEvent(ctx context.Context, event events.CloudWatchEvent) (*ports.ImportSummary, error) {
	var detail scheduleDetail
	if len(event.Detail) > 0 {
		if err := json.Unmarshal(event.Detail, &detail); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event detail: %w", err)
		}
	}
	return runImport(ctx, detail.URLs)
}

func runImport(ctx context.Context, urls []string) (*ports.ImportSummary, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	container, err := di.InitializeImporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize importer: %w", err)
	}
	defer container.Logger.Sync()

	if len(urls) == 0 {
		urls = cfg.CSVDataURLs
	}
	container.Logger.Info("Starting import", zap.Strings("sources", urls))

	var summary *ports.ImportSummary
	err = container.Tracer.TraceFunction(ctx, "import", func(ctx context.Context) error {
		var runErr error
		summary, runErr = container.ImportService.Run(ctx, urls)
		if summary != nil {
			container.Tracer.AddAnnotation(ctx, "runId", summary.RunID)
		}
		return runErr
	})
	if err != nil {
		container.Logger.Error("Import failed", zap.Error(err))
		return summary, err
	}
	return summary, nil
}
