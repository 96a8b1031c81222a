//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"sptpts-backend/infrastructure/config"

	"github.com/google/wire"
)

// CoreSet provides configuration-derived infrastructure shared by every entrypoint
var CoreSet = wire.NewSet(
	ProvideLogger,
	ProvideTracer,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideSearchHTTPClient,
	ProvideElasticClient,
	ProvidePlaceIndex,
)

// APISet is the provider set of the read API
var APISet = wire.NewSet(
	CoreSet,
	ProvideBreakers,
	ProvidePlaceRepository,
	ProvideCategoryRepository,
	ProvideSearchIndex,
	ProvideMetrics,
	ProvideInMemoryCache,
	ProvideQueryBus,
	ProvideErrorHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// ImporterSet is the provider set of the ingestion job
var ImporterSet = wire.NewSet(
	CoreSet,
	ProvideCloudWatchClient,
	ProvideEventBridgeClient,
	ProvidePlaceWriter,
	ProvidePlaceIndexer,
	ProvidePlaceSource,
	ProvideMetricsReporter,
	ProvideEventPublisher,
	ProvideImportLock,
	ProvideImportService,
	wire.Struct(new(ImporterContainer), "*"),
)

// InitializeContainer creates a fully wired API container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(APISet)
	return nil, nil // Wire will replace this
}

// InitializeImporter creates a fully wired ingestion container
func InitializeImporter(ctx context.Context, cfg *config.Config) (*ImporterContainer, error) {
	wire.Build(ImporterSet)
	return nil, nil // Wire will replace this
}
