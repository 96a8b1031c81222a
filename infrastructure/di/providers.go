package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sptpts-backend/application/ports"
	"sptpts-backend/application/queries"
	querybus "sptpts-backend/application/queries/bus"
	queries_handlers "sptpts-backend/application/queries/handlers"
	"sptpts-backend/application/services"
	"sptpts-backend/infrastructure/config"
	"sptpts-backend/infrastructure/csvsource"
	"sptpts-backend/infrastructure/messaging/cloudwatch"
	"sptpts-backend/infrastructure/messaging/eventbridge"
	"sptpts-backend/infrastructure/persistence/dynamodb"
	"sptpts-backend/infrastructure/resilience"
	"sptpts-backend/infrastructure/search/elasticsearch"
	"sptpts-backend/interfaces/http/rest"
	pkgerrors "sptpts-backend/pkg/errors"
	"sptpts-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/olivere/elastic/v7"
	"go.uber.org/zap"
)

const serviceName = "sptpts-api"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("environment", cfg.Environment)), nil
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config, tracer *observability.Tracer) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	tracer.InstrumentAWS(&awsCfg)
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideSearchHTTPClient builds the HTTP client used to reach Elasticsearch.
// Requests to a managed domain are SigV4 signed.
func ProvideSearchHTTPClient(cfg *config.Config, awsCfg aws.Config, tracer *observability.Tracer) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport
	if cfg.SearchSignRequests {
		transport = elasticsearch.NewSigningTransport(transport, awsCfg.Credentials, awsCfg.Region)
	}
	return tracer.HTTPClient(&http.Client{Transport: transport})
}

// ProvideElasticClient creates the Elasticsearch client
func ProvideElasticClient(cfg *config.Config, httpClient *http.Client) (*elastic.Client, error) {
	return elasticsearch.NewClient(cfg.SearchEndpoint, httpClient)
}

// ProvidePlaceIndex creates the place index
func ProvidePlaceIndex(client *elastic.Client, cfg *config.Config, logger *zap.Logger) *elasticsearch.PlaceIndex {
	return elasticsearch.NewPlaceIndex(client, cfg.SearchIndex, logger)
}

// Breakers groups the circuit breakers of the read path
type Breakers struct {
	Store  *resilience.Breaker
	Search *resilience.Breaker
}

// ProvideBreakers creates one breaker per backend
func ProvideBreakers(cfg *config.Config, logger *zap.Logger) Breakers {
	return Breakers{
		Store:  resilience.NewBreaker(resilience.DefaultBreakerConfig("dynamodb"), cfg.StoreTimeout, logger),
		Search: resilience.NewBreaker(resilience.DefaultBreakerConfig("elasticsearch"), cfg.SearchTimeout, logger),
	}
}

// ProvidePlaceRepository creates the place repository behind the store breaker
func ProvidePlaceRepository(client *awsdynamodb.Client, breakers Breakers, cfg *config.Config, logger *zap.Logger) ports.PlaceRepository {
	return resilience.NewPlaceRepository(
		dynamodb.NewPlaceRepository(client, cfg.DynamoDBTable, logger),
		breakers.Store,
	)
}

// ProvideCategoryRepository creates the category repository behind the store breaker
func ProvideCategoryRepository(client *awsdynamodb.Client, breakers Breakers, cfg *config.Config, logger *zap.Logger) ports.CategoryRepository {
	return resilience.NewCategoryRepository(
		dynamodb.NewCategoryRepository(client, cfg.DynamoDBTable, logger),
		breakers.Store,
	)
}

// ProvideSearchIndex puts the place index behind the search breaker
func ProvideSearchIndex(index *elasticsearch.PlaceIndex, breakers Breakers) ports.SearchIndex {
	return resilience.NewSearchIndex(index, breakers.Search)
}

// ProvideMetrics creates the Prometheus collectors. Nil when metrics are disabled.
func ProvideMetrics(cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics(strings.ReplaceAll(serviceName, "-", "_"))
}

// ProvideInMemoryCache creates the query cache
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// busMetricsAdapter adapts observability.Metrics to the query bus metrics interface
type busMetricsAdapter struct {
	metrics *observability.Metrics
}

func (a *busMetricsAdapter) StartTimer(metric, label string) querybus.Timer {
	return a.metrics.StartTimer(metric, label)
}

func (a *busMetricsAdapter) Increment(metric, label string) {
	a.metrics.Increment(metric, label)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	placeRepo ports.PlaceRepository,
	categoryRepo ports.CategoryRepository,
	searchIndex ports.SearchIndex,
	cache ports.Cache,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	var common []querybus.Middleware
	if metrics != nil {
		common = append(common, querybus.NewMetricsMiddleware(&busMetricsAdapter{metrics: metrics}))
	}

	// Register GetCategoriesQuery handler. It is the only cacheable query.
	getCategoriesHandler := queries_handlers.NewGetCategoriesHandler(categoryRepo, logger)
	categoriesMiddleware := append([]querybus.Middleware{}, common...)
	categoriesMiddleware = append(categoriesMiddleware,
		querybus.NewCachingMiddleware(cache, cacheSeconds(cfg.CategoriesCacheTTL)))
	err := queryBus.Register(queries.GetCategoriesQuery{}, querybus.Chain(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetCategoriesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getCategoriesHandler.Handle(ctx, getQuery)
		},
	}, categoriesMiddleware...))
	if err != nil {
		return nil, err
	}

	// Register GetPlaceQuery handler
	getPlaceHandler := queries_handlers.NewGetPlaceHandler(placeRepo, logger)
	err = queryBus.Register(queries.GetPlaceQuery{}, querybus.Chain(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetPlaceQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getPlaceHandler.Handle(ctx, getQuery)
		},
	}, common...))
	if err != nil {
		return nil, err
	}

	// Register SearchPlacesQuery handler
	searchHandler := queries_handlers.NewSearchPlacesHandler(searchIndex, cfg.SearchMaxResults, logger)
	err = queryBus.Register(queries.SearchPlacesQuery{}, querybus.Chain(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			searchQuery, ok := query.(queries.SearchPlacesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return searchHandler.Handle(ctx, searchQuery)
		},
	}, common...))
	if err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideErrorHandler creates the HTTP error handler. Backend causes are
// echoed in debugMessage outside production.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, !cfg.IsProduction(), cfg.NotFoundStatus)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	breakers Breakers,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(queryBus, errorHandler, rest.RouterOptions{
		BasePath:    cfg.APIBasePath,
		EnableCORS:  cfg.EnableCORS,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Metrics:     metrics,
		Tracer:      tracer,
		Checks: map[string]rest.ReadinessCheck{
			"dynamodb":      breakerCheck(breakers.Store),
			"elasticsearch": breakerCheck(breakers.Search),
		},
	}, logger)
}

var errBreakerOpen = errors.New("circuit breaker is open")

func breakerCheck(breaker *resilience.Breaker) rest.ReadinessCheck {
	return func(ctx context.Context) error {
		if breaker.State() == "open" {
			return errBreakerOpen
		}
		return nil
	}
}

// ProvidePlaceWriter creates the DynamoDB writer used by imports
func ProvidePlaceWriter(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PlaceWriter {
	return dynamodb.NewPlaceWriter(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvidePlaceIndexer exposes the place index to the import job
func ProvidePlaceIndexer(index *elasticsearch.PlaceIndex) ports.PlaceIndexer {
	return index
}

// ProvidePlaceSource creates the CSV source
func ProvidePlaceSource(tracer *observability.Tracer, logger *zap.Logger) ports.PlaceSource {
	return csvsource.NewSource(tracer.HTTPClient(&http.Client{Timeout: time.Minute}), logger)
}

// ProvideMetricsReporter creates the CloudWatch import reporter
func ProvideMetricsReporter(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) ports.MetricsReporter {
	return cloudwatch.NewReporter(cfg.MetricsNamespace, client, logger)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideImportLock creates the lock that serializes import runs
func ProvideImportLock(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.RunLock {
	return dynamodb.NewRunLock(client, cfg.DynamoDBTable, "import", logger)
}

// ProvideImportService creates the import service
func ProvideImportService(
	source ports.PlaceSource,
	writer ports.PlaceWriter,
	indexer ports.PlaceIndexer,
	reporter ports.MetricsReporter,
	publisher ports.EventPublisher,
	lock ports.RunLock,
	cfg *config.Config,
	logger *zap.Logger,
) *services.ImportService {
	service := services.NewImportService(source, writer, indexer, reporter, publisher, logger)
	service.SetLock(lock, cfg.ImportLockTTL)
	return service
}

// cacheSeconds rounds a TTL up to whole seconds.
func cacheSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int((ttl + time.Second - 1) / time.Second)
}
