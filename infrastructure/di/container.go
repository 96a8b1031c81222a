package di

import (
	querybus "sptpts-backend/application/queries/bus"
	"sptpts-backend/application/services"
	"sptpts-backend/infrastructure/config"
	"sptpts-backend/interfaces/http/rest"
	"sptpts-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds the dependencies of the read API
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	QueryBus *querybus.QueryBus
	Router   *rest.Router
	Metrics  *observability.Metrics
	Tracer   *observability.Tracer
}

// ImporterContainer holds the dependencies of the ingestion job
type ImporterContainer struct {
	Config        *config.Config
	Logger        *zap.Logger
	Tracer        *observability.Tracer
	ImportService *services.ImportService
}
