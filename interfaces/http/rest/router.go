package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	querybus "sptpts-backend/application/queries/bus"
	"sptpts-backend/interfaces/http/rest/handlers"
	"sptpts-backend/interfaces/http/rest/middleware"
	pkgerrors "sptpts-backend/pkg/errors"
	"sptpts-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// ReadinessCheck reports whether a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// RouterOptions holds the optional parts of the HTTP surface
type RouterOptions struct {
	BasePath    string
	EnableCORS  bool
	CORSOrigins []string
	// Metrics is nil when metrics are disabled
	Metrics *observability.Metrics
	Tracer  *observability.Tracer
	Checks  map[string]ReadinessCheck
}

// Router creates and configures the HTTP router
type Router struct {
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	options      RouterOptions
	logger       *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	options RouterOptions,
	logger *zap.Logger,
) *Router {
	return &Router{
		queryBus:     queryBus,
		errorHandler: errorHandler,
		options:      options,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.options.Tracer != nil {
		router.Use(rt.options.Tracer.Middleware)
	}
	if rt.options.Metrics != nil {
		router.Use(rt.options.Metrics.Middleware)
	}

	if rt.options.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.options.CORSOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.options.Metrics != nil {
		router.Handle("/metrics", rt.options.Metrics.Handler())
	}

	router.NotFound(rt.routeNotFound)
	router.MethodNotAllowed(rt.methodNotAllowed)

	basePath := strings.TrimRight(rt.options.BasePath, "/")
	if basePath == "" {
		rt.routes(router)
	} else {
		router.Route(basePath, rt.routes)
	}

	return router
}

// routes registers the public API endpoints
func (rt *Router) routes(r chi.Router) {
	categoryHandler := handlers.NewCategoryHandler(rt.queryBus, rt.errorHandler, rt.logger)
	r.Get("/categories", categoryHandler.ListCategories)

	placeHandler := handlers.NewPlaceHandler(rt.queryBus, rt.errorHandler, rt.logger)
	r.Get("/p/{placeId}", placeHandler.GetPlace)
	// chi does not match an empty parameter, the handler rejects it instead
	r.Get("/p/", placeHandler.GetPlace)

	searchHandler := handlers.NewSearchHandler(rt.queryBus, rt.errorHandler, rt.logger)
	r.Get("/search/p", searchHandler.Search)
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck runs every registered check and reports the failing ones
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	failing := make(map[string]string)
	for name, check := range rt.options.Checks {
		if err := check(req.Context()); err != nil {
			failing[name] = err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if len(failing) > 0 {
		rt.logger.Warn("Readiness check failed", zap.Any("checks", failing))
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "not ready",
			"checks": failing,
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// routeNotFound always answers 404. The configurable status applies to missing places only.
func (rt *Router) routeNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(pkgerrors.ErrorResponse{
		UserMessage:  "Risorsa non trovata",
		DebugMessage: "nessuna rotta per " + r.Method + " " + r.URL.Path,
	})
}

func (rt *Router) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(pkgerrors.ErrorResponse{
		UserMessage:  "Metodo non consentito",
		DebugMessage: r.Method + " non supportato su " + r.URL.Path,
	})
}
