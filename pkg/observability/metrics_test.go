package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	m := NewMetrics("sptpts")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/p/{placeId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(444)
	})

	req := httptest.NewRequest(http.MethodGet, "/p/999", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/p/{placeId}", "444")))
}

func TestQueryCounters(t *testing.T) {
	m := NewMetrics("sptpts")

	m.Increment("query_count", "GetPlaceQuery")
	m.Increment("query_errors", "GetPlaceQuery")
	m.Increment("unknown", "GetPlaceQuery")
	m.StartTimer("query_duration", "GetPlaceQuery").Stop()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Queries.WithLabelValues("GetPlaceQuery")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.QueryErrors.WithLabelValues("GetPlaceQuery")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.QueryDuration))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics("sptpts")
	m.Increment("query_count", "SearchPlacesQuery")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `sptpts_queries_total{query="SearchPlacesQuery"} 1`))
}

func TestDisabledTracerIsTransparent(t *testing.T) {
	tracer := NewTracer("sptpts-api", false)

	client := &http.Client{}
	assert.Same(t, client, tracer.HTTPClient(client))

	boom := errors.New("boom")
	err := tracer.TraceFunction(context.Background(), "search", func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}
