package bus

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingQuery struct {
	Name string
}

func (q pingQuery) Validate() error {
	if q.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func (c *mapCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

type countingMetrics struct {
	counts map[string]int
	timers int
}

func (m *countingMetrics) Increment(metric, label string) { m.counts[metric+":"+label]++ }
func (m *countingMetrics) StartTimer(metric, label string) Timer {
	m.timers++
	return noopTimer{}
}

type noopTimer struct{}

func (noopTimer) Stop() {}

func TestQueryBusAsk(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(pingQuery{}, QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		return "pong " + q.(pingQuery).Name, nil
	})))

	result, err := b.Ask(context.Background(), pingQuery{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, "pong a", result)

	_, err = b.Ask(context.Background(), pingQuery{})
	assert.ErrorContains(t, err, "name is required")

	assert.Error(t, b.Register(pingQuery{}, QueryHandlerFunc(nil)))
}

func TestCachingMiddleware(t *testing.T) {
	calls := 0
	handler := QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		calls++
		return calls, nil
	})

	t.Run("caches by query value", func(t *testing.T) {
		calls = 0
		cached := NewCachingMiddleware(&mapCache{items: map[string]interface{}{}}, 60).Wrap(handler)

		first, _ := cached.Handle(context.Background(), pingQuery{Name: "a"})
		second, _ := cached.Handle(context.Background(), pingQuery{Name: "a"})
		third, _ := cached.Handle(context.Background(), pingQuery{Name: "b"})

		assert.Equal(t, 1, first)
		assert.Equal(t, 1, second)
		assert.Equal(t, 2, third)
	})

	t.Run("zero ttl disables caching", func(t *testing.T) {
		calls = 0
		cached := NewCachingMiddleware(&mapCache{items: map[string]interface{}{}}, 0).Wrap(handler)

		cached.Handle(context.Background(), pingQuery{Name: "a"})
		cached.Handle(context.Background(), pingQuery{Name: "a"})
		assert.Equal(t, 2, calls)
	})
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := &countingMetrics{counts: map[string]int{}}
	failing := QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		return nil, errors.New("boom")
	})

	handler := Chain(failing, NewMetricsMiddleware(metrics))
	_, err := handler.Handle(context.Background(), pingQuery{Name: "a"})

	require.Error(t, err)
	assert.Equal(t, 1, metrics.counts["query_count:pingQuery"])
	assert.Equal(t, 1, metrics.counts["query_errors:pingQuery"])
	assert.Equal(t, 1, metrics.timers)
}
