package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"sptpts-backend/application/ports"
	"sptpts-backend/domain/core/entities"
	"sptpts-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock implementations for testing

type MockSource struct{ mock.Mock }

func (m *MockSource) Fetch(ctx context.Context, url string) ([]*entities.Place, []ports.RecordFailure, error) {
	args := m.Called(ctx, url)
	places, _ := args.Get(0).([]*entities.Place)
	failures, _ := args.Get(1).([]ports.RecordFailure)
	return places, failures, args.Error(2)
}

type MockWriter struct{ mock.Mock }

func (m *MockWriter) PutPlaces(ctx context.Context, places []*entities.Place) (int, error) {
	args := m.Called(ctx, places)
	return args.Int(0), args.Error(1)
}

func (m *MockWriter) PutCategories(ctx context.Context, categories *valueobjects.CategorySet) error {
	return m.Called(ctx, categories).Error(0)
}

func (m *MockWriter) ListPlaceIDs(ctx context.Context) ([]valueobjects.PlaceID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]valueobjects.PlaceID)
	return ids, args.Error(1)
}

func (m *MockWriter) MarkUnsearchable(ctx context.Context, ids []valueobjects.PlaceID) error {
	return m.Called(ctx, ids).Error(0)
}

type MockIndexer struct{ mock.Mock }

func (m *MockIndexer) EnsureIndex(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockIndexer) IndexPlaces(ctx context.Context, places []*entities.Place) (int, error) {
	args := m.Called(ctx, places)
	return args.Int(0), args.Error(1)
}

func (m *MockIndexer) MarkUnsearchable(ctx context.Context, ids []valueobjects.PlaceID) error {
	return m.Called(ctx, ids).Error(0)
}

type MockReporter struct{ mock.Mock }

func (m *MockReporter) ReportImport(ctx context.Context, summary ports.ImportSummary) error {
	return m.Called(ctx, summary).Error(0)
}

type MockEvents struct{ mock.Mock }

func (m *MockEvents) PublishImportCompleted(ctx context.Context, summary ports.ImportSummary) error {
	return m.Called(ctx, summary).Error(0)
}

func id(raw string) valueobjects.PlaceID {
	v, err := valueobjects.NewPlaceIDFromString(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func place(raw, category string) *entities.Place {
	return &entities.Place{ID: id(raw), Category: category, Searchable: true}
}

type fixture struct {
	source   *MockSource
	writer   *MockWriter
	indexer  *MockIndexer
	reporter *MockReporter
	events   *MockEvents
	service  *ImportService
}

func newFixture() *fixture {
	f := &fixture{
		source:   new(MockSource),
		writer:   new(MockWriter),
		indexer:  new(MockIndexer),
		reporter: new(MockReporter),
		events:   new(MockEvents),
	}
	f.service = NewImportService(f.source, f.writer, f.indexer, f.reporter, f.events, zap.NewNop())
	f.service.newRunID = func() string { return "run-1" }
	clock := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return f
}

func TestImportRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.source.On("Fetch", ctx, "a.csv").Return([]*entities.Place{place("1", "calcio"), place("2", "territorio")}, nil, nil)
	f.source.On("Fetch", ctx, "b.csv").Return([]*entities.Place{place("2", "palestra"), place("3", "")}, nil, nil)

	f.writer.On("PutPlaces", ctx, mock.MatchedBy(func(p []*entities.Place) bool {
		return len(p) == 3 && p[1].Category == "palestra"
	})).Return(3, nil)
	f.writer.On("PutCategories", ctx, mock.MatchedBy(func(c *valueobjects.CategorySet) bool {
		return assert.ObjectsAreEqual([]string{"calcio", "palestra", "territorio"}, c.Names())
	})).Return(nil)
	f.writer.On("ListPlaceIDs", ctx).Return([]valueobjects.PlaceID{id("1"), id("2"), id("3"), id("4")}, nil)
	f.writer.On("MarkUnsearchable", ctx, []valueobjects.PlaceID{id("4")}).Return(nil)

	f.indexer.On("EnsureIndex", ctx).Return(nil)
	f.indexer.On("IndexPlaces", ctx, mock.Anything).Return(3, nil)
	f.indexer.On("MarkUnsearchable", ctx, []valueobjects.PlaceID{id("4")}).Return(nil)

	f.reporter.On("ReportImport", ctx, mock.Anything).Return(errors.New("cloudwatch down"))
	f.events.On("PublishImportCompleted", ctx, mock.MatchedBy(func(s ports.ImportSummary) bool {
		return s.RunID == "run-1" && s.Stale == 1
	})).Return(nil)

	summary, err := f.service.Run(ctx, []string{"a.csv", "b.csv"})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, 3, summary.Indexed)
	assert.Equal(t, 1, summary.Stale)
	assert.Equal(t, 3, summary.Categories)
	assert.Equal(t, 2, summary.Sources)
	assert.True(t, summary.FinishedAt.After(summary.StartedAt))

	f.writer.AssertExpectations(t)
	f.indexer.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestImportRunWithRejectedRecordsKeepsStalePlaces(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.source.On("Fetch", ctx, "a.csv").Return(
		[]*entities.Place{place("1", "calcio")},
		[]ports.RecordFailure{{Source: "a.csv", Line: 3, Reason: "place ID cannot be empty"}},
		nil,
	)
	f.writer.On("PutPlaces", ctx, mock.Anything).Return(1, nil)
	f.writer.On("PutCategories", ctx, mock.Anything).Return(nil)
	f.indexer.On("EnsureIndex", ctx).Return(nil)
	f.indexer.On("IndexPlaces", ctx, mock.Anything).Return(1, nil)
	f.reporter.On("ReportImport", ctx, mock.Anything).Return(nil)

	summary, err := f.service.Run(ctx, []string{"a.csv"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecordsFailed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Indexed)

	f.writer.AssertNotCalled(t, "ListPlaceIDs", mock.Anything)
	f.writer.AssertNotCalled(t, "MarkUnsearchable", mock.Anything, mock.Anything)
	f.indexer.AssertCalled(t, "IndexPlaces", ctx, mock.Anything)
	f.indexer.AssertNotCalled(t, "MarkUnsearchable", mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "PublishImportCompleted", mock.Anything, mock.Anything)
}

func TestImportRunAbortsOnUnreadableSource(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.source.On("Fetch", ctx, "a.csv").Return(nil, nil, errors.New("status 500"))

	_, err := f.service.Run(ctx, []string{"a.csv"})
	require.Error(t, err)
	f.writer.AssertNotCalled(t, "PutPlaces", mock.Anything, mock.Anything)
}

func TestImportRunRequiresSources(t *testing.T) {
	_, err := newFixture().service.Run(context.Background(), nil)
	assert.Error(t, err)
}

type MockLock struct{ mock.Mock }

func (m *MockLock) Acquire(ctx context.Context, owner string, ttl time.Duration) (func(context.Context) error, error) {
	args := m.Called(ctx, owner, ttl)
	release, _ := args.Get(0).(func(context.Context) error)
	return release, args.Error(1)
}

func TestImportRunHoldsLock(t *testing.T) {
	ctx := context.Background()

	t.Run("held lock aborts before fetching", func(t *testing.T) {
		f := newFixture()
		lock := new(MockLock)
		lock.On("Acquire", ctx, "run-1", time.Minute).Return(nil, ports.ErrLockHeld)
		f.service.SetLock(lock, time.Minute)

		_, err := f.service.Run(ctx, []string{"a.csv"})
		assert.ErrorIs(t, err, ports.ErrLockHeld)
		f.source.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	})

	t.Run("lock is released after a failed run", func(t *testing.T) {
		f := newFixture()
		released := false
		lock := new(MockLock)
		lock.On("Acquire", ctx, "run-1", time.Minute).Return(func(context.Context) error {
			released = true
			return nil
		}, nil)
		f.service.SetLock(lock, time.Minute)
		f.source.On("Fetch", ctx, "a.csv").Return(nil, nil, errors.New("status 500"))

		_, err := f.service.Run(ctx, []string{"a.csv"})
		require.Error(t, err)
		assert.True(t, released)
	})
}
