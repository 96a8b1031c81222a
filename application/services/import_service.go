package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sptpts-backend/application/ports"
	"sptpts-backend/domain/core/entities"
	"sptpts-backend/domain/core/valueobjects"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRecordsFailed is returned when some source rows could not be imported.
// Stale places are not hidden in that case so a partial feed never hides data.
var ErrRecordsFailed = errors.New("some records could not be imported")

// ImportService loads the published datasets into the record store and the search index
type ImportService struct {
	source  ports.PlaceSource
	writer  ports.PlaceWriter
	indexer ports.PlaceIndexer
	metrics ports.MetricsReporter
	events  ports.EventPublisher
	logger  *zap.Logger

	lock    ports.RunLock
	lockTTL time.Duration

	now      func() time.Time
	newRunID func() string
}

// NewImportService creates a new import service
func NewImportService(
	source ports.PlaceSource,
	writer ports.PlaceWriter,
	indexer ports.PlaceIndexer,
	metrics ports.MetricsReporter,
	events ports.EventPublisher,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		source:   source,
		writer:   writer,
		indexer:  indexer,
		metrics:  metrics,
		events:   events,
		logger:   logger,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// SetLock makes Run hold lock for at most ttl
func (s *ImportService) SetLock(lock ports.RunLock, ttl time.Duration) {
	s.lock = lock
	s.lockTTL = ttl
}

// Run imports every url. A source that cannot be fetched aborts the run before anything is written.
func (s *ImportService) Run(ctx context.Context, urls []string) (*ports.ImportSummary, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("no source urls configured")
	}

	summary := &ports.ImportSummary{
		RunID:     s.newRunID(),
		StartedAt: s.now(),
		Sources:   len(urls),
	}
	logger := s.logger.With(zap.String("runID", summary.RunID))

	if s.lock != nil {
		release, err := s.lock.Acquire(ctx, summary.RunID, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire import lock: %w", err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("Failed to release import lock", zap.Error(err))
			}
		}()
	}

	logger.Info("Starting import", zap.Int("sources", len(urls)))

	places, failures, categories, err := s.collect(ctx, urls, logger)
	if err != nil {
		return nil, err
	}
	summary.Failed = len(failures)
	summary.Categories = categories.Len()

	imported, err := s.writer.PutPlaces(ctx, places)
	summary.Imported = imported
	if err != nil {
		return summary, fmt.Errorf("failed to store places: %w", err)
	}
	if err := s.writer.PutCategories(ctx, &categories); err != nil {
		return summary, fmt.Errorf("failed to store categories: %w", err)
	}

	var stale []valueobjects.PlaceID
	if len(failures) > 0 {
		for _, f := range failures {
			logger.Warn("Record rejected",
				zap.String("source", f.Source),
				zap.Int("line", f.Line),
				zap.String("reason", f.Reason),
			)
		}
	} else {
		stale, err = s.hideStale(ctx, places)
		if err != nil {
			return summary, err
		}
		summary.Stale = len(stale)
	}

	if s.indexer != nil {
		indexed, err := s.index(ctx, places, stale)
		summary.Indexed = indexed
		if err != nil {
			return summary, err
		}
	}

	s.finish(ctx, summary, logger)
	if len(failures) > 0 {
		return summary, fmt.Errorf("%w: %d rejected", ErrRecordsFailed, len(failures))
	}
	return summary, nil
}

// collect fetches every source. Later sources win for duplicate ids.
func (s *ImportService) collect(ctx context.Context, urls []string, logger *zap.Logger) ([]*entities.Place, []ports.RecordFailure, valueobjects.CategorySet, error) {
	var failures []ports.RecordFailure
	byID := make(map[string]int)
	places := make([]*entities.Place, 0)
	categories := valueobjects.NewCategorySet(nil)

	for _, url := range urls {
		logger.Info("Fetching source", zap.String("url", url))

		fetched, rejected, err := s.source.Fetch(ctx, url)
		if err != nil {
			return nil, nil, categories, fmt.Errorf("failed to import %s: %w", url, err)
		}
		failures = append(failures, rejected...)

		names := make([]string, 0, len(fetched))
		for _, place := range fetched {
			names = append(names, place.Category)
			if i, ok := byID[place.ID.String()]; ok {
				places[i] = place
				continue
			}
			byID[place.ID.String()] = len(places)
			places = append(places, place)
		}
		categories = categories.Add(names...)

		logger.Info("Source complete",
			zap.String("url", url),
			zap.Int("records", len(fetched)),
			zap.Int("rejected", len(rejected)),
		)
	}

	return places, failures, categories, nil
}

// hideStale marks stored places missing from this run as unsearchable
func (s *ImportService) hideStale(ctx context.Context, places []*entities.Place) ([]valueobjects.PlaceID, error) {
	seen := make(map[string]struct{}, len(places))
	for _, place := range places {
		seen[place.ID.String()] = struct{}{}
	}

	stored, err := s.writer.ListPlaceIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored places: %w", err)
	}

	var stale []valueobjects.PlaceID
	for _, id := range stored {
		if _, ok := seen[id.String()]; !ok {
			stale = append(stale, id)
		}
	}

	if err := s.writer.MarkUnsearchable(ctx, stale); err != nil {
		return nil, fmt.Errorf("failed to hide stale places: %w", err)
	}
	return stale, nil
}

func (s *ImportService) index(ctx context.Context, places []*entities.Place, stale []valueobjects.PlaceID) (int, error) {
	if err := s.indexer.EnsureIndex(ctx); err != nil {
		return 0, err
	}
	indexed, err := s.indexer.IndexPlaces(ctx, places)
	if err != nil {
		return indexed, fmt.Errorf("failed to index places: %w", err)
	}
	if len(stale) > 0 {
		if err := s.indexer.MarkUnsearchable(ctx, stale); err != nil {
			return indexed, fmt.Errorf("failed to hide stale places in the index: %w", err)
		}
	}
	return indexed, nil
}

// finish publishes metrics and the completion event. Neither can fail the run.
func (s *ImportService) finish(ctx context.Context, summary *ports.ImportSummary, logger *zap.Logger) {
	summary.FinishedAt = s.now()

	if s.metrics != nil {
		if err := s.metrics.ReportImport(ctx, *summary); err != nil {
			logger.Warn("Failed to report import metrics", zap.Error(err))
		}
	}
	if s.events != nil && summary.Failed == 0 {
		if err := s.events.PublishImportCompleted(ctx, *summary); err != nil {
			logger.Warn("Failed to publish import event", zap.Error(err))
		}
	}

	logger.Info("Import finished",
		zap.Int("imported", summary.Imported),
		zap.Int("indexed", summary.Indexed),
		zap.Int("failed", summary.Failed),
		zap.Int("stale", summary.Stale),
		zap.Int("categories", summary.Categories),
		zap.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)),
	)
}
