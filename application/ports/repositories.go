package ports

import (
	"context"
	"errors"
	"time"

	"sptpts-backend/domain/core/entities"
	"sptpts-backend/domain/core/valueobjects"
)

// PlaceRepository defines the read side of place persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type PlaceRepository interface {
	// GetByID retrieves a place by its ID. It returns nil, nil when the place does not exist.
	GetByID(ctx context.Context, id valueobjects.PlaceID) (*entities.Place, error)
}

// CategoryRepository reads the singleton categories record
type CategoryRepository interface {
	// GetAll returns the stored categories, or nil, nil when the record does not exist.
	GetAll(ctx context.Context) (*valueobjects.CategorySet, error)
}

// SearchCriteria defines search parameters
type SearchCriteria struct {
	Text     string
	Near     valueobjects.GeoHint
	Category valueobjects.CategoryFilter
	Limit    int
}

// SearchIndex runs full-text place searches
type SearchIndex interface {
	Search(ctx context.Context, criteria SearchCriteria) ([]*entities.Place, error)
}

// PlaceWriter is the write side used by the import job
type PlaceWriter interface {
	// PutPlaces stores places in batches and returns how many were written.
	PutPlaces(ctx context.Context, places []*entities.Place) (int, error)

	// PutCategories replaces the categories record. An empty set is not written.
	PutCategories(ctx context.Context, categories *valueobjects.CategorySet) error

	// ListPlaceIDs returns the IDs of every stored place.
	ListPlaceIDs(ctx context.Context) ([]valueobjects.PlaceID, error)

	// MarkUnsearchable flags the given places so searches skip them.
	MarkUnsearchable(ctx context.Context, ids []valueobjects.PlaceID) error
}

// PlaceIndexer is the write side of the search index
type PlaceIndexer interface {
	EnsureIndex(ctx context.Context) error
	IndexPlaces(ctx context.Context, places []*entities.Place) (int, error)
	MarkUnsearchable(ctx context.Context, ids []valueobjects.PlaceID) error
}

// PlaceSource yields places from one published dataset
type PlaceSource interface {
	// Fetch downloads and parses a dataset. Rows that cannot be mapped are returned as failures.
	Fetch(ctx context.Context, url string) ([]*entities.Place, []RecordFailure, error)
}

// RecordFailure describes a source row that could not be imported
type RecordFailure struct {
	Source string
	Line   int
	Reason string
}

// ImportSummary is the outcome of one import run
type ImportSummary struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Sources    int       `json:"sources"`
	Imported   int       `json:"imported"`
	Indexed    int       `json:"indexed"`
	Failed     int       `json:"failed"`
	Stale      int       `json:"stale"`
	Categories int       `json:"categories"`
}

// ErrLockHeld is returned by RunLock.Acquire while another run owns the lock
var ErrLockHeld = errors.New("lock already held")

// RunLock keeps import runs from overlapping
type RunLock interface {
	// Acquire takes the lock for ttl and returns the function that releases it.
	Acquire(ctx context.Context, owner string, ttl time.Duration) (func(context.Context) error, error)
}

// MetricsReporter publishes import metrics
type MetricsReporter interface {
	ReportImport(ctx context.Context, summary ImportSummary) error
}

// EventPublisher defines the interface for publishing import events
type EventPublisher interface {
	PublishImportCompleted(ctx context.Context, summary ImportSummary) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error
}
