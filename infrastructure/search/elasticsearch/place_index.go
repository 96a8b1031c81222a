package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sptpts-backend/application/ports"
	"sptpts-backend/domain/core/entities"
	"sptpts-backend/domain/core/valueobjects"

	"github.com/olivere/elastic/v7"
	"go.uber.org/zap"
)

const (
	bulkChunkSize  = 500
	proximityScale = "5km"

	// score multiplier for places without coordinates under a point hint
	unlocatedWeight = 0.1
)

// Fields matched by free text, with boosts
var textFields = []string{"name^3", "activity^2", "category^2", "description", "city", "streetName"}

// Fields matched by an address hint
var addressFields = []string{"city^2", "streetName", "province"}

// NewClient creates a client for a single endpoint. Sniffing and health checks
// are disabled since managed domains sit behind a load balancer.
func NewClient(endpoint string, httpClient *http.Client) (*elastic.Client, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(endpoint),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
		elastic.SetHttpClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}
	return client, nil
}

// PlaceIndex implements search and indexing of places on Elasticsearch
type PlaceIndex struct {
	client *elastic.Client
	index  string
	logger *zap.Logger
}

// NewPlaceIndex creates a new PlaceIndex
func NewPlaceIndex(client *elastic.Client, index string, logger *zap.Logger) *PlaceIndex {
	return &PlaceIndex{
		client: client,
		index:  index,
		logger: logger,
	}
}

var (
	_ ports.SearchIndex  = (*PlaceIndex)(nil)
	_ ports.PlaceIndexer = (*PlaceIndex)(nil)
)

// Search runs a full-text query restricted to searchable places
func (i *PlaceIndex) Search(ctx context.Context, criteria ports.SearchCriteria) ([]*entities.Place, error) {
	search := i.client.Search().
		Index(i.index).
		Query(buildQuery(criteria)).
		TrackTotalHits(false)
	if criteria.Limit > 0 {
		search = search.Size(criteria.Limit)
	}

	result, err := search.Do(ctx)
	if err != nil {
		i.logger.Error("Search failed",
			zap.String("index", i.index),
			zap.Int("status", statusOf(err)),
			zap.Error(err),
		)
		return nil, err
	}

	places := make([]*entities.Place, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var doc placeDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			i.logger.Warn("Skipping undecodable hit", zap.String("id", hit.Id), zap.Error(err))
			continue
		}
		place, err := doc.toEntity(hit.Id)
		if err != nil {
			i.logger.Warn("Skipping hit with invalid place id", zap.String("id", hit.Id), zap.Error(err))
			continue
		}
		places = append(places, place)
	}

	return places, nil
}

func buildQuery(criteria ports.SearchCriteria) elastic.Query {
	query := elastic.NewBoolQuery().Filter(elastic.NewTermQuery("searchable", true))

	if criteria.Text == "" {
		query = query.Must(elastic.NewMatchAllQuery())
	} else {
		query = query.Must(elastic.NewMultiMatchQuery(criteria.Text, textFields...).
			Type("best_fields").
			Fuzziness("AUTO"))
	}

	if criteria.Category.Active() {
		query = query.Filter(elastic.NewTermQuery("category", criteria.Category.Value()))
	}

	switch criteria.Near.Kind() {
	case valueobjects.GeoHintAddress:
		query = query.Should(elastic.NewMultiMatchQuery(criteria.Near.Address(), addressFields...))
	case valueobjects.GeoHintPoint:
		// A decay function scores documents without the field as 1, so those get a flat low weight instead.
		located := elastic.NewExistsQuery("location")
		return elastic.NewFunctionScoreQuery().
			Query(query).
			Add(located, elastic.NewGaussDecayFunction().
				FieldName("location").
				Origin(elastic.GeoPointFromLatLon(criteria.Near.Lat(), criteria.Near.Lon())).
				Scale(proximityScale)).
			Add(elastic.NewBoolQuery().MustNot(located), elastic.NewWeightFactorFunction(unlocatedWeight)).
			ScoreMode("first").
			BoostMode("multiply")
	}

	return query
}

// EnsureIndex creates the index with the place mapping when missing
func (i *PlaceIndex) EnsureIndex(ctx context.Context) error {
	exists, err := i.client.IndexExists(i.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", i.index, err)
	}
	if exists {
		return nil
	}

	created, err := i.client.CreateIndex(i.index).BodyJson(placeMapping).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", i.index, err)
	}
	if !created.Acknowledged {
		i.logger.Warn("Index creation was not acknowledged", zap.String("index", i.index))
	}

	i.logger.Info("Created search index", zap.String("index", i.index))
	return nil
}

// IndexPlaces bulk-indexes places under their place id
func (i *PlaceIndex) IndexPlaces(ctx context.Context, places []*entities.Place) (int, error) {
	requests := make([]elastic.BulkableRequest, 0, len(places))
	for _, place := range places {
		requests = append(requests, elastic.NewBulkIndexRequest().
			Id(place.ID.String()).
			Doc(newPlaceDocument(place)))
	}
	return i.bulk(ctx, requests, false)
}

// MarkUnsearchable flips the searchable flag of indexed places. Places that
// were never indexed are ignored.
func (i *PlaceIndex) MarkUnsearchable(ctx context.Context, ids []valueobjects.PlaceID) error {
	requests := make([]elastic.BulkableRequest, 0, len(ids))
	for _, id := range ids {
		requests = append(requests, elastic.NewBulkUpdateRequest().
			Id(id.String()).
			Doc(map[string]interface{}{"searchable": false}))
	}
	_, err := i.bulk(ctx, requests, true)
	return err
}

func (i *PlaceIndex) bulk(ctx context.Context, requests []elastic.BulkableRequest, ignoreMissing bool) (int, error) {
	succeeded, failed := 0, 0

	for start := 0; start < len(requests); start += bulkChunkSize {
		end := start + bulkChunkSize
		if end > len(requests) {
			end = len(requests)
		}

		bulk := i.client.Bulk().Index(i.index).Add(requests[start:end]...)
		response, err := bulk.Do(ctx)
		if err != nil {
			return succeeded, fmt.Errorf("bulk request failed: %w", err)
		}

		for _, item := range response.Items {
			for _, op := range item {
				switch {
				case op.Error == nil:
					succeeded++
				case ignoreMissing && op.Status == http.StatusNotFound:
				default:
					failed++
					i.logger.Warn("Bulk operation failed",
						zap.String("id", op.Id),
						zap.Int("status", op.Status),
						zap.String("reason", op.Error.Reason),
					)
				}
			}
		}
	}

	if failed > 0 {
		return succeeded, fmt.Errorf("%d of %d bulk operations failed", failed, len(requests))
	}
	return succeeded, nil
}

func statusOf(err error) int {
	var e *elastic.Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
