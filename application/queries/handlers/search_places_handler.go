package handlers

import (
	"context"
	"strings"

	"sptpts-backend/application/ports"
	"sptpts-backend/application/queries"
	pkgerrors "sptpts-backend/pkg/errors"

	"go.uber.org/zap"
)

// SearchPlacesHandler handles full-text place searches
type SearchPlacesHandler struct {
	index      ports.SearchIndex
	maxResults int
	logger     *zap.Logger
}

// NewSearchPlacesHandler creates a new search handler
func NewSearchPlacesHandler(index ports.SearchIndex, maxResults int, logger *zap.Logger) *SearchPlacesHandler {
	return &SearchPlacesHandler{
		index:      index,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Handle executes the search query. No match yields an empty list.
func (h *SearchPlacesHandler) Handle(ctx context.Context, query queries.SearchPlacesQuery) (*queries.PlaceList, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := query.CategoryFilter()
	criteria := ports.SearchCriteria{
		Text:     strings.TrimSpace(query.Text),
		Near:     query.GeoHint(),
		Category: filter,
		Limit:    h.maxResults,
	}

	places, err := h.index.Search(ctx, criteria)
	if err != nil {
		return nil, pkgerrors.FromBackendError("elasticsearch", err)
	}

	result := &queries.PlaceList{Places: make([]queries.PlaceInfo, 0, len(places))}
	dropped := 0
	for _, place := range places {
		if place == nil || !place.Searchable || !place.InCategory(filter) {
			dropped++
			continue
		}
		result.Places = append(result.Places, queries.NewPlaceInfo(place))
	}

	if dropped > 0 {
		h.logger.Warn("search index returned places outside the requested filter",
			zap.Int("dropped", dropped),
			zap.String("category", filter.Value()),
		)
	}

	return result, nil
}
