package handlers

import (
	"fmt"
	"net/http"

	"sptpts-backend/application/queries"
	querybus "sptpts-backend/application/queries/bus"
	pkgerrors "sptpts-backend/pkg/errors"

	"go.uber.org/zap"
)

// SearchHandler serves place searches
type SearchHandler struct {
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// Search handles GET /search/p?q=&near=&cat=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := queries.SearchPlacesQuery{
		Text:     params.Get("q"),
		Near:     params.Get("near"),
		Category: params.Get("cat"),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	list, ok := result.(*queries.PlaceList)
	if !ok {
		h.errorHandler.Handle(w, r, fmt.Errorf("unexpected search result %T", result))
		return
	}

	h.logger.Debug("Search completed",
		zap.String("q", query.Text),
		zap.String("cat", query.Category),
		zap.Int("results", len(list.Places)),
	)

	respondJSON(w, h.logger, http.StatusOK, list)
}
