package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"sptpts-backend/application/queries"
	querybus "sptpts-backend/application/queries/bus"
	pkgerrors "sptpts-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PlaceHandler serves single places
type PlaceHandler struct {
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *PlaceHandler {
	return &PlaceHandler{
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// GetPlace handles GET /p/{placeId}
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when it is set, otherwise on the decoded Path.
	placeID := chi.URLParam(r, "placeId")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(placeID)
		if err != nil {
			h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("placeId is not a valid path segment"))
			return
		}
		placeID = unescaped
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetPlaceQuery{PlaceID: placeID})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	info, ok := result.(*queries.PlaceInfo)
	if !ok {
		h.errorHandler.Handle(w, r, fmt.Errorf("unexpected place result %T", result))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, info)
}
