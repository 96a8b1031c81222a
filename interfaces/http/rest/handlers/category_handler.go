package handlers

import (
	"fmt"
	"net/http"

	"sptpts-backend/application/queries"
	querybus "sptpts-backend/application/queries/bus"
	pkgerrors "sptpts-backend/pkg/errors"

	"go.uber.org/zap"
)

// CategoryHandler serves the category list
type CategoryHandler struct {
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// ListCategories handles GET /categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetCategoriesQuery{})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	list, ok := result.(*queries.CategoriesList)
	if !ok {
		h.errorHandler.Handle(w, r, fmt.Errorf("unexpected categories result %T", result))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, list)
}
