package handlers

import (
	"context"

	"sptpts-backend/application/ports"
	"sptpts-backend/application/queries"
	pkgerrors "sptpts-backend/pkg/errors"

	"go.uber.org/zap"
)

const (
	categoriesNotFoundUser  = "Non ho trovato le categorie"
	categoriesNotFoundDebug = "le categorie non esistono"
)

// GetCategoriesHandler handles category listing queries
type GetCategoriesHandler struct {
	categoryRepo ports.CategoryRepository
	logger       *zap.Logger
}

// NewGetCategoriesHandler creates a new categories handler
func NewGetCategoriesHandler(categoryRepo ports.CategoryRepository, logger *zap.Logger) *GetCategoriesHandler {
	return &GetCategoriesHandler{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// Handle executes the categories query
func (h *GetCategoriesHandler) Handle(ctx context.Context, query queries.GetCategoriesQuery) (*queries.CategoriesList, error) {
	set, err := h.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.FromBackendError("dynamodb", err)
	}
	if set == nil {
		return nil, pkgerrors.NewNotFoundError(categoriesNotFoundUser, categoriesNotFoundDebug)
	}

	h.logger.Debug("categories loaded", zap.Int("count", set.Len()))

	return &queries.CategoriesList{Categories: set.Names()}, nil
}
