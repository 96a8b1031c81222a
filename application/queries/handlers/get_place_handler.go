package handlers

import (
	"context"
	"fmt"

	"sptpts-backend/application/ports"
	"sptpts-backend/application/queries"
	pkgerrors "sptpts-backend/pkg/errors"

	"go.uber.org/zap"
)

const placeNotFoundUser = "Non ho trovato il luogo"

// GetPlaceHandler handles single place lookups
type GetPlaceHandler struct {
	placeRepo ports.PlaceRepository
	logger    *zap.Logger
}

// NewGetPlaceHandler creates a new place handler
func NewGetPlaceHandler(placeRepo ports.PlaceRepository, logger *zap.Logger) *GetPlaceHandler {
	return &GetPlaceHandler{
		placeRepo: placeRepo,
		logger:    logger,
	}
}

// Handle executes the place query
func (h *GetPlaceHandler) Handle(ctx context.Context, query queries.GetPlaceQuery) (*queries.PlaceInfo, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	id := query.ID()
	place, err := h.placeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.FromBackendError("dynamodb", err)
	}
	if place == nil {
		return nil, pkgerrors.NewNotFoundError(placeNotFoundUser, fmt.Sprintf("Il luogo %s non esiste", id))
	}

	// The response always echoes the requested identifier
	info := queries.NewPlaceInfo(place)
	info.PlaceID = id.String()

	return &info, nil
}
