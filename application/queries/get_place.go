package queries

import (
	"sptpts-backend/domain/core/valueobjects"
	pkgerrors "sptpts-backend/pkg/errors"
	"sptpts-backend/pkg/utils"
)

// GetPlaceQuery represents a query to get a single place
type GetPlaceQuery struct {
	PlaceID string `validate:"required,max=256"`
}

// Validate validates the GetPlaceQuery
func (q GetPlaceQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	if _, err := valueobjects.NewPlaceIDFromString(q.PlaceID); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// ID returns the validated identifier. Call Validate first.
func (q GetPlaceQuery) ID() valueobjects.PlaceID {
	id, _ := valueobjects.NewPlaceIDFromString(q.PlaceID)
	return id
}
