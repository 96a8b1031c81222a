package queries

import (
	"sptpts-backend/domain/core/valueobjects"
	pkgerrors "sptpts-backend/pkg/errors"
	"sptpts-backend/pkg/utils"
)

// SearchPlacesQuery is a free-text search with optional proximity and category hints
type SearchPlacesQuery struct {
	Text     string `validate:"max=512"`
	Near     string `validate:"max=256"`
	Category string `validate:"max=128"`
}

// Validate validates the SearchPlacesQuery
func (q SearchPlacesQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	if _, err := valueobjects.ParseGeoHint(q.Near); err != nil {
		return pkgerrors.NewValidationError("near: " + err.Error())
	}
	return nil
}

// GeoHint returns the parsed `near` value. Call Validate first.
func (q SearchPlacesQuery) GeoHint() valueobjects.GeoHint {
	hint, _ := valueobjects.ParseGeoHint(q.Near)
	return hint
}

// CategoryFilter returns the normalized `cat` filter
func (q SearchPlacesQuery) CategoryFilter() valueobjects.CategoryFilter {
	return valueobjects.NewCategoryFilter(q.Category)
}

// PlaceList is the public search payload. Places is never nil.
type PlaceList struct {
	Places []PlaceInfo `json:"places"`
}
