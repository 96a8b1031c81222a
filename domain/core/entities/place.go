package entities

import (
	"sptpts-backend/domain/core/valueobjects"
)

// Place is a sports facility as imported from a municipality dataset.
// Every attribute is free text; coordinates and street numbers keep the
// exact format published by the source.
type Place struct {
	ID           valueobjects.PlaceID
	IstatCode    string
	Category     string
	Description  string
	Name         string
	StreetName   string
	StreetNumber string
	City         string
	Province     string
	Website      string
	Activity     string
	AccessType   string
	Contact      string
	Email        string
	Lat          string
	Lon          string

	// Searchable is false once a place disappears from its source dataset.
	Searchable bool
}

// HasCoordinates reports whether both coordinates were published
func (p *Place) HasCoordinates() bool {
	return p.Lat != "" && p.Lon != ""
}

// InCategory reports whether the place passes a category filter
func (p *Place) InCategory(filter valueobjects.CategoryFilter) bool {
	return filter.Matches(p.Category)
}
