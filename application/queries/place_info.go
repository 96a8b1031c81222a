package queries

import "sptpts-backend/domain/core/entities"

// PlaceInfo is the public representation of a place.
// Attributes missing from the record are serialized as empty strings.
type PlaceInfo struct {
	PlaceID      string `json:"placeId"`
	Category     string `json:"category"`
	StreetName   string `json:"streetName"`
	StreetNumber string `json:"streetNumber"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Province     string `json:"province"`
	Lat          string `json:"lat"`
	Lon          string `json:"lon"`
	Description  string `json:"description"`
	Website      string `json:"website"`
	Activity     string `json:"activity"`
	IstatCode    string `json:"istatCode"`
	AccessType   string `json:"accessType"`
	Contact      string `json:"contact"`
	Email        string `json:"email"`
}

// NewPlaceInfo maps a place entity to its public form
func NewPlaceInfo(p *entities.Place) PlaceInfo {
	return PlaceInfo{
		PlaceID:      p.ID.String(),
		Category:     p.Category,
		StreetName:   p.StreetName,
		StreetNumber: p.StreetNumber,
		Name:         p.Name,
		City:         p.City,
		Province:     p.Province,
		Lat:          p.Lat,
		Lon:          p.Lon,
		Description:  p.Description,
		Website:      p.Website,
		Activity:     p.Activity,
		IstatCode:    p.IstatCode,
		AccessType:   p.AccessType,
		Contact:      p.Contact,
		Email:        p.Email,
	}
}
