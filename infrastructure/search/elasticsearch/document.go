package elasticsearch

import (
	"strconv"
	"strings"

	"sptpts-backend/domain/core/entities"
	"sptpts-backend/domain/core/valueobjects"

	"github.com/olivere/elastic/v7"
)

// placeDocument is the indexed form of a place
type placeDocument struct {
	PlaceID      string            `json:"placeId"`
	IstatCode    string            `json:"istatCode"`
	Category     string            `json:"category"`
	Description  string            `json:"description"`
	Name         string            `json:"name"`
	StreetName   string            `json:"streetName"`
	StreetNumber string            `json:"streetNumber"`
	City         string            `json:"city"`
	Province     string            `json:"province"`
	Website      string            `json:"website"`
	Activity     string            `json:"activity"`
	AccessType   string            `json:"accessType"`
	Contact      string            `json:"contact"`
	Email        string            `json:"email"`
	Lat          string            `json:"lat"`
	Lon          string            `json:"lon"`
	Searchable   bool              `json:"searchable"`
	Location     *elastic.GeoPoint `json:"location,omitempty"`
}

func newPlaceDocument(p *entities.Place) placeDocument {
	return placeDocument{
		PlaceID:      p.ID.String(),
		IstatCode:    p.IstatCode,
		Category:     p.Category,
		Description:  p.Description,
		Name:         p.Name,
		StreetName:   p.StreetName,
		StreetNumber: p.StreetNumber,
		City:         p.City,
		Province:     p.Province,
		Website:      p.Website,
		Activity:     p.Activity,
		AccessType:   p.AccessType,
		Contact:      p.Contact,
		Email:        p.Email,
		Lat:          p.Lat,
		Lon:          p.Lon,
		Searchable:   p.Searchable,
		Location:     parseLocation(p.Lat, p.Lon),
	}
}

// toEntity maps a hit back to a place. The hit id is used when the source lacks placeId.
func (d placeDocument) toEntity(hitID string) (*entities.Place, error) {
	raw := d.PlaceID
	if raw == "" {
		raw = hitID
	}
	id, err := valueobjects.NewPlaceIDFromString(raw)
	if err != nil {
		return nil, err
	}
	return &entities.Place{
		ID:           id,
		IstatCode:    d.IstatCode,
		Category:     d.Category,
		Description:  d.Description,
		Name:         d.Name,
		StreetName:   d.StreetName,
		StreetNumber: d.StreetNumber,
		City:         d.City,
		Province:     d.Province,
		Website:      d.Website,
		Activity:     d.Activity,
		AccessType:   d.AccessType,
		Contact:      d.Contact,
		Email:        d.Email,
		Lat:          d.Lat,
		Lon:          d.Lon,
		Searchable:   d.Searchable,
	}, nil
}

// parseLocation accepts both "45.71" and the Italian "45,71" notation.
// Unusable coordinates leave the document without a geo point.
func parseLocation(lat, lon string) *elastic.GeoPoint {
	latF, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(lat), ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	lonF, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(lon), ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	if latF < -90 || latF > 90 || lonF < -180 || lonF > 180 {
		return nil
	}
	return elastic.GeoPointFromLatLon(latF, lonF)
}

// placeMapping is used when the index does not exist yet
var placeMapping = map[string]interface{}{
	"settings": map[string]interface{}{
		"analysis": map[string]interface{}{
			"normalizer": map[string]interface{}{
				"category_normalizer": map[string]interface{}{
					"type":   "custom",
					"filter": []string{"lowercase", "trim"},
				},
			},
		},
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"placeId":      map[string]interface{}{"type": "keyword"},
			"istatCode":    map[string]interface{}{"type": "keyword"},
			"category":     map[string]interface{}{"type": "keyword", "normalizer": "category_normalizer"},
			"name":         map[string]interface{}{"type": "text", "analyzer": "italian"},
			"description":  map[string]interface{}{"type": "text", "analyzer": "italian"},
			"activity":     map[string]interface{}{"type": "text", "analyzer": "italian"},
			"streetName":   map[string]interface{}{"type": "text"},
			"streetNumber": map[string]interface{}{"type": "keyword", "index": false},
			"city":         map[string]interface{}{"type": "text"},
			"province":     map[string]interface{}{"type": "text"},
			"website":      map[string]interface{}{"type": "keyword", "index": false},
			"accessType":   map[string]interface{}{"type": "keyword"},
			"contact":      map[string]interface{}{"type": "keyword", "index": false},
			"email":        map[string]interface{}{"type": "keyword", "index": false},
			"lat":          map[string]interface{}{"type": "keyword", "index": false},
			"lon":          map[string]interface{}{"type": "keyword", "index": false},
			"searchable":   map[string]interface{}{"type": "boolean"},
			"location":     map[string]interface{}{"type": "geo_point"},
		},
	},
}
