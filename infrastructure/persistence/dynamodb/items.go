package dynamodb

import (
	"sptpts-backend/domain/core/entities"
	"sptpts-backend/domain/core/valueobjects"
)

// placeItem represents the DynamoDB item structure for a place
type placeItem struct {
	PK     string    `dynamodbav:"pk"`
	SK     string    `dynamodbav:"sk"`
	GSI1PK string    `dynamodbav:"gsi1pk"`
	Data   placeData `dynamodbav:"data"`
}

// placeData is the `data` map of a place item. Every attribute is optional.
type placeData struct {
	PlaceID      string `dynamodbav:"placeId"`
	IstatCode    string `dynamodbav:"istatCode"`
	Category     string `dynamodbav:"category"`
	Description  string `dynamodbav:"description"`
	Name         string `dynamodbav:"name"`
	StreetName   string `dynamodbav:"streetName"`
	StreetNumber string `dynamodbav:"streetNumber"`
	City         string `dynamodbav:"city"`
	Province     string `dynamodbav:"province"`
	Website      string `dynamodbav:"website"`
	Activity     string `dynamodbav:"activity"`
	AccessType   string `dynamodbav:"accessType"`
	Contact      string `dynamodbav:"contact"`
	Email        string `dynamodbav:"email"`
	Lat          string `dynamodbav:"lat"`
	Lon          string `dynamodbav:"lon"`
	Searchable   bool   `dynamodbav:"searchable"`
}

// categoriesItem is the singleton categories record
type categoriesItem struct {
	PK     string   `dynamodbav:"pk"`
	SK     string   `dynamodbav:"sk"`
	GSI1PK string   `dynamodbav:"gsi1pk"`
	Data   []string `dynamodbav:"data,stringset"`
}

func newPlaceItem(p *entities.Place) placeItem {
	return placeItem{
		PK:     placeKey(p.ID.String()),
		SK:     placeInfoSK,
		GSI1PK: placeGSI1PK,
		Data: placeData{
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
		},
	}
}

// toEntity maps a stored item to a place. The requested id wins over the
// stored placeId so the response always echoes what was asked for.
func (i placeItem) toEntity(id valueobjects.PlaceID) *entities.Place {
	d := i.Data
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
	}
}
