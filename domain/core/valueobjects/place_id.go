package valueobjects

import (
	"errors"
	"strings"
	"unicode"
)

// MaxPlaceIDLength bounds identifiers accepted from the path.
const MaxPlaceIDLength = 256

var (
	ErrEmptyPlaceID   = errors.New("place ID cannot be empty")
	ErrPlaceIDTooLong = errors.New("place ID is too long")
	ErrInvalidPlaceID = errors.New("place ID contains invalid characters")
)

// PlaceID identifies a facility as published in the source datasets.
// The value is opaque and kept verbatim.
type PlaceID struct {
	value string
}

// NewPlaceIDFromString validates an external identifier
func NewPlaceIDFromString(id string) (PlaceID, error) {
	if strings.TrimSpace(id) == "" {
		return PlaceID{}, ErrEmptyPlaceID
	}
	if len(id) > MaxPlaceIDLength {
		return PlaceID{}, ErrPlaceIDTooLong
	}
	for _, r := range id {
		if r == '/' || unicode.IsControl(r) {
			return PlaceID{}, ErrInvalidPlaceID
		}
	}
	return PlaceID{value: id}, nil
}

// String returns the string representation of the PlaceID
func (id PlaceID) String() string {
	return id.value
}

// Equals checks if two PlaceIDs are equal
func (id PlaceID) Equals(other PlaceID) bool {
	return id.value == other.value
}

// IsZero checks if the PlaceID is the zero value
func (id PlaceID) IsZero() bool {
	return id.value == ""
}
