package valueobjects

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrCoordinatesOutOfRange = errors.New("coordinates out of range")

// GeoHintKind tells how a proximity hint should bias results
type GeoHintKind int

const (
	GeoHintNone GeoHintKind = iota
	GeoHintPoint
	GeoHintAddress
)

// GeoHint is the optional `near` parameter of a search: either a
// "lat,lon" pair in decimal degrees or a free-text address token.
type GeoHint struct {
	kind    GeoHintKind
	lat     float64
	lon     float64
	address string
}

// ParseGeoHint interprets the raw `near` value. Two numbers separated by a
// comma are a point and must be valid WGS84 coordinates; anything else
// non-blank is treated as an address token.
func ParseGeoHint(raw string) (GeoHint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return GeoHint{}, nil
	}

	if parts := strings.Split(raw, ","); len(parts) == 2 {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if latErr == nil && lonErr == nil {
			if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
				return GeoHint{}, fmt.Errorf("%w: %s", ErrCoordinatesOutOfRange, raw)
			}
			return GeoHint{kind: GeoHintPoint, lat: lat, lon: lon}, nil
		}
	}

	return GeoHint{kind: GeoHintAddress, address: raw}, nil
}

// NewGeoPoint builds a point hint
func NewGeoPoint(lat, lon float64) GeoHint {
	return GeoHint{kind: GeoHintPoint, lat: lat, lon: lon}
}

func (h GeoHint) Kind() GeoHintKind { return h.kind }
func (h GeoHint) IsZero() bool      { return h.kind == GeoHintNone }
func (h GeoHint) Lat() float64      { return h.lat }
func (h GeoHint) Lon() float64      { return h.lon }
func (h GeoHint) Address() string   { return h.address }

// String returns the hint in its request form
func (h GeoHint) String() string {
	switch h.kind {
	case GeoHintPoint:
		return strconv.FormatFloat(h.lat, 'f', -1, 64) + "," + strconv.FormatFloat(h.lon, 'f', -1, 64)
	case GeoHintAddress:
		return h.address
	default:
		return ""
	}
}
