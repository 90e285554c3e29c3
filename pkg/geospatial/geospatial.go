// Package geospatial converts between the portal's lat/lng vertex rings and
// the GeoJSON geometry persisted with each property.
package geospatial

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"agriscope/land-portal/land-portal-backend/internal/geometry"
)

// ErrNotAPolygon is returned when stored GeoJSON decodes to something other
// than a polygon.
var ErrNotAPolygon = errors.New("geometry is not a polygon")

// RingToGeoJSON encodes a closed ring as a GeoJSON Polygon string. GeoJSON
// uses [lng, lat] axis order on the wire.
func RingToGeoJSON(ring []geometry.Vertex) (string, error) {
	orbRing := make(orb.Ring, 0, len(ring))
	for _, v := range ring {
		orbRing = append(orbRing, orb.Point{v.Lng, v.Lat})
	}

	data, err := json.Marshal(geojson.NewGeometry(orb.Polygon{orbRing}))
	if err != nil {
		return "", fmt.Errorf("failed to encode polygon: %w", err)
	}

	return string(data), nil
}

// RingFromGeoJSON decodes a GeoJSON Polygon string back into the outer ring
// as explicit lat/lng vertices.
func RingFromGeoJSON(data string) ([]geometry.Vertex, error) {
	geom, err := geojson.UnmarshalGeometry([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode geometry: %w", err)
	}

	polygon, ok := geom.Geometry().(orb.Polygon)
	if !ok || len(polygon) == 0 {
		return nil, ErrNotAPolygon
	}

	outer := polygon[0]
	ring := make([]geometry.Vertex, 0, len(outer))
	for _, p := range outer {
		ring = append(ring, geometry.Vertex{Lat: p.Lat(), Lng: p.Lon()})
	}

	return ring, nil
}
