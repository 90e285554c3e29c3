// Package overlay normalizes stored parcel geometry for read-only display
// alongside a polygon under construction. Overlays never contribute to the
// area or centroid of the sketch.
package overlay

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/geometry"
)

// ErrMalformedGeometry marks an overlay ring whose coordinate shape matches
// no recognized format. A malformed overlay is skipped, never fatal for the
// rest of the batch.
var ErrMalformedGeometry = errors.New("overlay geometry is malformed")

// AxisOrder tags the coordinate order of a stored ring. All newly stored
// geometry carries an explicit tag; AxisOrderUnknown exists only for legacy
// rows written before the tag was introduced.
type AxisOrder string

const (
	AxisOrderLatLng  AxisOrder = "lat_lng"
	AxisOrderLngLat  AxisOrder = "lng_lat"
	AxisOrderUnknown AxisOrder = ""
)

// legacyLngBound separates a plausible longitude from a plausible latitude
// for untagged legacy rows. The stored data is Romania-bounded (lng ~20-30,
// lat ~43-48), which is the only reason this guess works; tagged rows never
// reach it.
const legacyLngBound = 40.0

// StoredParcel is a persisted parcel ring as it arrives from storage: either
// `[{"lat":..,"lng":..}, ...]` object form or `[[x, y], ...]` pair form.
type StoredParcel struct {
	Name        string          `json:"name"`
	AxisOrder   AxisOrder       `json:"axis_order"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Parcel is a normalized read-only overlay ready for rendering.
type Parcel struct {
	Name string            `json:"name"`
	Ring []geometry.Vertex `json:"ring"`
}

// DecodeRing converts one stored ring into explicit lat/lng vertices.
func DecodeRing(raw json.RawMessage, order AxisOrder) ([]geometry.Vertex, error) {
	// Object form first: unambiguous regardless of tag.
	var objects []struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal(raw, &objects); err == nil && len(objects) > 0 && objects[0].Lat != nil && objects[0].Lng != nil {
		ring := make([]geometry.Vertex, 0, len(objects))
		for _, o := range objects {
			if o.Lat == nil || o.Lng == nil {
				return nil, ErrMalformedGeometry
			}
			ring = append(ring, geometry.Vertex{Lat: *o.Lat, Lng: *o.Lng})
		}
		return ring, nil
	}

	var pairs [][]float64
	if err := json.Unmarshal(raw, &pairs); err != nil || len(pairs) == 0 {
		return nil, ErrMalformedGeometry
	}
	for _, p := range pairs {
		if len(p) != 2 {
			return nil, ErrMalformedGeometry
		}
	}

	if order == AxisOrderUnknown {
		order = guessAxisOrder(pairs)
	}

	ring := make([]geometry.Vertex, 0, len(pairs))
	for _, p := range pairs {
		switch order {
		case AxisOrderLngLat:
			ring = append(ring, geometry.Vertex{Lat: p[1], Lng: p[0]})
		default:
			ring = append(ring, geometry.Vertex{Lat: p[0], Lng: p[1]})
		}
	}
	return ring, nil
}

// guessAxisOrder applies the legacy heuristic: a first component below the
// bound cannot be a Romanian latitude, so the pair is [lng, lat].
func guessAxisOrder(pairs [][]float64) AxisOrder {
	if pairs[0][0] < legacyLngBound {
		return AxisOrderLngLat
	}
	return AxisOrderLatLng
}

// Normalize decodes a batch of stored parcels, dropping malformed ones so a
// single bad record cannot blank the whole map.
func Normalize(parcels []StoredParcel, logger *zap.Logger) []Parcel {
	out := make([]Parcel, 0, len(parcels))
	for _, p := range parcels {
		ring, err := DecodeRing(p.Coordinates, p.AxisOrder)
		if err != nil {
			logger.Warn("Skipping malformed parcel overlay",
				zap.String("name", p.Name),
				zap.Error(err))
			continue
		}
		out = append(out, Parcel{Name: p.Name, Ring: ring})
	}
	return out
}
