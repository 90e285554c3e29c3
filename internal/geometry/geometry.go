package geometry

import "math"

// Vertex is a geographic point in degrees (WGS84).
// Coordinates are not range-checked; out-of-range values flow through the
// math unchanged.
type Vertex struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// earthRadiusM is the mean Earth radius used by the area approximation.
const earthRadiusM = 6371000.0

// AreaHa calculates the area of a polygon in hectares using a spherical
// shoelace approximation. The polygon is implicitly closed: the edge from the
// last vertex back to the first is always included, whether or not the ring
// is explicitly closed. Fewer than 3 vertices yields 0.
//
// The formula is intentionally the same one used by the pricing pipeline
// downstream; it must not be swapped for a more exact geodesic algorithm.
func AreaHa(vertices []Vertex) float64 {
	if len(vertices) < 3 {
		return 0
	}

	n := len(vertices)
	var sum float64

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		lat1 := toRadians(vertices[i].Lat)
		lat2 := toRadians(vertices[j].Lat)
		lng1 := toRadians(vertices[i].Lng)
		lng2 := toRadians(vertices[j].Lng)

		sum += (lng2 - lng1) * (2 + math.Sin(lat1) + math.Sin(lat2))
	}

	areaSqM := math.Abs(sum * earthRadiusM * earthRadiusM / 2)

	return areaSqM / 10000
}

// Centroid calculates the arithmetic mean of the vertices. This is the simple
// vertex average, not the area-weighted centroid; satellite queries downstream
// depend on this exact definition. Returns ok=false for an empty list.
func Centroid(vertices []Vertex) (Vertex, bool) {
	if len(vertices) == 0 {
		return Vertex{}, false
	}

	var sumLat, sumLng float64
	for _, v := range vertices {
		sumLat += v.Lat
		sumLng += v.Lng
	}

	return Vertex{
		Lat: sumLat / float64(len(vertices)),
		Lng: sumLng / float64(len(vertices)),
	}, true
}

// CloseRing returns a ring that ends with a copy of its first vertex. Rings
// that are already closed (exact float equality on both coordinates) are
// returned as a copy without modification.
func CloseRing(vertices []Vertex) []Vertex {
	out := make([]Vertex, len(vertices))
	copy(out, vertices)

	if len(out) == 0 {
		return out
	}

	first, last := out[0], out[len(out)-1]
	if first.Lat != last.Lat || first.Lng != last.Lng {
		out = append(out, first)
	}

	return out
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
