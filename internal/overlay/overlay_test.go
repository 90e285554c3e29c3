package overlay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/geometry"
)

func TestDecodeRingObjectForm(t *testing.T) {
	raw := json.RawMessage(`[{"lat":45.7,"lng":21.2},{"lat":45.8,"lng":21.3}]`)

	ring, err := DecodeRing(raw, AxisOrderUnknown)
	assert.NoError(t, err)
	assert.Equal(t, []geometry.Vertex{
		{Lat: 45.7, Lng: 21.2},
		{Lat: 45.8, Lng: 21.3},
	}, ring)
}

func TestDecodeRingTaggedPairForm(t *testing.T) {
	raw := json.RawMessage(`[[21.2,45.7],[21.3,45.8]]`)

	ring, err := DecodeRing(raw, AxisOrderLngLat)
	assert.NoError(t, err)
	assert.Equal(t, geometry.Vertex{Lat: 45.7, Lng: 21.2}, ring[0])
}

func TestDecodeRingLegacyHeuristicSwapsLngLat(t *testing.T) {
	// Untagged GeoJSON-style pairs: first component ~21 is a Romanian
	// longitude, so the pair is read as [lng, lat].
	raw := json.RawMessage(`[[21.2,45.7],[21.3,45.8],[21.4,45.9]]`)

	ring, err := DecodeRing(raw, AxisOrderUnknown)
	assert.NoError(t, err)
	assert.Equal(t, geometry.Vertex{Lat: 45.7, Lng: 21.2}, ring[0])
}

func TestDecodeRingLegacyHeuristicKeepsLatLng(t *testing.T) {
	raw := json.RawMessage(`[[45.7,21.2],[45.8,21.3],[45.9,21.4]]`)

	ring, err := DecodeRing(raw, AxisOrderUnknown)
	assert.NoError(t, err)
	assert.Equal(t, geometry.Vertex{Lat: 45.7, Lng: 21.2}, ring[0])
}

func TestDecodeRingMalformed(t *testing.T) {
	for _, raw := range []string{`"not a ring"`, `[]`, `[[1,2,3]]`, `[{"x":1}]`, `{}`} {
		_, err := DecodeRing(json.RawMessage(raw), AxisOrderUnknown)
		assert.ErrorIs(t, err, ErrMalformedGeometry, raw)
	}
}

func TestNormalizeSkipsMalformedRecords(t *testing.T) {
	parcels := []StoredParcel{
		{Name: "good", Coordinates: json.RawMessage(`[{"lat":45.7,"lng":21.2}]`)},
		{Name: "bad", Coordinates: json.RawMessage(`{}`)},
		{Name: "also good", AxisOrder: AxisOrderLngLat, Coordinates: json.RawMessage(`[[21.2,45.7]]`)},
	}

	out := Normalize(parcels, zap.NewNop())
	assert.Len(t, out, 2)
	assert.Equal(t, "good", out[0].Name)
	assert.Equal(t, "also good", out[1].Name)
}
