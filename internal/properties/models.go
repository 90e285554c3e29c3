package properties

import (
	"time"

	"github.com/google/uuid"

	"agriscope/land-portal/land-portal-backend/internal/geometry"
	"agriscope/land-portal/land-portal-backend/internal/overlay"
)

// Property is a user-owned polygon of agricultural land with its satellite
// monitoring metadata.
type Property struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	// Geometry is the persisted GeoJSON polygon; AxisOrder tags the
	// coordinate order so readers never have to guess it.
	Geometry       string            `json:"-" db:"geometry"`
	AxisOrder      overlay.AxisOrder `json:"axis_order" db:"axis_order"`
	Ring           []geometry.Vertex `json:"ring,omitempty" db:"-"`
	CropType       string            `json:"crop_type" db:"crop_type"`
	AreaHa         float64           `json:"area_ha" db:"area_ha"`
	CenterLat      float64           `json:"center_lat" db:"center_lat"`
	CenterLng      float64           `json:"center_lng" db:"center_lng"`
	EstimatedValue float64           `json:"estimated_value" db:"estimated_value"`
	RiskScore      float64           `json:"risk_score" db:"risk_score"`
	LastAnalysedAt *time.Time        `json:"last_analysed_at,omitempty" db:"last_analysed_at"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// CreatePropertyRequest carries a drawn (not necessarily closed) polygon.
type CreatePropertyRequest struct {
	Name        string            `json:"name" binding:"required"`
	CropType    string            `json:"crop_type" binding:"required"`
	Coordinates []geometry.Vertex `json:"coordinates" binding:"required"`
}

// UpdatePropertyRequest carries optional metadata changes; geometry is
// immutable after creation.
type UpdatePropertyRequest struct {
	Name           *string  `json:"name,omitempty"`
	CropType       *string  `json:"crop_type,omitempty"`
	EstimatedValue *float64 `json:"estimated_value,omitempty"`
}

// CropValueTable prices land by crop type for the estimated-value field.
type CropValueTable struct {
	PerHa        map[string]float64 `json:"per_ha"`
	DefaultPerHa float64            `json:"default_per_ha"`
}

// DefaultCropValues returns the production per-hectare valuations.
func DefaultCropValues() CropValueTable {
	return CropValueTable{
		PerHa: map[string]float64{
			"wheat":      5000,
			"corn":       5200,
			"sunflower":  4800,
			"rapeseed":   5100,
			"barley":     4700,
			"soy":        5300,
			"vineyard":   9500,
			"orchard":    8200,
			"vegetables": 7000,
		},
		DefaultPerHa: 5000,
	}
}

// ValuePerHa returns the valuation for a crop type, falling back to the
// default for unknown crops.
func (t CropValueTable) ValuePerHa(cropType string) float64 {
	if v, ok := t.PerHa[cropType]; ok {
		return v
	}
	return t.DefaultPerHa
}
