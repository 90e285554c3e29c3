package alerts

import (
	"time"

	"github.com/google/uuid"
)

// Type categorizes what the satellite pipeline detected.
type Type string

const (
	TypeFire    Type = "fire"
	TypeFlood   Type = "flood"
	TypeWarning Type = "warning"
	TypeNDVI    Type = "ndvi"
)

// Severity levels; only high-severity alerts trigger automated reports.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert is a detection event for a monitored parcel.
type Alert struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	PropertyID *uuid.UUID `json:"property_id,omitempty" db:"property_id"`
	Type       Type       `json:"type" db:"type"`
	Severity   Severity   `json:"severity" db:"severity"`
	Message    string     `json:"message" db:"message"`
	Sector     string     `json:"sector" db:"sector"`
	Lat        *float64   `json:"lat,omitempty" db:"lat"`
	Lng        *float64   `json:"lng,omitempty" db:"lng"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// CreateAlertRequest is the ingestion payload from the detection pipeline.
type CreateAlertRequest struct {
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
	Type       Type       `json:"type" binding:"required"`
	Severity   Severity   `json:"severity" binding:"required"`
	Message    string     `json:"message" binding:"required"`
	Sector     string     `json:"sector"`
	Lat        *float64   `json:"lat,omitempty"`
	Lng        *float64   `json:"lng,omitempty"`
}
