package reports

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes user-requested reports from alert-triggered ones.
type Kind string

const (
	KindManual    Kind = "manual"
	KindAutomated Kind = "automated"
)

// Report is an append-only record of a generated damage/risk report. Records
// are never mutated or deleted; the dashboard filters them by property.
type Report struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Title   string    `json:"title" db:"title"`
	Content string    `json:"content" db:"content"`
	Kind    Kind      `json:"kind" db:"kind"`
	// PropertyID links the report to a parcel when it concerns one.
	PropertyID *uuid.UUID `json:"property_id,omitempty" db:"property_id"`
	// SourceAlertID is the alert that triggered an automated report. It is
	// the idempotency key for the poller: one alert, at most one report.
	SourceAlertID *uuid.UUID `json:"source_alert_id,omitempty" db:"source_alert_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// ManualReportRequest is the payload for a user-requested report.
type ManualReportRequest struct {
	Title      string     `json:"title" binding:"required"`
	Content    string     `json:"content" binding:"required"`
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
}

// AutomatedReportRequest is built by the alert poller.
type AutomatedReportRequest struct {
	Title         string
	Content       string
	PropertyID    *uuid.UUID
	SourceAlertID uuid.UUID
}
