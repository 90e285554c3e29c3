package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines the interface for report data access.
type Repository interface {
	CreateReport(ctx context.Context, report *Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*Report, error)
	ListReports(ctx context.Context, propertyID *uuid.UUID) ([]Report, error)
	HasReportForAlert(ctx context.Context, alertID uuid.UUID) (bool, error)
}

// SQLRepository implements Repository over the embedded SQLite store.
type SQLRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates a new report repository.
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) CreateReport(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO reports (id, title, content, kind, property_id, source_alert_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.Title, report.Content, report.Kind,
		report.PropertyID, report.SourceAlertID, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

func (r *SQLRepository) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	query := `
		SELECT id, title, content, kind, property_id, source_alert_id, created_at
		FROM reports
		WHERE id = ?
	`

	var report Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &report, nil
}

func (r *SQLRepository) ListReports(ctx context.Context, propertyID *uuid.UUID) ([]Report, error) {
	query := `
		SELECT id, title, content, kind, property_id, source_alert_id, created_at
		FROM reports
	`
	args := []interface{}{}

	if propertyID != nil {
		query += ` WHERE property_id = ?`
		args = append(args, *propertyID)
	}

	query += ` ORDER BY created_at DESC`

	reports := []Report{}
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return reports, nil
}

// HasReportForAlert checks by exact key match whether an alert already
// produced a report. This is what keeps the automated trigger idempotent
// under periodic polling.
func (r *SQLRepository) HasReportForAlert(ctx context.Context, alertID uuid.UUID) (bool, error) {
	query := `SELECT COUNT(1) FROM reports WHERE source_alert_id = ?`

	var count int
	if err := r.db.GetContext(ctx, &count, query, alertID); err != nil {
		return false, fmt.Errorf("failed to check alert reports: %w", err)
	}

	return count > 0, nil
}
