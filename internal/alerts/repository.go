package alerts

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines the interface for alert data access.
type Repository interface {
	CreateAlert(ctx context.Context, alert *Alert) error
	ListAlerts(ctx context.Context) ([]Alert, error)
	ListBySeverity(ctx context.Context, severity Severity) ([]Alert, error)
}

// SQLRepository implements Repository over the embedded SQLite store.
type SQLRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates a new alert repository.
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) CreateAlert(ctx context.Context, alert *Alert) error {
	query := `
		INSERT INTO alerts (id, property_id, type, severity, message, sector, lat, lng, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		alert.ID, alert.PropertyID, alert.Type, alert.Severity,
		alert.Message, alert.Sector, alert.Lat, alert.Lng, alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

func (r *SQLRepository) ListAlerts(ctx context.Context) ([]Alert, error) {
	query := `SELECT * FROM alerts ORDER BY created_at DESC`

	alerts := []Alert{}
	if err := r.db.SelectContext(ctx, &alerts, query); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	return alerts, nil
}

func (r *SQLRepository) ListBySeverity(ctx context.Context, severity Severity) ([]Alert, error) {
	query := `SELECT * FROM alerts WHERE severity = ? ORDER BY created_at DESC`

	alerts := []Alert{}
	if err := r.db.SelectContext(ctx, &alerts, query, severity); err != nil {
		return nil, fmt.Errorf("failed to list alerts by severity: %w", err)
	}

	return alerts, nil
}
