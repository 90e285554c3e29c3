package properties

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a property does not exist.
var ErrNotFound = errors.New("property not found")

// Repository defines the interface for property data access.
type Repository interface {
	CreateProperty(ctx context.Context, property *Property) error
	GetProperty(ctx context.Context, id uuid.UUID) (*Property, error)
	ListProperties(ctx context.Context) ([]Property, error)
	UpdateProperty(ctx context.Context, property *Property) error
	DeleteProperty(ctx context.Context, id uuid.UUID) error
}

// SQLRepository implements Repository over the embedded SQLite store.
type SQLRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates a new property repository.
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) CreateProperty(ctx context.Context, property *Property) error {
	query := `
		INSERT INTO properties (
			id, name, geometry, axis_order, crop_type, area_ha,
			center_lat, center_lng, estimated_value, risk_score,
			last_analysed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		property.ID, property.Name, property.Geometry, property.AxisOrder,
		property.CropType, property.AreaHa, property.CenterLat, property.CenterLng,
		property.EstimatedValue, property.RiskScore, property.LastAnalysedAt,
		property.CreatedAt, property.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	return nil
}

func (r *SQLRepository) GetProperty(ctx context.Context, id uuid.UUID) (*Property, error) {
	query := `SELECT * FROM properties WHERE id = ?`

	var property Property
	err := r.db.GetContext(ctx, &property, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	return &property, nil
}

func (r *SQLRepository) ListProperties(ctx context.Context) ([]Property, error) {
	query := `SELECT * FROM properties ORDER BY created_at DESC`

	properties := []Property{}
	if err := r.db.SelectContext(ctx, &properties, query); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	return properties, nil
}

func (r *SQLRepository) UpdateProperty(ctx context.Context, property *Property) error {
	query := `
		UPDATE properties
		SET name = ?, crop_type = ?, estimated_value = ?, risk_score = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		property.Name, property.CropType, property.EstimatedValue,
		property.RiskScore, property.UpdatedAt, property.ID)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *SQLRepository) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}
