// Package database opens the embedded SQLite store and applies the schema.
package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Config holds database configuration.
type Config struct {
	Path string `json:"path"`
}

// Open connects to the SQLite file at cfg.Path and prepares it for use.
func Open(cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	// WAL mode: the API server and the alert worker share the file.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		geometry TEXT NOT NULL,
		axis_order TEXT NOT NULL DEFAULT 'lat_lng',
		crop_type TEXT NOT NULL,
		area_ha REAL NOT NULL,
		center_lat REAL NOT NULL,
		center_lng REAL NOT NULL,
		estimated_value REAL NOT NULL,
		risk_score REAL NOT NULL DEFAULT 0,
		last_analysed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		kind TEXT NOT NULL,
		property_id TEXT,
		source_alert_id TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_reports_source_alert
		ON reports(source_alert_id) WHERE source_alert_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_reports_property ON reports(property_id)`,
	`CREATE TABLE IF NOT EXISTS ledger_states (
		key TEXT PRIMARY KEY,
		credits_remaining INTEGER NOT NULL,
		total_included INTEGER NOT NULL,
		active_tier TEXT,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		property_id TEXT,
		type TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL,
		sector TEXT NOT NULL DEFAULT '',
		lat REAL,
		lng REAL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_severity ON alerts(severity)`,
}

// Migrate applies the schema statements in order.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
