package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"agriscope/land-portal/land-portal-backend/internal/database"
	"agriscope/land-portal/land-portal-backend/internal/pricing"
	"agriscope/land-portal/land-portal-backend/internal/properties"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig              `json:"server"`
	Database  database.Config           `json:"database"`
	Pricing   pricing.Table             `json:"pricing"`
	Crops     properties.CropValueTable `json:"crops"`
	Alerts    AlertsConfig              `json:"alerts"`
	Cadastral CadastralConfig           `json:"cadastral"`
	Ledger    LedgerConfig              `json:"ledger"`
	Logging   LoggingConfig             `json:"logging"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// AlertsConfig configures the automated-report poller.
type AlertsConfig struct {
	PollInterval time.Duration `json:"poll_interval"`
}

// CadastralConfig points at the external parcel registry.
type CadastralConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// LedgerConfig namespaces the persisted credit ledger.
type LedgerConfig struct {
	Namespace string `json:"namespace"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from an optional JSON file and environment
// variable overrides, starting from production defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: database.Config{
			Path: "./data/portal.db",
		},
		Pricing: pricing.DefaultTable(),
		Crops:   properties.DefaultCropValues(),
		Alerts: AlertsConfig{
			PollInterval: 30 * time.Second,
		},
		Cadastral: CadastralConfig{
			BaseURL: "http://localhost:9090",
			Timeout: 10 * time.Second,
		},
		Ledger: LedgerConfig{
			Namespace: "portal:ledger:default",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		config.Database.Path = path
	}
	if baseURL := os.Getenv("CADASTRAL_BASE_URL"); baseURL != "" {
		config.Cadastral.BaseURL = baseURL
	}
	if interval := os.Getenv("ALERT_POLL_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			config.Alerts.PollInterval = d
		}
	}
	if ns := os.Getenv("LEDGER_NAMESPACE"); ns != "" {
		config.Ledger.Namespace = ns
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// GetServerAddr returns the server address.
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
