package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/alerts"
	"agriscope/land-portal/land-portal-backend/internal/config"
	"agriscope/land-portal/land-portal-backend/internal/database"
	"agriscope/land-portal/land-portal-backend/internal/ledger"
	"agriscope/land-portal/land-portal-backend/internal/notifications"
	"agriscope/land-portal/land-portal-backend/internal/reports"
)

// Standalone alert worker. Runs the same evaluation loop as the API process
// would, but without the HTTP surface, so the poll interval can be tuned
// independently of the serving deployment.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	ledgerStore := ledger.NewSQLStore(db)
	led, err := ledger.New(context.Background(), ledgerStore, cfg.Ledger.Namespace, logger)
	if err != nil {
		logger.Fatal("Failed to load credit ledger", zap.Error(err))
	}

	reportsRepo := reports.NewSQLRepository(db)
	reportsService := reports.NewService(reportsRepo, led, cfg.Pricing, notifications.NopPublisher{}, logger)

	alertsRepo := alerts.NewSQLRepository(db)
	poller := alerts.NewPoller(alertsRepo, reportsService, notifications.NopPublisher{}, cfg.Alerts.PollInterval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := poller.Start(ctx); err != nil {
		logger.Fatal("Failed to start alert poller", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker")
	cancel()
	poller.Stop()
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
