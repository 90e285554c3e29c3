package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/alerts"
	"agriscope/land-portal/land-portal-backend/internal/cadastral"
	"agriscope/land-portal/land-portal-backend/internal/config"
	"agriscope/land-portal/land-portal-backend/internal/database"
	"agriscope/land-portal/land-portal-backend/internal/ledger"
	"agriscope/land-portal/land-portal-backend/internal/notifications"
	"agriscope/land-portal/land-portal-backend/internal/properties"
	"agriscope/land-portal/land-portal-backend/internal/reports"
)

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

	// ---------------- NOTIFICATIONS ----------------
	hub := notifications.NewHub(logger)
	go hub.Run()
	defer hub.Stop()

	// ---------------- LEDGER ----------------
	ledgerStore := ledger.NewSQLStore(db)
	led, err := ledger.New(context.Background(), ledgerStore, cfg.Ledger.Namespace, logger)
	if err != nil {
		logger.Fatal("Failed to load credit ledger", zap.Error(err))
	}

	// ---------------- REPORTS ----------------
	reportsRepo := reports.NewSQLRepository(db)
	reportsService := reports.NewService(reportsRepo, led, cfg.Pricing, hub, logger)
	reportsHandler := reports.NewHandler(reportsService)

	// ---------------- PROPERTIES ----------------
	propertiesRepo := properties.NewSQLRepository(db)
	propertiesService := properties.NewService(propertiesRepo, cfg.Crops, logger)
	propertiesHandler := properties.NewHandler(propertiesService)

	// ---------------- ALERTS ----------------
	alertsRepo := alerts.NewSQLRepository(db)
	alertsHandler := alerts.NewHandler(alertsRepo, hub)

	// ---------------- CADASTRAL ----------------
	cadastralClient := cadastral.NewHTTPClient(cfg.Cadastral.BaseURL, cfg.Cadastral.Timeout, logger)
	cadastralHandler := cadastral.NewHandler(cadastralClient)

	r := gin.Default()

	api := r.Group("/api")
	propertiesHandler.RegisterRoutes(api)
	reportsHandler.RegisterRoutes(api)
	alertsHandler.RegisterRoutes(api)
	cadastralHandler.RegisterRoutes(api)

	r.GET("/ws", func(c *gin.Context) {
		if err := hub.HandleConnection(c.Writer, c.Request); err != nil {
			logger.Warn("WebSocket upgrade failed", zap.Error(err))
		}
	})

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API alive!"})
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
