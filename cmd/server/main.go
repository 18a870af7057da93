package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/asyncscrum/scrum-platform/internal/config"
	"github.com/asyncscrum/scrum-platform/internal/database"
	"github.com/asyncscrum/scrum-platform/internal/observability"
	"github.com/asyncscrum/scrum-platform/internal/routes"
	"github.com/asyncscrum/scrum-platform/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	logger.Info("starting application",
		zap.String("app", cfg.AppName),
		zap.String("database_type", cfg.DatabaseType))

	// Initialize database
	if err := database.Initialize(cfg); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	// Seed admin user
	authService := services.NewAuthService(cfg)
	if err := routes.SeedAdminUser(cfg, authService); err != nil {
		logger.Warn("failed to seed admin user", zap.Error(err))
	} else {
		logger.Info("admin user ready", zap.String("email", cfg.AdminEmail))
	}

	// Setup router
	router := routes.SetupRouter(cfg)

	// Start server
	addr := cfg.ServerHost + ":" + cfg.ServerPort
	logger.Info("server starting", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
