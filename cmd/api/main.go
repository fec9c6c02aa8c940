package main

import (
	"energy-center-checklist/config"
	"energy-center-checklist/middleware"
	"energy-center-checklist/routes"
	"energy-center-checklist/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load .env and environment
	cfg := config.Load()

	logger, flush := config.InitLogging(cfg)
	defer flush()

	// Initialize database
	if err := config.InitDB(cfg); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Set Gin mode
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.SecurityHeaders())

	router.SetHTMLTemplate(web.MustTemplates(cfg.FacilityLocation()))

	routes.SetupRoutes(router, cfg)

	logger.Info("Server starting",
		zap.String("port", cfg.ServerPort),
		zap.String("environment", cfg.Environment),
		zap.String("facility_zone", cfg.FacilityLocation().String()),
		zap.Bool("alerts_enabled", cfg.SMTPConfigured() && len(cfg.AlertRecipients) > 0),
		zap.Bool("report_links_enabled", cfg.ReportLinkSecret != ""),
	)

	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
