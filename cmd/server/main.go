package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"dailywage-hub/internal/adapters/gateway"
	"dailywage-hub/internal/adapters/http/middleware"
	"dailywage-hub/internal/adapters/http/routes"
	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/adapters/persistence/repositories"
	"dailywage-hub/internal/config"
	"dailywage-hub/internal/core/services"
	"dailywage-hub/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "dailywage-hub/docs" // Swagger docs
)

// @title DailyWage Hub API
// @version 1.0
// @description Daily-wage labour marketplace: jobs, applications, messaging and payment settlement.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
// @description Session cookie set by /auth/login; "Authorization: Bearer <token>" is accepted too.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.AppMode)
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		zl.Fatal("❌ Failed to connect to database", zap.Error(err))
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		zl.Fatal("❌ Failed to auto migrate", zap.Error(err))
	}
	zl.Info("✅ Database migration completed")

	// Seed a dev admin; production admins are provisioned out of band
	if cfg.IsDev() {
		if err := config.NewSeeder(db).Run(); err != nil {
			zl.Warn("⚠️ Failed to seed data", zap.Error(err))
		}
	}

	store := repositories.NewStore(db)

	// Payment gateway
	var paymentGateway services.PaymentGateway
	if cfg.UseOfflineGateway() {
		secret := cfg.Payment.KeySecret
		if secret == "" {
			secret = cfg.Session.Secret
		}
		paymentGateway = gateway.NewOfflineGateway(secret, zl)
	} else {
		razorpay := gateway.NewRazorpayClient(gateway.RazorpayConfig{
			KeyID:     cfg.Payment.KeyID,
			KeySecret: cfg.Payment.KeySecret,
			BaseURL:   cfg.Payment.BaseURL,
			Timeout:   cfg.GatewayTimeout(),
		}, zl)
		defer razorpay.Close()
		paymentGateway = razorpay
	}

	// Start Cron Service for session cleanup
	cronService := services.NewCronService(store.Sessions, cfg.Cron.SessionCleanup, zl)
	if err := cronService.Start(); err != nil {
		zl.Fatal("❌ Failed to start cron", zap.Error(err))
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "DailyWage Hub API v1.0",
		ErrorHandler: middleware.ErrorHandler(cfg, zl),
	})

	// Setup middlewares
	middleware.Setup(app, cfg, zl)

	// Setup routes
	routes.Setup(app, store, paymentGateway, cfg, zl)

	// Graceful shutdown
	go gracefulShutdown(app, zl)

	// Start server
	zl.Info("🚀 Server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, zl *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		zl.Error("❌ Error during shutdown", zap.Error(err))
	}
	zl.Info("✅ Server stopped gracefully")
}
