package routes

import (
	"dailywage-hub/internal/adapters/http/handlers"
	"dailywage-hub/internal/adapters/http/middleware"
	"dailywage-hub/internal/adapters/persistence/repositories"
	"dailywage-hub/internal/config"
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, store *repositories.Store, gateway services.PaymentGateway, cfg *config.Config, log *zap.Logger) {
	// Initialize services
	authService := services.NewAuthService(store.Users, store.Sessions, cfg.Session.Secret, cfg.SessionTTL(), log)
	userService := services.NewUserService(store.Users, log)
	jobService := services.NewJobService(store, cfg.Policy, log)
	applicationService := services.NewApplicationService(store, cfg.Policy, log)
	messageService := services.NewMessageService(store, log)
	paymentService := services.NewPaymentService(store, gateway, services.PaymentOptions{
		Currency:         cfg.Payment.Currency,
		PeriodMultiplier: cfg.Payment.PeriodMultiplier,
		GatewayTimeout:   cfg.GatewayTimeout(),
	}, log)
	dashboardService := services.NewDashboardService(store.DB())

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, func() error {
		return config.HealthCheck(store.DB())
	})
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	jobHandler := handlers.NewJobHandler(jobService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	messageHandler := handlers.NewMessageHandler(messageService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	requireAuth := middleware.AuthMiddleware(authService)
	employer := middleware.RequireRoles(domain.RoleEmployer)
	worker := middleware.RequireRoles(domain.RoleWorker)

	// ========== Auth Routes ==========
	auth := api.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/logout", requireAuth, authHandler.Logout)
	auth.Post("/logout-all", requireAuth, authHandler.LogoutAll)
	auth.Get("/me", requireAuth, authHandler.Me)

	// ========== User Routes ==========
	users := api.Group("/users", requireAuth)
	users.Get("/", middleware.RequireRoles(domain.RoleEmployer, domain.RoleNGO), userHandler.ListUsers)
	users.Patch("/me", userHandler.UpdateProfile)
	users.Put("/me/password", middleware.NoCacheHeaders(), userHandler.ChangePassword)
	users.Get("/:id", userHandler.GetUser)

	// ========== Job Routes ==========
	jobs := api.Group("/jobs")
	jobs.Get("/", jobHandler.ListJobs)
	jobs.Get("/:id", jobHandler.GetJob)
	jobs.Post("/", requireAuth, employer, jobHandler.CreateJob)
	jobs.Patch("/:id/status", requireAuth, employer, jobHandler.UpdateStatus)
	jobs.Post("/:id/assign", requireAuth, employer, jobHandler.Assign)
	jobs.Post("/:id/complete", requireAuth, employer, jobHandler.Complete)
	jobs.Post("/:id/cancel", requireAuth, employer, jobHandler.Cancel)
	jobs.Get("/:jobId/applications", requireAuth, employer, applicationHandler.ListByJob)

	// ========== Application Routes ==========
	applications := api.Group("/applications", requireAuth)
	applications.Post("/", worker, applicationHandler.Apply)
	applications.Get("/:id", applicationHandler.GetApplication)
	applications.Patch("/:id/status", middleware.RequireRoles(domain.RoleEmployer, domain.RoleWorker), applicationHandler.UpdateStatus)

	api.Get("/workers/:workerId/applications", requireAuth, worker, applicationHandler.ListByWorker)

	// ========== Message Routes ==========
	messages := api.Group("/messages", requireAuth)
	messages.Post("/", messageHandler.Send)
	messages.Get("/unread-count", messageHandler.UnreadCount)
	messages.Patch("/:id/read", messageHandler.MarkRead)
	messages.Get("/:userId1/:userId2", messageHandler.Conversation)

	// ========== Payment Routes ==========
	payments := api.Group("/payments", requireAuth, middleware.NoCacheHeaders())
	payments.Post("/create-order", employer, paymentHandler.CreateOrder)
	payments.Post("/verify", employer, paymentHandler.Verify)
	payments.Post("/failed", employer, paymentHandler.Failed)
	payments.Get("/job/:jobId", paymentHandler.GetForJob)
	if cfg.UseOfflineGateway() {
		payments.Post("/offline-checkout", employer, paymentHandler.OfflineCheckout)
	}

	// ========== Dashboard Routes ==========
	api.Get("/dashboard", requireAuth, middleware.NoCacheHeaders(), dashboardHandler.GetDashboard)
}
