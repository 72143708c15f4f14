package middleware

import (
	"time"

	"dailywage-hub/internal/config"
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/pkg/logger"
	"dailywage-hub/internal/pkg/response"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// Setup configures all middlewares for the application
func Setup(app *fiber.App, cfg *config.Config, log *zap.Logger) {
	// Recover middleware - catches panics
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDev()}))

	// Request ID, echoed in X-Request-ID and in every request log line
	app.Use(requestid.New())

	// Gzip Compression middleware
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Security Headers middleware (Helmet)
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		PermissionPolicy:          "microphone=(), camera=()",
	}))

	// Rate Limiter middleware - General API (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.TooManyRequests(c, "Too many requests, please slow down")
		},
	}))

	// Logger middleware
	app.Use(RequestLogger(log))

	// CORS middleware
	origins := cfg.GetAllowedOrigins()
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		// session cookies need credentials; browsers refuse them with "*"
		AllowCredentials: origins != "*",
		ExposeHeaders:    "X-Total-Count,X-Request-ID",
	}))
}

// AuthRateLimiter creates a stricter rate limiter for auth endpoints
// 5 requests per minute per IP (for login, register)
func AuthRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "-auth"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.TooManyRequests(c, "Too many login attempts, please wait a minute")
		},
	})
}

// RequestLogger logs one structured line per request
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			// render the error now so the logged status is the real one
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String(logger.FieldMethod, c.Method()),
			zap.String(logger.FieldPath, c.Path()),
			zap.Int(logger.FieldStatus, status),
			zap.Duration(logger.FieldLatency, time.Since(start)),
			zap.String(logger.FieldIP, c.IP()),
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			fields = append(fields, zap.String(logger.FieldRequestID, rid))
		}
		if p, ok := GetPrincipal(c); ok {
			fields = append(fields, zap.String(logger.FieldUserID, p.UserID.String()))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request", append(fields, zap.Error(chainErr))...)
		case status >= fiber.StatusBadRequest:
			log.Info("request", append(fields, zap.NamedError("reason", chainErr))...)
		default:
			log.Info("request", fields...)
		}
		return nil
	}
}

// ErrorHandler maps errors to {status, message[, errors]} bodies.
// Unclassified errors are 500; production hides their message.
func ErrorHandler(cfg *config.Config, log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var de *domain.Error
		if errors.As(err, &de) {
			if de.Kind == domain.KindValidation && len(de.Fields) > 0 {
				return response.ValidationFailed(c, de.Message, de.Fields)
			}
			if de.Kind == domain.KindExternalService {
				log.Error("external service failure", zap.Error(err))
			}
			return response.Error(c, de.Kind.HTTPStatus(), de.Message)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return response.Error(c, fe.Code, fe.Message)
		}

		log.Error("unhandled error", zap.String(logger.FieldPath, c.Path()), zap.Error(err))
		message := "Internal Server Error"
		if !cfg.IsProd() {
			message = err.Error()
		}
		return response.Error(c, fiber.StatusInternalServerError, message)
	}
}
