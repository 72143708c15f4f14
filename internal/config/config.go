package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"dailywage-hub/internal/core/domain"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	Session  SessionConfig
	Cookie   CookieConfig
	Payment  PaymentConfig
	Policy   domain.LifecyclePolicy
	Cron     CronConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// SessionConfig holds session token configuration
type SessionConfig struct {
	Secret   string
	TTLHours int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// PaymentConfig holds payment gateway configuration
type PaymentConfig struct {
	KeyID            string
	KeySecret        string
	BaseURL          string
	TimeoutSeconds   int
	Currency         string
	PeriodMultiplier int64
}

// CronConfig holds housekeeping schedules
type CronConfig struct {
	SessionCleanup string
}

const (
	defaultSessionSecret = "dev_session_secret"
	defaultRazorpayURL   = "https://api.razorpay.com/v1"
)

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: DatabaseConfig{URL: strings.TrimSpace(os.Getenv("DATABASE_URL"))},
		Session:  loadSessionConfig(appMode),
		Cookie:   loadCookieConfig(),
		Payment:  loadPaymentConfig(),
		Policy: domain.LifecyclePolicy{
			AutoRejectOnAccept:    getEnvBool("APPLICATION_AUTO_REJECT_ON_ACCEPT", false),
			AllowCancelInProgress: getEnvBool("JOB_ALLOW_CANCEL_IN_PROGRESS", false),
		},
		Cron: CronConfig{
			SessionCleanup: getEnv("SESSION_CLEANUP_SCHEDULE", "@hourly"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// Validate checks the settings that have no safe default
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Payment.PeriodMultiplier < 1 {
		return fmt.Errorf("PAYMENT_WAGE_PERIOD_MULTIPLIER must be at least 1")
	}
	if c.Payment.TimeoutSeconds < 1 {
		return fmt.Errorf("PAYMENT_GATEWAY_TIMEOUT_SECONDS must be at least 1")
	}
	if !c.IsProd() {
		return nil
	}
	if c.Session.Secret == "" || c.Session.Secret == defaultSessionSecret {
		return fmt.Errorf("SESSION_SECRET is required in production")
	}
	if c.Payment.KeyID == "" || c.Payment.KeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required in production")
	}
	return nil
}

func loadSessionConfig(mode string) SessionConfig {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" && mode == "dev" {
		secret = defaultSessionSecret
	}

	return SessionConfig{
		Secret:   secret,
		TTLHours: getEnvInt("SESSION_TTL_HOURS", 168),
	}
}

func loadCookieConfig() CookieConfig {
	return CookieConfig{
		Secure:   getEnvBool("COOKIE_SECURE", false),
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadPaymentConfig() PaymentConfig {
	return PaymentConfig{
		KeyID:            os.Getenv("RAZORPAY_KEY_ID"),
		KeySecret:        os.Getenv("RAZORPAY_KEY_SECRET"),
		BaseURL:          getEnv("RAZORPAY_BASE_URL", defaultRazorpayURL),
		TimeoutSeconds:   getEnvInt("PAYMENT_GATEWAY_TIMEOUT_SECONDS", 10),
		Currency:         getEnv("PAYMENT_CURRENCY", "INR"),
		PeriodMultiplier: int64(getEnvInt("PAYMENT_WAGE_PERIOD_MULTIPLIER", 3)),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// SessionTTL returns how long a login session lasts
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLHours) * time.Hour
}

// GatewayTimeout bounds every payment gateway call
func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.Payment.TimeoutSeconds) * time.Second
}

// UseOfflineGateway is true in dev when no gateway key is configured
func (c *Config) UseOfflineGateway() bool {
	return c.IsDev() && c.Payment.KeyID == ""
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:5173"
	}
	return origins
}
