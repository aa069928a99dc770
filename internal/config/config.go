package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	DatabaseURL string

	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	SessionTTL        time.Duration

	EmailJSServiceID        string
	EmailJSPublicKey        string
	EmailJSOperatorTemplate string
	EmailJSCustomerTemplate string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GoogleCalendarID   string
}

// Load reads configuration from environment variables, preferring a local
// .env file when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         os.Getenv("JWT_HMAC_SECRET"),
		SessionTTL:        getEnvDuration("ADMIN_SESSION_TTL", 12*time.Hour),

		EmailJSServiceID:        os.Getenv("EMAILJS_SERVICE_ID"),
		EmailJSPublicKey:        os.Getenv("EMAILJS_PUBLIC_KEY"),
		EmailJSOperatorTemplate: os.Getenv("EMAILJS_OPERATOR_TEMPLATE_ID"),
		EmailJSCustomerTemplate: os.Getenv("EMAILJS_CUSTOMER_TEMPLATE_ID"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		GoogleCalendarID:   getEnv("GOOGLE_CALENDAR_ID", "primary"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_HMAC_SECRET is required")
	}
	if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD_HASH are required")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error parsing environment variable %s as duration: %v", key, err)
		return defaultValue
	}
	return d
}
