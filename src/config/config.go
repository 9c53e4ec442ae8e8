package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// LN Markets API credentials
	LNMBaseURL    string
	LNMAPIKey     string
	LNMAPISecret  string
	LNMPassphrase string

	// Dashboard access
	DashboardSecret   string
	JWTSecret         string
	AccessTokenExpiry time.Duration

	// Display time zone for bucketing and date formatting
	Timezone string

	// Outbound HTTP client safety-net timeout (not a functional requirement)
	HTTPClientTimeout time.Duration

	// Frontend URL for reference (e.g., CORS)
	FrontendBaseURL string
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
// It centralizes all configuration logic for the application.
func LoadConfig() {
	// 1. Try loading from the current directory (standard behavior)
	errEnv := godotenv.Load()

	// 2. If not found, try loading from the parent directory (common when running from /backend)
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables (expected in production).")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	// --- Secrets ---
	apiKey := getRequiredEnv("LNM_API_KEY")
	apiSecret := getRequiredEnv("LNM_API_SECRET")
	passphrase := getRequiredEnv("LNM_PASSPHRASE")
	dashboardSecret := getRequiredEnv("SENHA_DASHBOARD")

	// The JWT signing key may be set independently; by default the session tokens
	// are signed with the dashboard secret itself (single-user deployment).
	jwtSecret := getEnv("JWT_SECRET", dashboardSecret)

	// --- Populate the Global Config Struct ---
	Cfg = &AppConfig{
		// Core
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./dashboard.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		// LN Markets
		LNMBaseURL:    getEnv("LNM_BASE_URL", "https://api.lnmarkets.com"),
		LNMAPIKey:     apiKey,
		LNMAPISecret:  apiSecret,
		LNMPassphrase: passphrase,

		// Dashboard access
		DashboardSecret:   dashboardSecret,
		JWTSecret:         jwtSecret,
		AccessTokenExpiry: getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 12*time.Hour),

		// Display
		Timezone: getEnv("DASHBOARD_TIMEZONE", "America/Sao_Paulo"),

		// Outbound HTTP
		HTTPClientTimeout: getEnvAsDuration("HTTP_CLIENT_TIMEOUT", 15*time.Second),

		// Frontend
		FrontendBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, Timezone=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.Timezone)
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getRequiredEnv retrieves an environment variable or terminates the application if not set.
func getRequiredEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set or is empty. Application cannot start securely.", key)
	}
	return value
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
