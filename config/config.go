// Package config loads process configuration once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-this"

// Config holds application configuration. It is built once by Load and
// passed by reference to the components that need it.
type Config struct {
	Port           string
	Environment    string
	MaxUploadBytes int64

	Log      LogConfig
	DB       DBConfig
	Auth     AuthConfig
	CORS     CORSConfig
	NewRelic NewRelicConfig
	OCR      OCRConfig
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// DBConfig selects and configures the database dialect.
type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	CookieName   string
	CookieSecure bool
}

// CORSConfig lists the origins allowed to call the API.
type CORSConfig struct {
	AllowOrigins []string
}

// NewRelicConfig enables APM when a license key is present.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
}

// OCRConfig points the receipt scanner at a text-recognition endpoint.
type OCRConfig struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	environment := getEnvOrDefault("ENVIRONMENT", "development")

	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		Environment:    environment,
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		DB: DBConfig{
			Driver:   strings.ToLower(getEnvOrDefault("DB_DRIVER", "postgres")),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			Name:     getEnvOrDefault("DB_NAME", "splitbill"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
			Path:     getEnvOrDefault("DB_PATH", "./data/splitbill.db"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnvOrDefault("JWT_SECRET", defaultJWTSecret),
			TokenTTL:     getEnvDuration("AUTH_TOKEN_TTL", 7*24*time.Hour),
			CookieName:   "auth-token",
			CookieSecure: environment == "production" || getEnvBool("AUTH_COOKIE_SECURE", false),
		},
		CORS: CORSConfig{
			AllowOrigins: splitList(getEnvOrDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnvOrDefault("NEW_RELIC_APP_NAME", "SplitBill API"),
			LicenseKey: os.Getenv("NEW_RELIC_LICENSE_KEY"),
		},
		OCR: OCRConfig{
			APIURL:  getEnvOrDefault("OCR_API_URL", "https://api.anthropic.com/v1/messages"),
			APIKey:  os.Getenv("OCR_API_KEY"),
			Model:   getEnvOrDefault("OCR_MODEL", "claude-sonnet-4-20250514"),
			Timeout: getEnvDuration("OCR_TIMEOUT", 60*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.DB.Driver != "postgres" && c.DB.Driver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == defaultJWTSecret) {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnvOrDefault(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(getEnvOrDefault(key, ""), 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
