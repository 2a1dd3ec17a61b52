package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverREST     = "rest"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Database  DatabaseConfig
	Store     StoreConfig
	JWT       JWTConfig
	App       AppConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// StoreConfig selects the record store driver and configures the REST driver.
type StoreConfig struct {
	Driver  string
	BaseURL string
	Timeout time.Duration
	// PositionsCollection is "positions", or "position" for stores seeded with the singular path
	PositionsCollection string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Timezone    string
	FrontendURL string
}

type RateLimitConfig struct {
	LoginPerMinute int
}

// AdminConfig is the administrator account created at startup when none with
// that username exists. Registration only ever creates regular users.
type AdminConfig struct {
	Username string
	Password string
	Email    string
	FullName string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrm"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Record store configuration
	storeTimeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_TIMEOUT: %w", err)
	}

	config.Store = StoreConfig{
		Driver:  strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		BaseURL: strings.TrimRight(getEnv("STORE_BASE_URL", "http://localhost:3001"), "/"),
		Timeout: storeTimeout,

		PositionsCollection: getEnv("STORE_POSITIONS_COLLECTION", "positions"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "Asia/Ho_Chi_Minh"),
		FrontendURL: getEnv("APP_FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
	}

	loginLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_LOGIN", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LOGIN: %w", err)
	}
	config.RateLimit = RateLimitConfig{LoginPerMinute: loginLimit}

	config.Admin = AdminConfig{
		Username: getEnv("ADMIN_USERNAME", "admin"),
		Password: getEnv("ADMIN_PASSWORD", ""),
		Email:    getEnv("ADMIN_EMAIL", "admin@hrm.local"),
		FullName: getEnv("ADMIN_FULL_NAME", "Quản trị viên"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverREST:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("STORE_BASE_URL is required")
		}
		if c.Store.PositionsCollection != "positions" && c.Store.PositionsCollection != "position" {
			return fmt.Errorf("STORE_POSITIONS_COLLECTION must be positions or position")
		}
	case StoreDriverMemory:
		// An empty store has no way to reach the admin routes otherwise
		if c.Admin.Password == "" {
			return fmt.Errorf("ADMIN_PASSWORD is required for the memory driver")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.RateLimit.LoginPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_LOGIN must be positive")
	}
	return nil
}

// Location returns the timezone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
