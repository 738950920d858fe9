package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode     string
	Port        string
	LogLevel    string
	Currency    string
	Database    DatabaseConfig
	Redis       RedisConfig
	Reservation ReservationConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig holds the result cache configuration. An empty Addr disables
// caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// ReservationConfig holds the reservation window and expiry schedule.
type ReservationConfig struct {
	Window   time.Duration
	CronSpec string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Ignore a missing .env in production; environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	cfg := &Config{
		AppMode:     appMode,
		Port:        getEnv("PORT", "3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Currency:    getEnv("DEFAULT_CURRENCY", "PHP"),
		Database:    loadDatabaseConfig(appMode),
		Redis:       loadRedisConfig(),
		Reservation: loadReservationConfig(),
	}
	return cfg, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "mortgage_qualify"),
	}
}

func loadRedisConfig() RedisConfig {
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttlMinutes, _ := strconv.Atoi(getEnv("RESULT_CACHE_TTL_MINUTES", "1440"))

	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
		CacheTTL: time.Duration(ttlMinutes) * time.Minute,
	}
}

func loadReservationConfig() ReservationConfig {
	windowHours, _ := strconv.Atoi(getEnv("RESERVATION_WINDOW_HOURS", "72"))
	if windowHours < 1 {
		windowHours = 72
	}

	return ReservationConfig{
		Window:   time.Duration(windowHours) * time.Hour,
		CronSpec: getEnv("RESERVATION_EXPIRY_CRON", "*/10 * * * *"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" && c.IsDev() {
		return "*"
	}
	return origins
}
