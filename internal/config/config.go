// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server
	Database Database
	Redis    Redis

	LogLevel         string
	MetricsNamespace string

	// StartDate seeds the simulated clock the first time the schema is
	// created. Empty means "today".
	StartDate string
}

// Server holds HTTP listener settings.
type Server struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Database holds PostgreSQL connection settings.
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxConns int32
	MinConns int32

	// StatementTimeout and IdleInTxTimeout are enforced by Postgres. A
	// transaction hitting either is rolled back by the server.
	StatementTimeout time.Duration
	IdleInTxTimeout  time.Duration
}

// Redis holds settings for the optional room listing cache.
// Caching is disabled when Addr is empty.
type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// LoadConfig reads a .env file when present and then the process
// environment, falling back to local-development defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: Server{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		},
		Database: Database{
			Host:             getEnv("DB_HOST", "localhost"),
			Port:             getEnv("DB_PORT", "5432"),
			User:             getEnv("DB_USER", "postgres"),
			Password:         getEnv("DB_PASSWORD", "postgres"),
			DBName:           getEnv("DB_NAME", "hotel"),
			SSLMode:          getEnv("DB_SSLMODE", "disable"),
			MaxConns:         int32(getEnvAsInt("DB_MAX_CONNS", 20)),
			MinConns:         int32(getEnvAsInt("DB_MIN_CONNS", 2)),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 30*time.Second),
			IdleInTxTimeout:  getEnvAsDuration("DB_IDLE_IN_TX_TIMEOUT", 60*time.Second),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("ROOM_CACHE_TTL", 30*time.Second),
		},
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "hotel"),
		StartDate:        getEnv("HOTEL_START_DATE", ""),
	}

	if cfg.Database.MaxConns < cfg.Database.MinConns {
		return nil, fmt.Errorf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			cfg.Database.MaxConns, cfg.Database.MinConns)
	}
	if cfg.Redis.TTL <= 0 {
		return nil, fmt.Errorf("ROOM_CACHE_TTL must be positive")
	}

	return cfg, nil
}

// DSN builds a libpq-compatible connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RuntimeParams returns the session parameters applied to every pooled
// connection.
func (d Database) RuntimeParams() map[string]string {
	return map[string]string{
		"statement_timeout":                   strconv.FormatInt(d.StatementTimeout.Milliseconds(), 10),
		"idle_in_transaction_session_timeout": strconv.FormatInt(d.IdleInTxTimeout.Milliseconds(), 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("30s") or a bare number of
// seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
