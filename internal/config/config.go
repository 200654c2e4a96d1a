package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env        string
	Port       string
	LogLevel   string
	SellerName string
	Store      StoreConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Gemini     GeminiConfig
	Auth       AuthConfig
	Kafka      KafkaConfig
	CORS       CORSConfig
}

// StoreConfig selects the snapshot backend
type StoreConfig struct {
	Backend string // postgres | redis | memory
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Quiet    bool
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// GeminiConfig holds settings for the order extraction oracle
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// AuthConfig holds operator credentials. An empty JWTSecret disables auth.
type AuthConfig struct {
	JWTSecret            string
	OperatorUsername     string
	OperatorPasswordHash string
	TokenTTL             time.Duration
}

// KafkaConfig holds event publishing settings. No brokers means no publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// CORSConfig lists allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Env:        getEnv("APP_ENV", "development"),
		Port:       getEnv("PORT", "3210"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		SellerName: getEnv("SELLER_NAME", "ZapStock"),
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", "postgres")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "zapstock"),
			Quiet:    getEnv("DB_QUIET", "true") == "true",
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Auth: AuthConfig{
			JWTSecret:            os.Getenv("JWT_SECRET"),
			OperatorUsername:     getEnv("OPERATOR_USERNAME", "admin"),
			OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "zapstock.events"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
	}

	var err error
	if cfg.Redis.DB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.Gemini.Timeout, err = time.ParseDuration(getEnv("GEMINI_TIMEOUT", "20s")); err != nil {
		return nil, fmt.Errorf("GEMINI_TIMEOUT: %w", err)
	}
	if cfg.Auth.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "12h")); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}

	switch cfg.Store.Backend {
	case "postgres", "redis", "memory":
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be postgres, redis or memory, got %q", cfg.Store.Backend)
	}

	if cfg.Auth.JWTSecret != "" && cfg.Auth.OperatorPasswordHash == "" {
		return nil, fmt.Errorf("OPERATOR_PASSWORD_HASH is required when JWT_SECRET is set")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// AuthEnabled reports whether /api requires a bearer token
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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
