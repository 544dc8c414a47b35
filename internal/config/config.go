package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the gateway
type Config struct {
	Server    ServerConfig
	TradeAPI  TradeAPIConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Session   SessionConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host string
	Port string
	Env  string
}

// TradeAPIConfig holds the upstream trading API configuration
type TradeAPIConfig struct {
	BaseURL string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds gateway session token configuration
type JWTConfig struct {
	Secret      string
	TokenExpire time.Duration
}

// SessionConfig holds session store configuration
type SessionConfig struct {
	TTL time.Duration
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute     int
	AuthRequestsPerMinute int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		TradeAPI: TradeAPIConfig{
			BaseURL: getEnv("TRADE_API_URL", "http://localhost:8000"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", ""),
			TokenExpire: time.Duration(getEnvAsInt("JWT_TOKEN_EXPIRE_HOURS", 24)) * time.Hour,
		},
		Session: SessionConfig{
			TTL: time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}, ","),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute:     getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 120),
			AuthRequestsPerMinute: getEnvAsInt("RATE_LIMIT_AUTH_REQUESTS_PER_MINUTE", 5),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if !strings.HasPrefix(cfg.TradeAPI.BaseURL, "http://") && !strings.HasPrefix(cfg.TradeAPI.BaseURL, "https://") {
		return nil, fmt.Errorf("TRADE_API_URL must be an http(s) URL")
	}

	return cfg, nil
}

// Address returns the full server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsProduction returns true if running in production mode
func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string, separator string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, separator)
}
