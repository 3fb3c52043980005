package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gridwatch/backend/pkg/phemex"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Encryption EncryptionConfig
	Phemex     PhemexConfig
	Fleet      FleetConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host string
	Port string
	Env  string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret             string
	AccessTokenExpire  time.Duration
	RefreshTokenExpire time.Duration
}

// EncryptionConfig holds the key sealing stored exchange credentials
type EncryptionConfig struct {
	Key string
}

// PhemexConfig holds exchange transport configuration
type PhemexConfig struct {
	APIURL         string
	RequestTimeout time.Duration
	RatePerSecond  float64
	RateBurst      int
	MaxRetries     int
	RetryBackoff   time.Duration
}

// FleetConfig tunes fleet reconstruction
type FleetConfig struct {
	MaxConcurrency    int // 0 means unbounded
	DemoSeed          int64
	StreamMinInterval time.Duration
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
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "gridwatch"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", ""),
			AccessTokenExpire:  time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 15)) * time.Minute,
			RefreshTokenExpire: time.Duration(getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRE_DAYS", 7)) * 24 * time.Hour,
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		Phemex: LoadPhemex(),
		Fleet: FleetConfig{
			MaxConcurrency:    getEnvAsInt("FLEET_MAX_CONCURRENCY", 0),
			DemoSeed:          int64(getEnvAsInt("FLEET_DEMO_SEED", 42)),
			StreamMinInterval: getEnvAsDuration("FLEET_STREAM_MIN_INTERVAL", 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}, ","),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute:     getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
			AuthRequestsPerMinute: getEnvAsInt("RATE_LIMIT_AUTH_REQUESTS_PER_MINUTE", 5),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.Encryption.Key == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}

	if len(cfg.Encryption.Key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes")
	}

	return cfg, nil
}

// LoadPhemex reads only the exchange settings, for tools that need no secrets
func LoadPhemex() PhemexConfig {
	return PhemexConfig{
		APIURL:         getEnv("PHEMEX_API_URL", "https://api.phemex.com"),
		RequestTimeout: getEnvAsDuration("PHEMEX_REQUEST_TIMEOUT", 15*time.Second),
		RatePerSecond:  getEnvAsFloat("PHEMEX_RATE_LIMIT_PER_SEC", 10),
		RateBurst:      getEnvAsInt("PHEMEX_RATE_LIMIT_BURST", 5),
		MaxRetries:     getEnvAsInt("PHEMEX_MAX_RETRIES", 0),
		RetryBackoff:   getEnvAsDuration("PHEMEX_RETRY_BACKOFF", 500*time.Millisecond),
	}
}

// ClientConfig converts the settings for phemex.NewClient
func (c PhemexConfig) ClientConfig() phemex.Config {
	return phemex.Config{
		BaseURL:        c.APIURL,
		RequestTimeout: c.RequestTimeout,
		RatePerSecond:  c.RatePerSecond,
		RateBurst:      c.RateBurst,
		MaxRetries:     c.MaxRetries,
		RetryBackoff:   c.RetryBackoff,
	}
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("15s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string, separator string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, separator)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
