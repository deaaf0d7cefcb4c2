package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	Env   string
	Debug bool

	Database DatabaseConfig
	Cache    CacheConfig

	JWTSecret     string
	JWTExpiration time.Duration

	FrontendURL string
	AdminToken  string

	RateLimitPerMinute int
	RateLimitBurst     int

	StatsInterval time.Duration

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// DatabaseConfig selects the gorm dialector. Driver is one of "mysql", "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver string
	URL    string
}

// CacheConfig selects the cache store. Driver is "redis" or "memory".
type CacheConfig struct {
	Driver        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
	MemorySize    int
}

// DefaultJWTSecret is only meant for local development.
const DefaultJWTSecret = "your-secret-key"

func Load() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	return &Config{
		Port:  getEnv("PORT", "3000"),
		Env:   env,
		Debug: getEnvBool("DEBUG", env == "development"),

		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			URL:    getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/board?charset=utf8mb4&parseTime=True&loc=Local"),
		},
		Cache: CacheConfig{
			Driver:        strings.ToLower(getEnv("CACHE_DRIVER", "redis")),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			TTL:           getEnvDuration("CACHE_TTL", 60*time.Second),
			MemorySize:    getEnvInt("CACHE_MEMORY_SIZE", 1024),
		},

		JWTSecret:     getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiration: getEnvDuration("JWT_EXPIRATION", 24*time.Hour),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 10),

		StatsInterval: getEnvDuration("STATS_INTERVAL", 5*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 2525),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@board.local"),
		FromName:     getEnv("FROM_NAME", "Board"),
	}
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds ("60").
// Zero and negative values fall back to the default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		secs, convErr := strconv.Atoi(value)
		if convErr != nil {
			return defaultValue
		}
		d = time.Duration(secs) * time.Second
	}
	if d <= 0 {
		return defaultValue
	}
	return d
}
