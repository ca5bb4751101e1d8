package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Timestamp representations supported by the storage layer.
const (
	TimestampFormatEpoch    = "epoch"
	TimestampFormatCalendar = "calendar"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Places   PlacesConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	Environment    string
	LogLevel       string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	AcquireAttempts   int
	AcquireRetryDelay time.Duration
	AcquireTimeout    time.Duration

	TimestampFormat string
	AutoMigrate     bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

// PlacesConfig holds Google Places API configuration
type PlacesConfig struct {
	NearbySearchURL string
	PhotoURL        string
	DetailsURL      string
	APIKey          string
	Timeout         time.Duration
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 3000),
			Environment:    getEnv("ENVIRONMENT", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: getEnvAsList("ORIGIN_URLS", []string{"*"}),
		},
		Database: DatabaseConfig{
			URL:      getEnv("POSTGRES_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "eat_where_la"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 2*runtime.NumCPU()),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", runtime.NumCPU()),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

			AcquireAttempts:   getEnvAsInt("DB_ACQUIRE_ATTEMPTS", 5),
			AcquireRetryDelay: getEnvAsDuration("DB_ACQUIRE_RETRY_DELAY", 3*time.Second),
			AcquireTimeout:    getEnvAsDuration("DB_ACQUIRE_TIMEOUT", 15*time.Second),

			TimestampFormat: strings.ToLower(getEnv("DB_TIMESTAMP_FORMAT", TimestampFormatEpoch)),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Enabled:     getEnvAsBool("REDIS_ENABLED", true),
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnvAsInt("REDIS_PORT", 6379),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			KeyPrefix:   getEnv("REDIS_KEY_PREFIX", "eatwherela:"),
			DialTimeout: getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		},
		Places: PlacesConfig{
			NearbySearchURL: getEnv("GOOGLE_MAPS_API_URL", "https://maps.googleapis.com/maps/api/place/nearbysearch/json"),
			PhotoURL:        getEnv("GOOGLE_PLACES_PHOTO_URL", "https://maps.googleapis.com/maps/api/place/photo"),
			DetailsURL:      getEnv("GOOGLE_PLACES_DETAILS_URL", "https://maps.googleapis.com/maps/api/place/details/json"),
			APIKey:          getEnv("GOOGLE_API_KEY", ""),
			Timeout:         getEnvAsDuration("GOOGLE_API_TIMEOUT", 8*time.Second),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "eat-where-la"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.TimestampFormat {
	case TimestampFormatEpoch, TimestampFormatCalendar:
	default:
		return fmt.Errorf("DB_TIMESTAMP_FORMAT must be %q or %q, got %q",
			TimestampFormatEpoch, TimestampFormatCalendar, c.Database.TimestampFormat)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.Database.AcquireAttempts <= 0 {
		return fmt.Errorf("DB_ACQUIRE_ATTEMPTS must be positive")
	}
	return nil
}

// WriteTimeout bounds a whole HTTP response. It leaves room for a full
// connection acquisition followed by a places API call, so a POOL_EXHAUSTED
// or upstream error still reaches the client.
func (c *Config) WriteTimeout() time.Duration {
	return c.Database.AcquireTimeout + c.Places.Timeout + 5*time.Second
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
