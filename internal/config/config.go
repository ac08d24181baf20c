package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv                 string
	LogLevel               slog.Level
	ApiServicePort         string
	PostgreSQLHost         string
	PostgreSQLPort         int64
	PostgreSQLUser         string
	PostgreSQLPassword     string
	PostgreSQLDatabase     string
	JWTSecret              string
	AccessTokenExpiration  int64
	RefreshTokenExpiration int64
	AuthRequired           bool
	RedisHost              string
	RedisPort              int64
	RedisPassword          string
	RedisDB                int64
	RateLimitPerMinute     int64
	CORSAllowedOrigins     []string
	SentryDSN              string
	TokenCleanupInterval   int64 // Seconds between expired refresh token purges
	ShutdownTimeout        int64 // Seconds to wait for in-flight work on shutdown
}

func LoadConfig() *Config {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	fileValues := loadConfigFile(os.Getenv("CONFIG_FILE"))

	return &Config{
		AppEnv:                 getEnv(fileValues, "APP_ENV", "development"),                    // Default development
		LogLevel:               getLogLevel(fileValues),                                         // Default INFO
		ApiServicePort:         getEnv(fileValues, "API_SERVICE_PORT", "8080"),                  // Default 8080
		PostgreSQLHost:         getEnv(fileValues, "POSTGRESQL_HOST", "db"),                     // Default db
		PostgreSQLPort:         getEnvAsInt64(fileValues, "POSTGRESQL_PORT", 5432),              // Default 5432
		PostgreSQLUser:         getEnv(fileValues, "POSTGRESQL_USER", "inventory_user"),         // Default user
		PostgreSQLPassword:     getEnv(fileValues, "POSTGRESQL_PASSWORD", "inventory_password"), // Default password
		PostgreSQLDatabase:     getEnv(fileValues, "POSTGRESQL_DATABASE", "inventory_db"),       // Default database name
		JWTSecret:              getEnv(fileValues, "JWT_SECRET", "inventory_secret"),            // Default secret key
		AccessTokenExpiration:  getEnvAsInt64(fileValues, "ACCESS_TOKEN_EXPIRATION", 900),       // Default 15 minutes
		RefreshTokenExpiration: getEnvAsInt64(fileValues, "REFRESH_TOKEN_EXPIRATION", 604800),   // Default 7 days
		AuthRequired:           getEnvAsBool(fileValues, "AUTH_REQUIRED", true),                 // Default enabled
		RedisHost:              getEnv(fileValues, "REDIS_HOST", "redis"),                       // Default redis
		RedisPort:              getEnvAsInt64(fileValues, "REDIS_PORT", 6379),                   // Default 6379
		RedisPassword:          getEnv(fileValues, "REDIS_PASSWORD", ""),                        // Default empty
		RedisDB:                getEnvAsInt64(fileValues, "REDIS_DATABASE", 0),                  // Default 0
		RateLimitPerMinute:     getEnvAsInt64(fileValues, "RATE_LIMIT_PER_MINUTE", 120),         // Default 120, 0 disables
		CORSAllowedOrigins:     getEnvAsList(fileValues, "CORS_ALLOWED_ORIGINS", []string{"*"}), // Default any origin
		SentryDSN:              getEnv(fileValues, "SENTRY_DSN", ""),                            // Default disabled
		TokenCleanupInterval:   getEnvAsInt64(fileValues, "TOKEN_CLEANUP_INTERVAL", 3600),       // Default 1 hour
		ShutdownTimeout:        getEnvAsInt64(fileValues, "SHUTDOWN_TIMEOUT", 10),               // Default 10 seconds
	}
}

// DSN returns the PostgreSQL connection string for the configured database.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		c.PostgreSQLHost,
		c.PostgreSQLUser,
		c.PostgreSQLPassword,
		c.PostgreSQLDatabase,
		c.PostgreSQLPort,
	)
}

// RedisAddr returns host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func loadConfigFile(path string) map[string]string {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("⚠️ [Config] Failed to read config file, using environment only", "path", path, "error", err)
		return nil
	}

	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		slog.Warn("⚠️ [Config] Failed to parse config file, using environment only", "path", path, "error", err)
		return nil
	}

	return values
}

// lookup reads a key from the environment, then from the KEY: value pairs of
// the optional CONFIG_FILE.
func lookup(fileValues map[string]string, key string) (string, bool) {
	if value, exists := os.LookupEnv(key); exists {
		return value, true
	}
	if value, exists := fileValues[key]; exists {
		return value, true
	}
	return "", false
}

func getEnv(fileValues map[string]string, key, fallback string) string {
	if value, exists := lookup(fileValues, key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(fileValues map[string]string, key string, fallback int64) int64 {
	if valueStr, exists := lookup(fileValues, key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsBool(fileValues map[string]string, key string, fallback bool) bool {
	if valueStr, exists := lookup(fileValues, key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsList(fileValues map[string]string, key string, fallback []string) []string {
	valueStr, exists := lookup(fileValues, key)
	if !exists {
		return fallback
	}

	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}

func getLogLevel(fileValues map[string]string) slog.Level {
	levelStr := getEnv(fileValues, "LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
