package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full service configuration. Both binaries load the
// same structure; each only reads the sections it needs.
type Config struct {
	Server         ServerConfig         `json:"server"`
	Database       DatabaseConfig       `json:"database"`
	JWT            JWTConfig            `json:"jwt"`
	Cache          CacheConfig          `json:"cache"`
	CommentService CommentServiceConfig `json:"commentService"`
	PrimaryService PrimaryServiceConfig `json:"primaryService"`
	Health         HealthConfig         `json:"health"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	WebDomain string `json:"webDomain"`
	Debug     bool   `json:"debug"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Postgres PostgreSQLConfig `json:"postgres"`
}

// PostgreSQLConfig holds PostgreSQL-specific configuration
type PostgreSQLConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	Database        string        `json:"database"`
	SSLMode         string        `json:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
	ConnectTimeout  int           `json:"connectTimeout"`
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret string `json:"secret"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Enabled bool          `json:"enabled"`
	Prefix  string        `json:"prefix"`
	TTL     time.Duration `json:"ttl"`
	Redis   RedisConfig   `json:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	Database int    `json:"database"`
	PoolSize int    `json:"poolSize"`
}

// Comment service call modes. "http" forwards over the network; "direct"
// runs the comment service in the primary binary and calls it in-process.
const (
	CommentModeHTTP   = "http"
	CommentModeDirect = "direct"
)

// CommentServiceConfig points the primary service at the comment service.
type CommentServiceConfig struct {
	Mode           string        `json:"mode"`
	BaseURL        string        `json:"baseUrl"`
	RequestTimeout time.Duration `json:"requestTimeout"`
}

// PrimaryServiceConfig points the comment service back at the primary
// service for best-effort stats propagation.
type PrimaryServiceConfig struct {
	BaseURL        string        `json:"baseUrl"`
	RequestTimeout time.Duration `json:"requestTimeout"`
}

// HealthConfig controls the dependency health probe loop.
type HealthConfig struct {
	ProbeInterval time.Duration `json:"probeInterval"`
	ProbeTimeout  time.Duration `json:"probeTimeout"`
}

// LoadFromEnv loads configuration from environment variables. A .env file is
// honored when present but never required.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "0.0.0.0"),
			Port:      getEnvInt("SERVER_PORT", 3000),
			WebDomain: getEnv("WEB_DOMAIN", "*"),
			Debug:     getEnvBool("SERVER_DEBUG", false),
		},
		Database: DatabaseConfig{
			Postgres: PostgreSQLConfig{
				Host:            getEnv("DB_HOST", "localhost"),
				Port:            getEnvInt("DB_PORT", 5432),
				Username:        getEnv("DB_USER", "postgres"),
				Password:        getEnv("DB_PASSWORD", "postgres"),
				Database:        getEnv("DB_NAME", ""),
				SSLMode:         getEnv("DB_SSLMODE", "disable"),
				MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
				ConnectTimeout:  getEnvInt("DB_CONNECT_TIMEOUT", 10),
			},
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Cache: CacheConfig{
			Enabled: getEnvBool("CACHE_ENABLED", false),
			Prefix:  getEnv("CACHE_PREFIX", "vidora"),
			TTL:     getEnvDuration("CACHE_TTL", time.Hour),
			Redis: RedisConfig{
				Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				Database: getEnvInt("REDIS_DB", 0),
				PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
			},
		},
		CommentService: CommentServiceConfig{
			Mode:           getEnv("COMMENT_SERVICE_MODE", CommentModeHTTP),
			BaseURL:        getEnv("COMMENT_SERVICE_URL", "http://127.0.0.1:3001"),
			RequestTimeout: getEnvDuration("COMMENT_SERVICE_TIMEOUT", 5*time.Second),
		},
		PrimaryService: PrimaryServiceConfig{
			BaseURL:        getEnv("PRIMARY_SERVICE_URL", "http://127.0.0.1:3000"),
			RequestTimeout: getEnvDuration("PRIMARY_SERVICE_TIMEOUT", 5*time.Second),
		},
		Health: HealthConfig{
			ProbeInterval: getEnvDuration("HEALTH_PROBE_INTERVAL", 30*time.Second),
			ProbeTimeout:  getEnvDuration("HEALTH_PROBE_TIMEOUT", 2*time.Second),
		},
	}

	if cfg.Database.Postgres.Database == "" {
		return nil, fmt.Errorf("database name is required (set DB_NAME)")
	}

	switch cfg.CommentService.Mode {
	case CommentModeHTTP, CommentModeDirect:
	default:
		return nil, fmt.Errorf("unknown comment service mode %q", cfg.CommentService.Mode)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as int or returns a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvBool gets an environment variable as bool or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration gets an environment variable as duration or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
