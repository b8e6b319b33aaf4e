package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
	CacheBackendSQLite   = "sqlite"
	CacheBackendMemory   = "memory"
)

type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	ESI       ESIConfig
	Sync      SyncConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"88"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type CacheConfig struct {
	Backend string `env:"CACHE_BACKEND" envDefault:"redis"`
}

type RedisConfig struct {
	URL      string `env:"REDIS_URL"`
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name            string        `env:"DB_NAME" envDefault:"system_info"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"system_info.db"`
}

type ESIConfig struct {
	BaseURL   string        `env:"ESI_BASE_URL" envDefault:"https://esi.evetech.net/latest"`
	Timeout   time.Duration `env:"ESI_TIMEOUT" envDefault:"30s"`
	UserAgent string        `env:"ESI_USER_AGENT" envDefault:"esi-server"`
}

type SyncConfig struct {
	Enabled       bool          `env:"SYNC_ENABLED" envDefault:"true"`
	Interval      time.Duration `env:"SYNC_INTERVAL" envDefault:"216s"`
	RetryAttempts int           `env:"SYNC_RETRY_ATTEMPTS" envDefault:"10"`
	RetryDelay    time.Duration `env:"SYNC_RETRY_DELAY" envDefault:"10s"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type FrontendConfig struct {
	URL       string `env:"FRONTEND_URL" envDefault:"*"`
	CORSDebug bool   `env:"CORS_DEBUG" envDefault:"false"`
}

type LoggingConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"debug"`
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RequestsPerSecond float64 `env:"RATE_LIMIT_REQUESTS_PER_SECOND" envDefault:"10"`
	BurstSize         int     `env:"RATE_LIMIT_BURST_SIZE" envDefault:"20"`
	TrustProxy        bool    `env:"RATE_LIMIT_TRUST_PROXY" envDefault:"false"`
}

type TelemetryConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string `env:"OTEL_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"esi-server"`
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func load() (*Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	config.Logging.JSONFormat = config.Server.Environment == "production"

	return &config, nil
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Cache.Backend {
	case CacheBackendRedis, CacheBackendMemory:
	case CacheBackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case CacheBackendSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}

	if c.ESI.BaseURL == "" {
		return fmt.Errorf("ESI_BASE_URL is required")
	}

	if c.Sync.Interval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be positive")
	}

	if c.Sync.RetryAttempts < 1 {
		return fmt.Errorf("SYNC_RETRY_ATTEMPTS must be at least 1")
	}

	if c.Sync.RetryDelay < 0 {
		return fmt.Errorf("SYNC_RETRY_DELAY must not be negative")
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	return nil
}

// AdminEnabled reports whether admin endpoints can validate tokens.
func (c *Config) AdminEnabled() bool {
	return c.Auth.JWTSecret != ""
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
