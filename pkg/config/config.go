package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string        `split_words:"true" default:"localhost"`
	Port            string        `split_words:"true" default:"5432"`
	User            string        `split_words:"true" default:"postgres"`
	Password        string        `split_words:"true" default:"password"`
	Name            string        `split_words:"true" default:"directory"`
	SSLMode         string        `split_words:"true" default:"disable"`
	MaxIdleConns    int           `split_words:"true" default:"10"`
	MaxOpenConns    int           `split_words:"true" default:"100"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"1h"`
	LogLevel        string        `split_words:"true" default:"warn"`
	AutoMigrate     bool          `split_words:"true" default:"false"`
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GetURL returns the connection string in URL form, as expected by the migration runner
func (c *DBConfig) GetURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// GormLogLevel maps the configured level name onto gorm's logger levels
func (c *DBConfig) GormLogLevel() logger.LogLevel {
	switch c.LogLevel {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `split_words:"true" default:"8080"`
	Env             string        `envconfig:"APP_ENV" default:"development"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	SigningKey string        `split_words:"true"`
	Issuer     string        `split_words:"true" default:"directory-service"`
	AccessTTL  time.Duration `split_words:"true" default:"15m"`
	RefreshTTL time.Duration `split_words:"true" default:"168h"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `split_words:"true" default:"info"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Path string `split_words:"true" default:"/metrics"`
}

// RedisConfig holds the refresh-token revocation store configuration.
// An empty URL disables revocation.
type RedisConfig struct {
	URL string `split_words:"true"`
}

// TracingConfig holds OpenTelemetry exporter configuration.
// An empty endpoint disables tracing.
type TracingConfig struct {
	Endpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Config holds all configuration
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"directory-service"`
	DB          DBConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Redis       RedisConfig
	Tracing     TracingConfig
}

// Load loads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks settings that have no safe default
func (c *Config) Validate() error {
	if c.JWT.SigningKey == "" {
		if c.IsProduction() {
			return errors.New("JWT_SIGNING_KEY is mandatory in production")
		}
		c.JWT.SigningKey = "development-signing-key"
	}

	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}

	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		return errors.New("refresh token lifetime must exceed access token lifetime")
	}

	return nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_host", c.DB.Host),
		zap.String("db_port", c.DB.Port),
		zap.String("db_user", c.DB.User),
		zap.String("db_name", c.DB.Name),
		zap.String("server_port", c.Server.Port),
		zap.Duration("access_ttl", c.JWT.AccessTTL),
		zap.Duration("refresh_ttl", c.JWT.RefreshTTL),
		zap.Bool("revocation_enabled", c.Redis.URL != ""),
		zap.Bool("tracing_enabled", c.Tracing.Endpoint != ""),
	}
}
