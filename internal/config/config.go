package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Cache drivers
const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
	CacheDriverNone   = "none"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port          string   `yaml:"port" env:"SERVER_PORT"`
		Mode          string   `yaml:"mode" env:"SERVER_MODE"`
		StoragePath   string   `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		MaxUploadMB   int      `yaml:"max_upload_mb" env:"SERVER_MAX_UPLOAD_MB"`
		WriteTimeout  string   `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		MigrationsDir string   `yaml:"migrations_dir" env:"SERVER_MIGRATIONS_DIR"`
		CORSOrigins   []string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Cache struct {
		Driver        string `yaml:"driver" env:"CACHE_DRIVER"`
		TTL           string `yaml:"ttl" env:"CACHE_TTL"`
		Size          int    `yaml:"size" env:"CACHE_SIZE"`
		RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
		RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
		RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
	} `yaml:"cache"`

	Views struct {
		Workers   int    `yaml:"workers" env:"VIEWS_WORKERS"`
		QueueSize int    `yaml:"queue_size" env:"VIEWS_QUEUE_SIZE"`
		Timeout   string `yaml:"timeout" env:"VIEWS_TIMEOUT"`
	} `yaml:"views"`

	Reconcile struct {
		Enabled   bool   `yaml:"enabled" env:"RECONCILE_ENABLED"`
		Schedule  string `yaml:"schedule" env:"RECONCILE_SCHEDULE"`
		BatchSize int    `yaml:"batch_size" env:"RECONCILE_BATCH_SIZE"`
	} `yaml:"reconcile"`

	Seed struct {
		Enabled         bool   `yaml:"enabled" env:"SEED_ENABLED"`
		TeacherEmail    string `yaml:"teacher_email" env:"SEED_TEACHER_EMAIL"`
		TeacherPassword string `yaml:"teacher_password" env:"SEED_TEACHER_PASSWORD"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, a .env file and environment variables.
// Precedence: environment > .env > YAML file > defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.MaxUploadMB = 25
	config.Server.WriteTimeout = "5m"
	config.Server.MigrationsDir = "migrations"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "pastquestions"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "pastquestions.app"

	config.Cache.Driver = CacheDriverMemory
	config.Cache.TTL = "5m"
	config.Cache.Size = 256
	config.Cache.RedisAddr = "localhost:6379"

	config.Views.Workers = 4
	config.Views.QueueSize = 1024
	config.Views.Timeout = "10s"

	config.Reconcile.Enabled = true
	config.Reconcile.Schedule = "@every 15m"
	config.Reconcile.BatchSize = 50

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.Server.StoragePath == "" {
		return fmt.Errorf("storage path is required")
	}

	if config.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", config.Server.MaxUploadMB)
	}

	for name, value := range map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"cache ttl":                   config.Cache.TTL,
		"view timeout":                config.Views.Timeout,
		"server write timeout":        config.Server.WriteTimeout,
		"connection max lifetime":     config.Database.ConnMaxLifetime,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	switch strings.ToLower(config.Cache.Driver) {
	case CacheDriverRedis:
		if config.Cache.RedisAddr == "" {
			return fmt.Errorf("redis address is required for the redis cache driver")
		}
	case CacheDriverMemory, CacheDriverNone:
	default:
		return fmt.Errorf("unknown cache driver %q", config.Cache.Driver)
	}

	if config.Views.Workers <= 0 || config.Views.QueueSize <= 0 {
		return fmt.Errorf("view recorder needs at least one worker and a positive queue size")
	}

	if config.Reconcile.Enabled {
		if _, err := cron.ParseStandard(config.Reconcile.Schedule); err != nil {
			return fmt.Errorf("invalid reconcile schedule: %w", err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
