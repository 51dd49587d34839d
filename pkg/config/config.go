package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Storage      StorageConfig      `yaml:"storage"`
	Redis        RedisConfig        `yaml:"redis"`
	MySQL        MySQLConfig        `yaml:"mysql"`
	Queue        QueueConfig        `yaml:"queue"`
	Notification NotificationConfig `yaml:"notification"`
	Logger       LoggerConfig       `yaml:"logger"`
	Jobs         JobsConfig         `yaml:"jobs"`
	Engine       EngineConfig       `yaml:"engine"`
	Demo         DemoConfig         `yaml:"demo"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Port   int    `yaml:"port" validate:"omitempty,min=1,max=65535"`
	Mode   string `yaml:"mode" validate:"omitempty,oneof=debug release test"`
	APIKey string `yaml:"api_key"` // if empty, auth is disabled
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver string `yaml:"driver" validate:"omitempty,oneof=mysql memory"`
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"min=0"`
}

// MySQLConfig MySQL configuration
type MySQLConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port" validate:"omitempty,min=1,max=65535"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// DSN builds the go-sql-driver connection string
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// QueueConfig event queue configuration
type QueueConfig struct {
	Enabled     bool `yaml:"enabled"`
	Concurrency int  `yaml:"concurrency"` // queue processing concurrency
	MaxRetry    int  `yaml:"max_retry"`   // maximum retry count
}

// NotificationConfig outbound webhook for accountability events
type NotificationConfig struct {
	WebhookURL string        `yaml:"webhook_url" validate:"omitempty,url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LoggerConfig logger configuration
type LoggerConfig struct {
	Level  string           `yaml:"level"`  // debug, info, warn, error
	Output string           `yaml:"output"` // console, file, both
	File   LoggerFileConfig `yaml:"file"`
}

// LoggerFileConfig logger file configuration
type LoggerFileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// JobsConfig background job configuration
type JobsConfig struct {
	ReliabilityRescanInterval time.Duration `yaml:"reliability_rescan_interval"`
}

// EngineConfig tunables for matching and replacement
type EngineConfig struct {
	MaxSuggestions       int `yaml:"max_suggestions"`
	MaxWorkersPerRequest int `yaml:"max_workers_per_request"`
	CancelRetryAttempts  int `yaml:"cancel_retry_attempts"`
}

// DemoConfig demo bootstrap
type DemoConfig struct {
	SeedOnStart bool `yaml:"seed_on_start"`
}

// Defaults
const (
	DefaultPort                      = 8080
	DefaultMode                      = "release"
	DefaultStorageDriver             = "mysql"
	DefaultQueueConcurrency          = 5
	DefaultQueueMaxRetry             = 3
	DefaultNotificationTimeout       = 10 * time.Second
	DefaultLogPath                   = "logs/labourhub.log"
	DefaultLogMaxSizeMB              = 100
	DefaultLogMaxBackups             = 7
	DefaultLogMaxAgeDays             = 30
	DefaultReliabilityRescanInterval = 10 * time.Minute
	DefaultMaxSuggestions            = 5
	DefaultMaxWorkersPerRequest      = 50
	DefaultCancelRetryAttempts       = 3
)

// Init initializes configuration
func Init() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		return err
	}

	GlobalConfig = cfg
	return nil
}

// Load reads, validates and defaults the configuration at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	validateAndApplyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	validateAndApplyDefaults(cfg)
	return cfg
}

// validateAndApplyDefaults replaces zero or out-of-range values with defaults
func validateAndApplyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultMode
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultStorageDriver
	}
	if cfg.Queue.Concurrency <= 0 {
		cfg.Queue.Concurrency = DefaultQueueConcurrency
	}
	if cfg.Queue.MaxRetry < 0 {
		cfg.Queue.MaxRetry = DefaultQueueMaxRetry
	}
	if cfg.Notification.Timeout <= 0 {
		cfg.Notification.Timeout = DefaultNotificationTimeout
	}
	if cfg.Logger.File.Path == "" {
		cfg.Logger.File.Path = DefaultLogPath
	}
	if cfg.Logger.File.MaxSizeMB <= 0 {
		cfg.Logger.File.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if cfg.Logger.File.MaxBackups <= 0 {
		cfg.Logger.File.MaxBackups = DefaultLogMaxBackups
	}
	if cfg.Logger.File.MaxAgeDays <= 0 {
		cfg.Logger.File.MaxAgeDays = DefaultLogMaxAgeDays
	}
	if cfg.Jobs.ReliabilityRescanInterval <= 0 {
		cfg.Jobs.ReliabilityRescanInterval = DefaultReliabilityRescanInterval
	}
	if cfg.Engine.MaxSuggestions <= 0 {
		cfg.Engine.MaxSuggestions = DefaultMaxSuggestions
	}
	if cfg.Engine.MaxWorkersPerRequest <= 0 {
		cfg.Engine.MaxWorkersPerRequest = DefaultMaxWorkersPerRequest
	}
	if cfg.Engine.CancelRetryAttempts <= 0 {
		cfg.Engine.CancelRetryAttempts = DefaultCancelRetryAttempts
	}
}
