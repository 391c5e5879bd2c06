package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"wishbot/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	App           AppConfig          `yaml:"app"`
	Telegram      TelegramConfig     `yaml:"telegram"`
	Database      DatabaseConfig     `yaml:"database"`
	Redis         RedisConfig        `yaml:"redis"`
	Access        AccessConfig       `yaml:"access"`
	Notifications NotificationConfig `yaml:"notifications"`
	Limits        LimitsConfig       `yaml:"limits"`
	Backup        BackupConfig       `yaml:"backup"`
	Logging       LoggingConfig      `yaml:"logging"`
	API           APIConfig          `yaml:"api"`
	Exports       ExportConfig       `yaml:"exports"`
	Bot           BotConfig          `yaml:"bot"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver" validate:"oneof=sqlite3 postgres"`
	Path         string `yaml:"path"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns" validate:"gte=0"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// AccessConfig controls share codes and the code-guessing limiter.
type AccessConfig struct {
	CodeLength            int `yaml:"code_length" validate:"gte=6,lte=32"`
	MaxAttempts           int `yaml:"max_attempts" validate:"gte=1"`
	BlockSeconds          int `yaml:"block_seconds" validate:"gte=1"`
	AttemptWindowSeconds  int `yaml:"attempt_window_seconds" validate:"gte=1"`
	MaxGenerationAttempts int `yaml:"max_generation_attempts" validate:"gte=1"`
}

func (c AccessConfig) BlockDuration() time.Duration {
	return time.Duration(c.BlockSeconds) * time.Second
}

func (c AccessConfig) AttemptWindow() time.Duration {
	return time.Duration(c.AttemptWindowSeconds) * time.Second
}

type NotificationConfig struct {
	Disabled           bool          `yaml:"disabled"`
	DaysBefore         []int         `yaml:"days_before" validate:"dive,gte=0"`
	CategoryDaysBefore int           `yaml:"category_days_before" validate:"gte=0"`
	Interval           time.Duration `yaml:"interval"`
	RetryInterval      time.Duration `yaml:"retry_interval"`
	Timezone           string        `yaml:"timezone"`
	SendRPS            float64       `yaml:"send_rps" validate:"gt=0"`
	SendRetries        int           `yaml:"send_retries" validate:"gte=0"`
	LeaseTTL           time.Duration `yaml:"lease_ttl"`
}

// Location resolves the configured timezone, falling back to UTC.
func (c NotificationConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type LimitsConfig struct {
	MaxItemsPerUser      int   `yaml:"max_items_per_user" validate:"gte=1"`
	MaxCategoriesPerUser int   `yaml:"max_categories_per_user" validate:"gte=1"`
	MaxPhotoBytes        int64 `yaml:"max_photo_bytes" validate:"gte=0"`
}

type BackupConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Interval      time.Duration `yaml:"interval"`
	RetentionDays int           `yaml:"retention_days"`
	StoragePath   string        `yaml:"storage_path"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	Port      int                `yaml:"port" validate:"gte=0,lte=65535"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys" validate:"dive"`
}

type APIClientKey struct {
	Key         string   `yaml:"key" validate:"required"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type BotConfig struct {
	PaginationSize    int `yaml:"pagination_size"`
	RateLimitMessages int `yaml:"rate_limit_messages"`
	RateLimitWindow   int `yaml:"rate_limit_window"`
}

func Load(configPath string) (*Config, error) {
	// Загружаем .env файл если существует
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database path is required")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database dsn is required for postgres")
		}
	}

	if c.API.Enabled && c.API.Auth.Enabled && len(c.API.Auth.APIKeys) == 0 {
		return errors.New("api auth is enabled but no api keys are configured")
	}

	if _, err := time.LoadLocation(c.Notifications.Timezone); err != nil {
		return fmt.Errorf("invalid notifications timezone %q: %w", c.Notifications.Timezone, err)
	}

	return validate.Struct(c)
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "wishbot"
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}

	if c.Access.CodeLength == 0 {
		c.Access.CodeLength = 10
	}
	if c.Access.MaxAttempts == 0 {
		c.Access.MaxAttempts = 5
	}
	if c.Access.BlockSeconds == 0 {
		c.Access.BlockSeconds = 900
	}
	if c.Access.AttemptWindowSeconds == 0 {
		c.Access.AttemptWindowSeconds = c.Access.BlockSeconds
	}
	if c.Access.MaxGenerationAttempts == 0 {
		c.Access.MaxGenerationAttempts = 10
	}

	if c.Notifications.DaysBefore == nil {
		c.Notifications.DaysBefore = []int{7, 1}
	}
	if c.Notifications.CategoryDaysBefore == 0 {
		c.Notifications.CategoryDaysBefore = 7
	}
	if c.Notifications.Interval == 0 {
		c.Notifications.Interval = time.Hour
	}
	if c.Notifications.RetryInterval == 0 {
		c.Notifications.RetryInterval = 5 * time.Minute
	}
	if c.Notifications.Timezone == "" {
		c.Notifications.Timezone = "Europe/Moscow"
	}
	if c.Notifications.SendRPS == 0 {
		c.Notifications.SendRPS = 25
	}
	if c.Notifications.SendRetries == 0 {
		c.Notifications.SendRetries = 3
	}
	if c.Notifications.LeaseTTL == 0 {
		c.Notifications.LeaseTTL = 2 * c.Notifications.Interval
	}

	if c.Limits.MaxItemsPerUser == 0 {
		c.Limits.MaxItemsPerUser = 1000
	}
	if c.Limits.MaxCategoriesPerUser == 0 {
		c.Limits.MaxCategoriesPerUser = 50
	}
	if c.Limits.MaxPhotoBytes == 0 {
		c.Limits.MaxPhotoBytes = 10 * 1024 * 1024
	}

	if c.Backup.Interval == 0 {
		c.Backup.Interval = 24 * time.Hour
	}
	if c.Backup.RetentionDays == 0 {
		c.Backup.RetentionDays = 7
	}

	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = 5
	}

	if c.Exports.Path == "" {
		c.Exports.Path = os.TempDir()
	}

	// Bot defaults
	if c.Bot.PaginationSize == 0 {
		c.Bot.PaginationSize = models.DefaultPaginationSize
	}
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
}
