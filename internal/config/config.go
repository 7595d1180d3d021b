// Package config provides configuration loading and validation for the CLI and preview server.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMinIO    = "minio"
)

// Summarizer providers
const (
	ProviderNone        = "none"
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
)

// Config aggregates settings sourced from an optional config file and RB_* environment variables.
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Export      ExportConfig      `mapstructure:"export"`
	Server      ServerConfig      `mapstructure:"server"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Summarize   SummarizeConfig   `mapstructure:"summarize"`
	Log         LogConfig         `mapstructure:"log"`
}

// StorageConfig selects and configures the snapshot backend
type StorageConfig struct {
	Driver      string      `mapstructure:"driver"`
	Key         string      `mapstructure:"key"`
	Dir         string      `mapstructure:"dir"`
	SQLitePath  string      `mapstructure:"sqlite_path"`
	DatabaseURL string      `mapstructure:"database_url"`
	Redis       RedisConfig `mapstructure:"redis"`
	MinIO       MinIOConfig `mapstructure:"minio"`
}

// RedisConfig contains Redis connection options
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Region           string `mapstructure:"region"`
	Bucket           string `mapstructure:"bucket"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
	Prefix           string `mapstructure:"prefix"`
}

// PersistenceConfig tunes the debounced writer
type PersistenceConfig struct {
	Debounce     time.Duration `mapstructure:"debounce"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ExportConfig sets page geometry and encoder options
type ExportConfig struct {
	LinesPerPage int           `mapstructure:"lines_per_page"`
	CharsPerLine int           `mapstructure:"chars_per_line"`
	Timeout      time.Duration `mapstructure:"timeout"`
	OutputDir    string        `mapstructure:"output_dir"`
	ChromePath   string        `mapstructure:"chrome_path"`
	Upload       bool          `mapstructure:"upload"`
}

// ServerConfig contains preview server settings
type ServerConfig struct {
	Addr           string          `mapstructure:"addr"`
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig configures the per-client token bucket
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

// AuthConfig configures bearer tokens for the preview server
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
}

// SummarizeConfig selects the summarization collaborator
type SummarizeConfig struct {
	Provider     string        `mapstructure:"provider"`
	HFToken      string        `mapstructure:"hf_token"`
	HFModelURL   string        `mapstructure:"hf_model_url"`
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// LogConfig configures the slog handler
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads defaults, then the optional file at path (JSON or YAML), then
// environment variables. Environment variables use the RB_ prefix with dots replaced
// by underscores (RB_STORAGE_DRIVER), plus a few conventional names such as DATABASE_URL.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("RB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Defaults returns the configuration used when nothing is set
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.key", "resume_builder_data")
	v.SetDefault("storage.dir", ".resume-builder")
	v.SetDefault("storage.sqlite_path", ".resume-builder/snapshots.db")
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "resume-builder:")
	v.SetDefault("storage.redis.ttl", 0)
	v.SetDefault("storage.minio.endpoint", "localhost:9000")
	v.SetDefault("storage.minio.access_key_id", "")
	v.SetDefault("storage.minio.secret_access_key", "")
	v.SetDefault("storage.minio.use_ssl", false)
	v.SetDefault("storage.minio.region", "")
	v.SetDefault("storage.minio.bucket", "resumes")
	v.SetDefault("storage.minio.bucket_lookup", "auto")
	v.SetDefault("storage.minio.auto_create_bucket", true)
	v.SetDefault("storage.minio.prefix", "")

	v.SetDefault("persistence.debounce", "500ms")
	v.SetDefault("persistence.write_timeout", "5s")

	v.SetDefault("export.lines_per_page", 56)
	v.SetDefault("export.chars_per_line", 90)
	v.SetDefault("export.timeout", "60s")
	v.SetDefault("export.output_dir", ".")
	v.SetDefault("export.chrome_path", "")
	v.SetDefault("export.upload", false)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.requests_per_minute", 120)
	v.SetDefault("server.rate_limit.burst", 30)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration_hours", 24)

	v.SetDefault("summarize.provider", ProviderNone)
	v.SetDefault("summarize.hf_token", "")
	v.SetDefault("summarize.hf_model_url", "https://api-inference.huggingface.co/models/facebook/bart-large-cnn")
	v.SetDefault("summarize.gemini_api_key", "")
	v.SetDefault("summarize.timeout", "30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string][]string{
		"storage.database_url":            {"RB_STORAGE_DATABASE_URL", "DATABASE_URL"},
		"storage.redis.addr":              {"RB_STORAGE_REDIS_ADDR", "REDIS_ADDR"},
		"storage.minio.endpoint":          {"RB_STORAGE_MINIO_ENDPOINT", "MINIO_ENDPOINT"},
		"storage.minio.access_key_id":     {"RB_STORAGE_MINIO_ACCESS_KEY_ID", "MINIO_ACCESS_KEY_ID"},
		"storage.minio.secret_access_key": {"RB_STORAGE_MINIO_SECRET_ACCESS_KEY", "MINIO_SECRET_ACCESS_KEY"},
		"storage.minio.bucket":            {"RB_STORAGE_MINIO_BUCKET", "MINIO_BUCKET"},
		"auth.jwt_secret":                 {"RB_AUTH_JWT_SECRET", "JWT_SECRET"},
		"auth.jwt_expiration_hours":       {"RB_AUTH_JWT_EXPIRATION_HOURS", "JWT_EXPIRATION_HOURS"},
		"summarize.hf_token":              {"RB_SUMMARIZE_HF_TOKEN", "HF_TOKEN"},
		"summarize.gemini_api_key":        {"RB_SUMMARIZE_GEMINI_API_KEY", "GEMINI_API_KEY"},
	}

	for key, envs := range mappings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("bind %s to %v: %w", key, envs, err)
		}
	}
	return nil
}

// Validate checks that the configuration has usable values
func (c *Config) Validate() error {
	drivers := []string{DriverMemory, DriverFile, DriverSQLite, DriverPostgres, DriverRedis, DriverMinIO}
	if !slices.Contains(drivers, c.Storage.Driver) {
		return fmt.Errorf("config error: unknown storage driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("config error: 'storage.key' is required")
	}

	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.Dir == "" {
			return errors.New("config error: 'storage.dir' is required for the file driver")
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("config error: 'storage.sqlite_path' is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("config error: 'storage.database_url' (or DATABASE_URL) is required for the postgres driver")
		}
	case DriverRedis:
		if c.Storage.Redis.Addr == "" {
			return errors.New("config error: 'storage.redis.addr' is required for the redis driver")
		}
	case DriverMinIO:
		if c.Storage.MinIO.Endpoint == "" || c.Storage.MinIO.Bucket == "" {
			return errors.New("config error: 'storage.minio.endpoint' and 'storage.minio.bucket' are required for the minio driver")
		}
	}

	if c.Persistence.Debounce < 300*time.Millisecond || c.Persistence.Debounce > 800*time.Millisecond {
		return fmt.Errorf("config error: 'persistence.debounce' must be between 300ms and 800ms, got %s", c.Persistence.Debounce)
	}

	if c.Export.LinesPerPage < 10 {
		return errors.New("config error: 'export.lines_per_page' must be at least 10")
	}
	if c.Export.CharsPerLine < 20 {
		return errors.New("config error: 'export.chars_per_line' must be at least 20")
	}

	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.RequestsPerMinute <= 0 || c.Server.RateLimit.Burst <= 0) {
		return errors.New("config error: rate limit values must be positive")
	}
	if c.Auth.JWTExpirationHours < 1 {
		return fmt.Errorf("config error: 'auth.jwt_expiration_hours' must be at least 1, got %d", c.Auth.JWTExpirationHours)
	}

	providers := []string{ProviderNone, ProviderHuggingFace, ProviderGemini}
	if !slices.Contains(providers, c.Summarize.Provider) {
		return fmt.Errorf("config error: unknown summarize provider %q", c.Summarize.Provider)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config error: 'log.format' must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty or zero fields filled from defaults.
// The CLI uses it to layer flag values over the loaded file configuration.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Storage.Driver == "" {
		result.Storage.Driver = defaults.Storage.Driver
	}
	if result.Storage.Key == "" {
		result.Storage.Key = defaults.Storage.Key
	}
	if result.Storage.Dir == "" {
		result.Storage.Dir = defaults.Storage.Dir
	}
	if result.Storage.SQLitePath == "" {
		result.Storage.SQLitePath = defaults.Storage.SQLitePath
	}
	if result.Storage.DatabaseURL == "" {
		result.Storage.DatabaseURL = defaults.Storage.DatabaseURL
	}
	if result.Storage.Redis == (RedisConfig{}) {
		result.Storage.Redis = defaults.Storage.Redis
	}
	if result.Storage.MinIO == (MinIOConfig{}) {
		result.Storage.MinIO = defaults.Storage.MinIO
	}

	if result.Persistence.Debounce == 0 {
		result.Persistence.Debounce = defaults.Persistence.Debounce
	}
	if result.Persistence.WriteTimeout == 0 {
		result.Persistence.WriteTimeout = defaults.Persistence.WriteTimeout
	}

	if result.Export.LinesPerPage == 0 {
		result.Export.LinesPerPage = defaults.Export.LinesPerPage
	}
	if result.Export.CharsPerLine == 0 {
		result.Export.CharsPerLine = defaults.Export.CharsPerLine
	}
	if result.Export.Timeout == 0 {
		result.Export.Timeout = defaults.Export.Timeout
	}
	if result.Export.OutputDir == "" {
		result.Export.OutputDir = defaults.Export.OutputDir
	}
	if result.Export.ChromePath == "" {
		result.Export.ChromePath = defaults.Export.ChromePath
	}
	result.Export.Upload = result.Export.Upload || defaults.Export.Upload

	if result.Server.Addr == "" {
		result.Server.Addr = defaults.Server.Addr
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if result.Server.RateLimit == (RateLimitConfig{}) {
		result.Server.RateLimit = defaults.Server.RateLimit
	}

	if result.Auth.JWTSecret == "" {
		result.Auth.JWTSecret = defaults.Auth.JWTSecret
	}
	if result.Auth.JWTExpirationHours == 0 {
		result.Auth.JWTExpirationHours = defaults.Auth.JWTExpirationHours
	}

	if result.Summarize.Provider == "" {
		result.Summarize.Provider = defaults.Summarize.Provider
	}
	if result.Summarize.HFToken == "" {
		result.Summarize.HFToken = defaults.Summarize.HFToken
	}
	if result.Summarize.HFModelURL == "" {
		result.Summarize.HFModelURL = defaults.Summarize.HFModelURL
	}
	if result.Summarize.GeminiAPIKey == "" {
		result.Summarize.GeminiAPIKey = defaults.Summarize.GeminiAPIKey
	}
	if result.Summarize.Timeout == 0 {
		result.Summarize.Timeout = defaults.Summarize.Timeout
	}

	if result.Log.Level == "" {
		result.Log.Level = defaults.Log.Level
	}
	if result.Log.Format == "" {
		result.Log.Format = defaults.Log.Format
	}

	return result
}
