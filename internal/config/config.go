package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Data directory and caches
	Storage StorageConfig `yaml:"storage"`

	// Comment submission limits
	Limits LimitsConfig `yaml:"limits"`

	// Moderator credentials
	Admin AdminConfig `yaml:"admin"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig holds file store settings
type StorageConfig struct {
	DataDir            string `yaml:"data_dir"`
	MetaPath           string `yaml:"meta_path"`
	PublishedCacheSize int    `yaml:"published_cache_size"`
}

// LimitsConfig bounds submitted field lengths, in characters
type LimitsConfig struct {
	MaxAuthorLength  int `yaml:"max_author_length"`
	MaxTextLength    int `yaml:"max_text_length"`
	MaxWebsiteLength int `yaml:"max_website_length"`
}

// AdminConfig holds basic-auth credentials for moderation and stats
type AdminConfig struct {
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	CredentialsFile string `yaml:"credentials_file"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "pretty"
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			DataDir:            defaultDataDir(),
			MetaPath:           "src/meta.toml",
			PublishedCacheSize: 128,
		},
		Limits: LimitsConfig{
			MaxAuthorLength:  100,
			MaxTextLength:    10000,
			MaxWebsiteLength: 500,
		},
		Admin: AdminConfig{
			User:            "admin",
			Password:        "password",
			CredentialsFile: "admin_password.txt",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from an optional YAML file named by CONFIG_FILE,
// then applies environment variable overrides
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.ShutdownTimeout = getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Storage.DataDir = getEnv("DATA_DIR", cfg.Storage.DataDir)
	cfg.Storage.MetaPath = getEnv("META_PATH", cfg.Storage.MetaPath)
	cfg.Storage.PublishedCacheSize = getIntEnv("PUBLISHED_CACHE_SIZE", cfg.Storage.PublishedCacheSize)

	cfg.Limits.MaxAuthorLength = getIntEnv("MAX_AUTHOR_LENGTH", cfg.Limits.MaxAuthorLength)
	cfg.Limits.MaxTextLength = getIntEnv("MAX_TEXT_LENGTH", cfg.Limits.MaxTextLength)
	cfg.Limits.MaxWebsiteLength = getIntEnv("MAX_WEBSITE_LENGTH", cfg.Limits.MaxWebsiteLength)

	cfg.Admin.CredentialsFile = getEnv("ADMIN_CREDENTIALS_FILE", cfg.Admin.CredentialsFile)
	if err := cfg.loadCredentials(); err != nil {
		return nil, err
	}
	cfg.Admin.User = getEnv("ADMIN_USER", cfg.Admin.User)
	cfg.Admin.Password = getEnv("ADMIN_PASSWORD", cfg.Admin.Password)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Limits.MaxAuthorLength <= 0 || c.Limits.MaxTextLength <= 0 || c.Limits.MaxWebsiteLength <= 0 {
		return fmt.Errorf("submission limits must be positive")
	}
	if c.Admin.User == "" {
		return fmt.Errorf("ADMIN_USER is required")
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// loadCredentials reads "user:password" from the credentials file if present
func (c *Config) loadCredentials() error {
	if c.Admin.CredentialsFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.Admin.CredentialsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read credentials file: %w", err)
	}

	user, password, ok := strings.Cut(strings.TrimSpace(string(data)), ":")
	if !ok {
		return fmt.Errorf("credentials file %s must contain user:password", c.Admin.CredentialsFile)
	}
	c.Admin.User, c.Admin.Password = user, password
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "blog_data"
	}
	return filepath.Join(home, "blog_data")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
