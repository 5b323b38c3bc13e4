// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"legallens/internal/observability"
	"legallens/internal/paths"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvServerURL    = "LEGALLENS_SERVER_URL"
	EnvAddr         = "LEGALLENS_ADDR"
	EnvLogFile      = "LEGALLENS_LOG_FILE"
	EnvLogLevel     = "LEGALLENS_LOG_LEVEL"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Client  ClientConfig  `yaml:"client"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the analyzer service.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	AllowedOrigins  []string      `yaml:"allowed_origins" validate:"min=1"`
	MaxUploadMB     int64         `yaml:"max_upload_mb" validate:"min=1"`
	MaxConcurrent   int           `yaml:"max_concurrent" validate:"min=0"` // analyses in flight; 0 is unlimited
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// GeminiConfig configures the model used by the service.
type GeminiConfig struct {
	APIKey     string        `yaml:"api_key"`
	BaseURL    string        `yaml:"base_url" validate:"required,url"`
	Models     []string      `yaml:"models" validate:"min=1,dive,required"`
	MaxChars   int           `yaml:"max_chars" validate:"min=1"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries" validate:"min=0,max=10"`
}

// ClientConfig configures the CLI's pipeline.
type ClientConfig struct {
	ServerURL      string        `yaml:"server_url" validate:"required,url"`
	Timeout        time.Duration `yaml:"timeout"`
	TickInterval   time.Duration `yaml:"tick_interval"`
	AnalyzingDelay time.Duration `yaml:"analyzing_delay"`
}

// LoggingConfig configures zap and log rotation.
type LoggingConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"min=0"`
	Compress   bool   `yaml:"compress"`
	Production bool   `yaml:"production"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":5000",
			AllowedOrigins:  []string{"*"},
			MaxUploadMB:     10,
			MaxConcurrent:   4,
			CacheTTL:        30 * time.Minute,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Gemini: GeminiConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Models: []string{
				"gemini-2.5-flash",
				"gemini-2.0-flash",
				"gemini-flash-latest",
				"gemini-1.5-flash",
				"gemini-pro",
			},
			MaxChars:   30000,
			Timeout:    60 * time.Second,
			MaxRetries: 2,
		},
		Client: ClientConfig{
			ServerURL:      "http://127.0.0.1:5000",
			TickInterval:   200 * time.Millisecond,
			AnalyzingDelay: 1500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// LoadConfig loads configuration from the specified file path. An empty path
// yields the defaults. Environment overrides are applied last.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(filepath.Clean(paths.ExpandHome(configPath)))
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvGeminiAPIKey)); v != "" {
		c.Gemini.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerURL)); v != "" {
		c.Client.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		c.Logging.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

// FindConfigFile looks for a configuration file in the working directory,
// then in the user config directory.
func FindConfigFile() string {
	for _, name := range []string{"legallens.yaml", "legallens.yml", ".legallens.yaml", ".legallens.yml"} {
		if fileExists(name) {
			return name
		}
	}
	if standard := paths.ConfigFile(); fileExists(standard) {
		return standard
	}
	return ""
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// LoadConfigOrDefault loads configFile (or the discovered file when empty).
// Any failure yields the defaults, still with environment overrides, plus
// the error so callers can log it.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		fallback := Default()
		fallback.applyEnv()
		if fallback.Validate() != nil {
			fallback = Default()
		}
		return fallback, err
	}
	return cfg, nil
}

// LogOptions maps the logging section onto observability.LogOptions.
func (c *Config) LogOptions() observability.LogOptions {
	return observability.LogOptions{
		Level:      c.Logging.Level,
		File:       paths.ExpandHome(c.Logging.File),
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
		Production: c.Logging.Production,
	}
}

// MaxUploadBytes returns the upload limit in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}
