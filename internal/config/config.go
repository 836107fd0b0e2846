// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/storage"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"BAKERY_DB_PATH" envDefault:"./data/bakery.db"`
	ServerHost string `env:"BAKERY_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"BAKERY_SERVER_PORT" envDefault:"8000"`
	Env        string `env:"BAKERY_ENV" envDefault:"development"`
	LogLevel   string `env:"BAKERY_LOG_LEVEL" envDefault:"info"`

	// BaseURL prefixes absolute URLs such as document downloads.
	BaseURL string `env:"BAKERY_BASE_URL" envDefault:"http://localhost:8000"`

	// Media storage
	MediaDir          string `env:"BAKERY_MEDIA_DIR" envDefault:"./media"`
	StorageBackend    string `env:"BAKERY_STORAGE_BACKEND" envDefault:"fs"`
	S3Bucket          string `env:"BAKERY_S3_BUCKET"`
	S3Region          string `env:"BAKERY_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint        string `env:"BAKERY_S3_ENDPOINT"`
	S3AccessKeyID     string `env:"BAKERY_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"BAKERY_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle    bool   `env:"BAKERY_S3_USE_PATH_STYLE" envDefault:"false"`

	// Cache configuration
	RedisURL     string `env:"BAKERY_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"BAKERY_CACHE_PREFIX" envDefault:"bakery:"` // Redis key prefix
	CacheTTL     int    `env:"BAKERY_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"BAKERY_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Content API
	APILimitMax  int     `env:"BAKERY_API_LIMIT_MAX" envDefault:"20"`
	APIRateLimit float64 `env:"BAKERY_API_RATE_LIMIT" envDefault:"10"` // requests per second per IP, 0 disables
	APIRateBurst int     `env:"BAKERY_API_RATE_BURST" envDefault:"20"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// SlogLevel maps LogLevel onto a slog level; unknown names mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Cache returns the cache backend settings.
func (c Config) Cache() cache.Config {
	return cache.Config{
		RedisURL:   c.RedisURL,
		Prefix:     c.CachePrefix,
		DefaultTTL: time.Duration(c.CacheTTL) * time.Second,
		MaxSize:    c.CacheMaxSize,
	}
}

// Storage returns the media storage settings.
func (c Config) Storage() storage.Config {
	return storage.Config{
		Backend: c.StorageBackend,
		BaseDir: c.MediaDir,
		S3: storage.S3Config{
			Bucket:          c.S3Bucket,
			Region:          c.S3Region,
			Endpoint:        c.S3Endpoint,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			UsePathStyle:    c.S3UsePathStyle,
		},
	}
}

// LoadDotEnv reads variables from the given files into the environment
// without overriding ones already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("BAKERY_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BAKERY_BASE_URL must be an absolute URL, got %q", c.BaseURL)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	switch c.StorageBackend {
	case storage.BackendFS, storage.BackendMemory:
	case storage.BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("BAKERY_S3_BUCKET is required when BAKERY_STORAGE_BACKEND is s3")
		}
	default:
		return fmt.Errorf("BAKERY_STORAGE_BACKEND must be fs, s3 or memory, got %q", c.StorageBackend)
	}

	if c.APILimitMax <= 0 {
		return fmt.Errorf("BAKERY_API_LIMIT_MAX must be positive, got %d", c.APILimitMax)
	}
	if c.APIRateLimit < 0 {
		return fmt.Errorf("BAKERY_API_RATE_LIMIT must not be negative")
	}
	if c.APIRateLimit > 0 && c.APIRateBurst <= 0 {
		return fmt.Errorf("BAKERY_API_RATE_BURST must be positive when rate limiting is enabled")
	}
	return nil
}
