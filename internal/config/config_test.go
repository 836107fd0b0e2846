// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/bakery.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/bakery.db")
	}
	if cfg.ServerPort != 8000 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8000)
	}
	if cfg.ServerAddr() != "localhost:8000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.StorageBackend != "fs" {
		t.Errorf("StorageBackend = %q, want fs", cfg.StorageBackend)
	}
	if cfg.APILimitMax != 20 {
		t.Errorf("APILimitMax = %d, want 20", cfg.APILimitMax)
	}
	if cfg.UseRedisCache() {
		t.Error("redis should be off by default")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	t.Setenv("BAKERY_DB_PATH", "/custom/path.db")
	t.Setenv("BAKERY_SERVER_PORT", "3000")
	t.Setenv("BAKERY_ENV", "production")
	t.Setenv("BAKERY_BASE_URL", "https://bakery.example/")
	t.Setenv("BAKERY_STORAGE_BACKEND", "s3")
	t.Setenv("BAKERY_S3_BUCKET", "bakery-media")
	t.Setenv("BAKERY_S3_USE_PATH_STYLE", "true")
	t.Setenv("BAKERY_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("BAKERY_CACHE_TTL", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.IsDevelopment() {
		t.Error("production should not be development")
	}
	if cfg.BaseURL != "https://bakery.example" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", cfg.BaseURL)
	}

	st := cfg.Storage()
	if st.Backend != "s3" || st.S3.Bucket != "bakery-media" || !st.S3.UsePathStyle {
		t.Errorf("Storage() = %+v", st)
	}
	cc := cfg.Cache()
	if cc.RedisURL == "" || cc.DefaultTTL != time.Minute {
		t.Errorf("Cache() = %+v", cc)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port out of range", "BAKERY_SERVER_PORT", "70000"},
		{"port not a number", "BAKERY_SERVER_PORT", "eighty"},
		{"relative base url", "BAKERY_BASE_URL", "/bakery"},
		{"unknown backend", "BAKERY_STORAGE_BACKEND", "ftp"},
		{"s3 without bucket", "BAKERY_STORAGE_BACKEND", "s3"},
		{"zero limit", "BAKERY_API_LIMIT_MAX", "0"},
		{"negative rate", "BAKERY_API_RATE_LIMIT", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.val)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (Config{LogLevel: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	os.Clearenv()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BAKERY_SERVER_PORT=9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BAKERY_ENV", "test")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("BAKERY_SERVER_PORT") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090", cfg.ServerPort)
	}
	if cfg.Env != "test" {
		t.Errorf("Env = %q, want test", cfg.Env)
	}
}
