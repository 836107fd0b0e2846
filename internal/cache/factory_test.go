// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestNewSelectsBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mem := New(Config{DefaultTTL: time.Minute}, logger)
	defer func() { _ = mem.Close() }()
	if _, ok := mem.(*MemoryCache); !ok {
		t.Errorf("New without RedisURL = %T, want *MemoryCache", mem)
	}

	mr := miniredis.RunT(t)
	rc := New(Config{RedisURL: "redis://" + mr.Addr(), Prefix: "x:"}, logger)
	defer func() { _ = rc.Close() }()
	if _, ok := rc.(*RedisCache); !ok {
		t.Errorf("New with RedisURL = %T, want *RedisCache", rc)
	}
}

func TestNewFallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c := New(Config{RedisURL: "redis://" + addr}, logger)
	defer func() { _ = c.Close() }()
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("unreachable redis gave %T, want *MemoryCache", c)
	}
}
