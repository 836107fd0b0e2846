// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseBackend runs the behaviour every backend must share.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()
	key := "original_images/sourdough.png"

	require.NoError(t, b.Put(ctx, key, strings.NewReader("first"), "image/png"))
	require.NoError(t, b.Put(ctx, key, strings.NewReader("second"), "image/png"))

	r, err := b.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "second", string(data))

	require.NoError(t, b.Delete(ctx, key))

	_, err = b.Open(ctx, key)
	assert.True(t, errors.Is(err, ErrObjectNotFound), "Open after delete: %v", err)
	err = b.Delete(ctx, key)
	assert.True(t, errors.Is(err, ErrObjectNotFound), "second delete: %v", err)

	assert.Error(t, b.Put(ctx, "../escape.txt", strings.NewReader("x"), ""))
	_, err = b.Open(ctx, "/etc/passwd")
	assert.Error(t, err)
}

func TestFSBackend(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFSBackend(dir)
	require.NoError(t, err)

	exerciseBackend(t, b)

	require.NoError(t, b.Put(context.Background(), "documents/menu.txt", strings.NewReader("rye"), ""))
	content, err := os.ReadFile(filepath.Join(dir, "documents", "menu.txt"))
	require.NoError(t, err)
	assert.Equal(t, "rye", string(content))

	entries, err := os.ReadDir(filepath.Join(dir, "documents"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary upload files must not be left behind")
}

func TestFSBackendOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFSBackend(dir)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))

	_, err = b.Open(context.Background(), "images")
	assert.True(t, errors.Is(err, ErrObjectNotFound))
}

func TestNewFSBackendErrors(t *testing.T) {
	_, err := NewFSBackend("")
	assert.ErrorContains(t, err, "base directory is required")

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = NewFSBackend(filepath.Join(file, "sub"))
	assert.Error(t, err)
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend()
	exerciseBackend(t, b)

	ctx := context.Background()
	require.NoError(t, b.Put(ctx, "images/b.png", strings.NewReader("b"), ""))
	require.NoError(t, b.Put(ctx, "images/a.png", strings.NewReader("a"), ""))
	assert.Equal(t, []string{"images/a.png", "images/b.png"}, b.Keys())
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	b, err := New(ctx, Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FSBackend{}, b)

	b, err = New(ctx, Config{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	_, err = New(ctx, Config{Backend: BackendS3})
	assert.ErrorContains(t, err, "bucket name is required")

	_, err = New(ctx, Config{Backend: "ftp"})
	assert.Error(t, err)
}
