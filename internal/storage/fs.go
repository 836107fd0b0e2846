// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olegiv/bakery/internal/util"
)

// FSBackend stores objects as files under a base directory.
type FSBackend struct {
	baseDir string
}

// NewFSBackend creates baseDir if needed.
func NewFSBackend(baseDir string) (*FSBackend, error) {
	if baseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}
	return &FSBackend{baseDir: baseDir}, nil
}

// Put writes to a temporary file and renames it into place so readers
// never see a partial object.
func (b *FSBackend) Put(_ context.Context, key string, r io.Reader, _ string) error {
	target, err := util.SafeJoinPath(b.baseDir, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}
	return nil
}

func (b *FSBackend) Open(_ context.Context, key string) (io.ReadCloser, error) {
	target, err := util.SafeJoinPath(b.baseDir, key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return f, nil
}

func (b *FSBackend) Delete(_ context.Context, key string) error {
	target, err := util.SafeJoinPath(b.baseDir, key)
	if err != nil {
		return err
	}
	err = os.Remove(target)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return err
}
