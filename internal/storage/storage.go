// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage keeps the bytes of images, renditions and documents on
// the local filesystem, in memory or in an S3 bucket. Objects are
// addressed by slash separated keys such as "original_images/rye.png".
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrObjectNotFound is returned when a key has no stored object.
var ErrObjectNotFound = errors.New("object not found")

// Backend stores media objects.
type Backend interface {
	// Put writes the object, replacing any previous content.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Open returns the object's content. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object; a missing key yields ErrObjectNotFound.
	Delete(ctx context.Context, key string) error
}

// Backend names accepted by New.
const (
	BackendFS     = "fs"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	BaseDir string
	S3      S3Config
}

// New builds the backend named by cfg.Backend.
func New(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Backend {
	case "", BackendFS:
		return NewFSBackend(cfg.BaseDir)
	case BackendS3:
		return NewS3Backend(ctx, cfg.S3)
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
