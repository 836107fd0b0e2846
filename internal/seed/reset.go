// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Reset deletes the SQLite database files and empties the media directory
// so the next migrate and create_random_data start from a clean store.
// mediaDir may be empty when media lives outside the local filesystem.
func Reset(dbPath, mediaDir string) error {
	// main, WAL and SHM files
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", dbPath+suffix, err)
		}
	}
	slog.Info("database deleted", "path", dbPath)

	if mediaDir == "" {
		return nil
	}
	if err := clearDir(mediaDir); err != nil {
		return fmt.Errorf("clearing media: %w", err)
	}
	slog.Info("media cleared", "path", mediaDir)
	return nil
}

// clearDir removes everything inside dir but keeps dir itself.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}
