// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("not found")

	// ErrIntegrityViolation is returned when a write breaks a uniqueness,
	// foreign key or check constraint.
	ErrIntegrityViolation = errors.New("integrity violation")
)

// constraintMarkers are the SQLite error message fragments reported by both
// the modernc and mattn drivers for constraint failures.
var constraintMarkers = []string{
	"UNIQUE constraint failed",
	"FOREIGN KEY constraint failed",
	"CHECK constraint failed",
	"NOT NULL constraint failed",
	"constraint failed",
}

// mapError translates driver errors into the store's sentinel errors while
// keeping the original error in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	msg := err.Error()
	for _, marker := range constraintMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %w", ErrIntegrityViolation, err)
		}
	}
	return err
}

// IsNotFound reports whether err signals a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}
