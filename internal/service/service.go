// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the bakery's write and query operations on top
// of the store. Every mutating call runs in a single transaction, so a failed
// operation leaves the database unchanged.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/store"
)

var (
	// ErrRootPage is returned when an operation would move or delete the
	// tree root.
	ErrRootPage = fmt.Errorf("%w: the root page cannot be moved or deleted", store.ErrIntegrityViolation)

	// ErrInvalidMove is returned when a page would become its own ancestor.
	ErrInvalidMove = fmt.Errorf("%w: a page cannot be moved below itself", store.ErrIntegrityViolation)
)

// ReferenceError reports content that points at a record which does not
// exist.
type ReferenceError struct {
	Field string
	Kind  model.RefKind
	ID    int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("field %q references missing %s %d", e.Field, e.Kind, e.ID)
}

func (e *ReferenceError) Is(target error) bool {
	return target == store.ErrIntegrityViolation
}

// clock is swapped in tests.
type clock func() time.Time

// invalidate drops cached API responses after a write. A nil cache is a
// no-op.
func invalidate(ctx context.Context, c cache.Cache, logger *slog.Logger) {
	if c == nil {
		return
	}
	if err := c.DeleteByPrefix(ctx, cache.PrefixAPI); err != nil && !errors.Is(err, cache.ErrCacheClosed) {
		logger.Warn("cache invalidation failed", "error", err, "category", model.EventCategoryCache)
	}
}

// checkRefs verifies that every reference held by c resolves.
func checkRefs(ctx context.Context, q *store.Queries, c model.Content) error {
	for _, ref := range model.RefsOf(c) {
		var err error
		switch ref.Kind {
		case model.RefImage:
			_, err = q.GetImage(ctx, ref.ID)
		case model.RefPage:
			_, err = q.GetPage(ctx, ref.ID)
		case model.RefCollection:
			_, err = q.GetCollection(ctx, ref.ID)
		case model.RefCountry:
			_, err = q.GetCountry(ctx, ref.ID)
		case model.RefBreadType:
			_, err = q.GetBreadType(ctx, ref.ID)
		case model.RefIngredient:
			_, err = q.GetBreadIngredient(ctx, ref.ID)
		}
		if store.IsNotFound(err) {
			return &ReferenceError{Field: ref.Field, Kind: ref.Kind, ID: ref.ID}
		}
		if err != nil {
			return fmt.Errorf("resolving %s reference: %w", ref.Field, err)
		}
	}
	return nil
}
