// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/olegiv/bakery/internal/store"
	"github.com/olegiv/bakery/internal/util"
)

// setTags replaces the tags of one object. Blank names are skipped and
// unknown names are created.
func setTags(ctx context.Context, db *sql.DB, objectType string, objectID int64, names []string) error {
	return store.InTx(ctx, db, func(q *store.Queries) error {
		ref := store.ObjectRef{ObjectType: objectType, ObjectID: objectID}
		if err := q.ClearTaggings(ctx, ref); err != nil {
			return err
		}
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			tag, err := q.UpsertTag(ctx, store.UpsertTagParams{Name: name, Slug: tagSlug(name)})
			if err != nil {
				return fmt.Errorf("saving tag %q: %w", name, err)
			}
			if err := q.AddTagging(ctx, store.AddTaggingParams{TagID: tag.ID, ObjectType: objectType, ObjectID: objectID}); err != nil {
				return fmt.Errorf("tagging %s %d: %w", objectType, objectID, err)
			}
		}
		return nil
	})
}

func tagSlug(name string) string {
	if slug := util.Slugify(name); slug != "" {
		return slug
	}
	return strings.ToLower(name)
}
