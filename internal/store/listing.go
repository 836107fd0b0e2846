// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"
)

// ErrUnknownOrder is returned for an order key outside the listing's
// whitelist.
var ErrUnknownOrder = errors.New("unknown order field")

// PageOrderFields maps public order keys onto page columns.
var PageOrderFields = map[string]string{
	"id":                 "p.id",
	"title":              "p.title",
	"slug":               "p.slug",
	"first_published_at": "p.first_published_at",
	"path":               "p.path",
}

// MediaOrderFields maps public order keys onto image and document columns.
var MediaOrderFields = map[string]string{
	"id":         "m.id",
	"title":      "m.title",
	"created_at": "m.created_at",
}

// PageFilter narrows the public page listing. Matches are always live,
// non-root pages.
type PageFilter struct {
	Types        []string
	ChildOf      int64
	DescendantOf string // path of the ancestor, exclusive
	Slug         string
	ShowInMenus  *bool
	Locale       string
	Search       string
	Order        string // key of PageOrderFields, "-" prefix for descending
	Limit        int
	Offset       int
}

// MediaFilter narrows an image or document listing.
type MediaFilter struct {
	Title  string
	Tags   []string
	Search string
	Order  string // key of MediaOrderFields, "-" prefix for descending
	Limit  int
	Offset int
}

// orderBy resolves key against fields. The id column breaks ties so paging
// is stable.
func orderBy(key string, fields map[string]string, idColumn string) ([]string, error) {
	if key == "" {
		return []string{idColumn}, nil
	}
	desc := strings.HasPrefix(key, "-")
	col, ok := fields[strings.TrimPrefix(key, "-")]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrder, key)
	}
	if desc {
		col += " DESC"
	}
	if strings.HasPrefix(col, idColumn) {
		return []string{col}, nil
	}
	return []string{col, idColumn}, nil
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func (f PageFilter) where(sb *sqlbuilder.SelectBuilder) {
	sb.Where("p.live = 1", sb.IsNotNull("p.parent_id"))
	if len(f.Types) > 0 {
		sb.Where(sb.In("p.page_type", sqlbuilder.Flatten(f.Types)...))
	}
	if f.ChildOf != 0 {
		sb.Where(sb.Equal("p.parent_id", f.ChildOf))
	}
	if f.DescendantOf != "" {
		sb.Where(
			sb.GreaterThan("p.path", f.DescendantOf),
			sb.Like("p.path", f.DescendantOf+"%"),
		)
	}
	if f.Slug != "" {
		sb.Where(sb.Equal("p.slug", f.Slug))
	}
	if f.ShowInMenus != nil {
		v := 0
		if *f.ShowInMenus {
			v = 1
		}
		sb.Where(sb.Equal("p.show_in_menus", v))
	}
	if f.Locale != "" {
		sb.Where(sb.Equal("l.language_code", f.Locale))
	}
	if f.Search != "" {
		sb.Where(fmt.Sprintf(`p.title LIKE %s ESCAPE '\'`, sb.Var(likePattern(f.Search))))
	}
}

// ListLivePages returns one page of matches and the total match count.
func (q *Queries) ListLivePages(ctx context.Context, f PageFilter) ([]Page, int64, error) {
	order, err := orderBy(f.Order, PageOrderFields, "p.id")
	if err != nil {
		return nil, 0, err
	}

	count := sqlbuilder.SQLite.NewSelectBuilder()
	count.Select("COUNT(*)").From("pages p").Join("locales l", "l.id = p.locale_id")
	f.where(count)
	total, err := q.countBuilt(ctx, count)
	if err != nil {
		return nil, 0, err
	}

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(PageColumns).From("pages p").Join("locales l", "l.id = p.locale_id")
	f.where(sb)
	sb.OrderBy(order...).Limit(f.Limit).Offset(f.Offset)

	query, args := sb.Build()
	pages, err := q.listPages(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

func (f MediaFilter) where(sb *sqlbuilder.SelectBuilder, objectType string) {
	if f.Title != "" {
		sb.Where(sb.Equal("m.title", f.Title))
	}
	for _, tag := range f.Tags {
		sub := sqlbuilder.SQLite.NewSelectBuilder()
		sub.Select("tg.object_id").
			From("taggings tg").
			Join("tags t", "t.id = tg.tag_id").
			Where(sub.Equal("tg.object_type", objectType), sub.Equal("t.name", tag))
		sb.Where(sb.In("m.id", sub))
	}
	if f.Search != "" {
		sb.Where(fmt.Sprintf(`m.title LIKE %s ESCAPE '\'`, sb.Var(likePattern(f.Search))))
	}
}

func (q *Queries) mediaBuilders(ctx context.Context, table, objectType, columns string, f MediaFilter) (int64, *sqlbuilder.SelectBuilder, error) {
	order, err := orderBy(f.Order, MediaOrderFields, "m.id")
	if err != nil {
		return 0, nil, err
	}

	count := sqlbuilder.SQLite.NewSelectBuilder()
	count.Select("COUNT(*)").From(table + " m")
	f.where(count, objectType)
	total, err := q.countBuilt(ctx, count)
	if err != nil {
		return 0, nil, err
	}

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(prefixColumns("m", columns)...).From(table + " m")
	f.where(sb, objectType)
	sb.OrderBy(order...).Limit(f.Limit).Offset(f.Offset)
	return total, sb, nil
}

// ListImagesFiltered returns one page of matching images and the total
// match count.
func (q *Queries) ListImagesFiltered(ctx context.Context, f MediaFilter) ([]Image, int64, error) {
	total, sb, err := q.mediaBuilders(ctx, "images", "image", ImageColumns, f)
	if err != nil {
		return nil, 0, err
	}
	query, args := sb.Build()
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := []Image{}
	for rows.Next() {
		i, err := ScanImage(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, i)
	}
	return items, total, rows.Err()
}

// ListDocumentsFiltered returns one page of matching documents and the
// total match count.
func (q *Queries) ListDocumentsFiltered(ctx context.Context, f MediaFilter) ([]Document, int64, error) {
	total, sb, err := q.mediaBuilders(ctx, "documents", "document", DocumentColumns, f)
	if err != nil {
		return nil, 0, err
	}
	query, args := sb.Build()
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := []Document{}
	for rows.Next() {
		i, err := ScanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, i)
	}
	return items, total, rows.Err()
}

// PathSlugs returns the slug of every page whose path is in paths, keyed by
// path.
func (q *Queries) PathSlugs(ctx context.Context, paths []string) (map[string]string, error) {
	out := make(map[string]string, len(paths))
	if len(paths) == 0 {
		return out, nil
	}
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("path", "slug").From("pages").Where(sb.In("path", sqlbuilder.Flatten(paths)...))
	query, args := sb.Build()

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var path, slug string
		if err := rows.Scan(&path, &slug); err != nil {
			return nil, err
		}
		out[path] = slug
	}
	return out, rows.Err()
}

func (q *Queries) countBuilt(ctx context.Context, sb *sqlbuilder.SelectBuilder) (int64, error) {
	query, args := sb.Build()
	var n int64
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return n, nil
}

func prefixColumns(alias, columns string) []string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + "." + strings.TrimSpace(c)
	}
	return parts
}
