// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// PageColumns is the select list every page query shares. The locales join
// must be aliased "l" and pages "p".
const PageColumns = `p.id, p.parent_id, p.path, p.numchild, p.page_type, p.title, p.slug, p.content,
       p.live, p.has_unpublished_changes, p.first_published_at, p.last_published_at, p.live_revision_id,
       p.seo_title, p.search_description, p.show_in_menus, p.locale_id, l.language_code,
       p.alias_of_id, p.translation_key, p.owner_id, p.created_at, p.updated_at`

const pageFrom = `FROM pages p JOIN locales l ON l.id = p.locale_id`

type rowScanner interface {
	Scan(dest ...any) error
}

// ScanPage reads one row selected with PageColumns.
func ScanPage(row rowScanner) (Page, error) {
	var i Page
	err := row.Scan(
		&i.ID,
		&i.ParentID,
		&i.Path,
		&i.Numchild,
		&i.PageType,
		&i.Title,
		&i.Slug,
		&i.Content,
		&i.Live,
		&i.HasUnpublishedChanges,
		&i.FirstPublishedAt,
		&i.LastPublishedAt,
		&i.LiveRevisionID,
		&i.SeoTitle,
		&i.SearchDescription,
		&i.ShowInMenus,
		&i.LocaleID,
		&i.LocaleCode,
		&i.AliasOfID,
		&i.TranslationKey,
		&i.OwnerID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) listPages(ctx context.Context, query string, args ...any) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Page
	for rows.Next() {
		i, err := ScanPage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPage = `SELECT ` + PageColumns + ` ` + pageFrom + ` WHERE p.id = ?`

func (q *Queries) GetPage(ctx context.Context, id int64) (Page, error) {
	i, err := ScanPage(q.db.QueryRowContext(ctx, getPage, id))
	return i, mapError(err)
}

const getPageByPath = `SELECT ` + PageColumns + ` ` + pageFrom + ` WHERE p.path = ?`

func (q *Queries) GetPageByPath(ctx context.Context, path string) (Page, error) {
	i, err := ScanPage(q.db.QueryRowContext(ctx, getPageByPath, path))
	return i, mapError(err)
}

const getChildBySlug = `SELECT ` + PageColumns + ` ` + pageFrom + ` WHERE p.parent_id = ? AND p.slug = ?`

type GetChildBySlugParams struct {
	ParentID int64
	Slug     string
}

func (q *Queries) GetChildBySlug(ctx context.Context, arg GetChildBySlugParams) (Page, error) {
	i, err := ScanPage(q.db.QueryRowContext(ctx, getChildBySlug, arg.ParentID, arg.Slug))
	return i, mapError(err)
}

const getFirstChildByType = `SELECT ` + PageColumns + ` ` + pageFrom + `
WHERE p.parent_id = ? AND p.page_type = ?
ORDER BY p.path
LIMIT 1`

type GetFirstChildByTypeParams struct {
	ParentID int64
	PageType string
}

func (q *Queries) GetFirstChildByType(ctx context.Context, arg GetFirstChildByTypeParams) (Page, error) {
	i, err := ScanPage(q.db.QueryRowContext(ctx, getFirstChildByType, arg.ParentID, arg.PageType))
	return i, mapError(err)
}

const getLastChildPath = `SELECT COALESCE(MAX(path), '') FROM pages WHERE parent_id = ?`

// GetLastChildPath returns the greatest child path of a page, or "" when it
// has no children.
func (q *Queries) GetLastChildPath(ctx context.Context, parentID int64) (string, error) {
	var path string
	err := q.db.QueryRowContext(ctx, getLastChildPath, parentID).Scan(&path)
	return path, mapError(err)
}

const listChildren = `SELECT ` + PageColumns + ` ` + pageFrom + ` WHERE p.parent_id = ? ORDER BY p.path`

func (q *Queries) ListChildren(ctx context.Context, parentID int64) ([]Page, error) {
	return q.listPages(ctx, listChildren, parentID)
}

const listDescendants = `SELECT ` + PageColumns + ` ` + pageFrom + `
WHERE substr(p.path, 1, length(?1)) = ?1 AND p.path <> ?1
ORDER BY p.path`

func (q *Queries) ListDescendants(ctx context.Context, path string) ([]Page, error) {
	return q.listPages(ctx, listDescendants, path)
}

const listLiveDescendantsByType = `SELECT ` + PageColumns + ` ` + pageFrom + `
WHERE substr(p.path, 1, length(?1)) = ?1 AND p.path <> ?1 AND p.page_type = ?2 AND p.live = 1
ORDER BY p.title, p.id`

type ListLiveDescendantsByTypeParams struct {
	Path     string
	PageType string
}

func (q *Queries) ListLiveDescendantsByType(ctx context.Context, arg ListLiveDescendantsByTypeParams) ([]Page, error) {
	return q.listPages(ctx, listLiveDescendantsByType, arg.Path, arg.PageType)
}

const listLiveDescendantsByDate = `SELECT ` + PageColumns + ` ` + pageFrom + `
WHERE substr(p.path, 1, length(?1)) = ?1 AND p.path <> ?1 AND p.page_type = ?2 AND p.live = 1
ORDER BY json_extract(p.content, '$.date_published') IS NULL,
         json_extract(p.content, '$.date_published') DESC,
         p.title, p.id`

// ListLiveDescendantsByDate orders by the content's date_published, newest
// first with undated pages last.
func (q *Queries) ListLiveDescendantsByDate(ctx context.Context, arg ListLiveDescendantsByTypeParams) ([]Page, error) {
	return q.listPages(ctx, listLiveDescendantsByDate, arg.Path, arg.PageType)
}

const listPagesByType = `SELECT ` + PageColumns + ` ` + pageFrom + ` WHERE p.page_type = ? ORDER BY p.path`

func (q *Queries) ListPagesByType(ctx context.Context, pageType string) ([]Page, error) {
	return q.listPages(ctx, listPagesByType, pageType)
}

const countPages = `SELECT COUNT(*) FROM pages`

func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPages).Scan(&count)
	return count, err
}

const countPagesByType = `SELECT COUNT(*) FROM pages WHERE page_type = ?`

func (q *Queries) CountPagesByType(ctx context.Context, pageType string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPagesByType, pageType).Scan(&count)
	return count, err
}

const createPage = `INSERT INTO pages (
    parent_id, path, page_type, title, slug, content, live,
    seo_title, search_description, show_in_menus, locale_id, alias_of_id,
    translation_key, owner_id, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`

type CreatePageParams struct {
	ParentID          sql.NullInt64
	Path              string
	PageType          string
	Title             string
	Slug              string
	Content           string
	Live              bool
	SeoTitle          string
	SearchDescription string
	ShowInMenus       bool
	LocaleID          int64
	AliasOfID         sql.NullInt64
	TranslationKey    string
	OwnerID           sql.NullInt64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreatePage inserts a page row and returns its id.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createPage,
		arg.ParentID,
		arg.Path,
		arg.PageType,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.Live,
		arg.SeoTitle,
		arg.SearchDescription,
		arg.ShowInMenus,
		arg.LocaleID,
		arg.AliasOfID,
		arg.TranslationKey,
		arg.OwnerID,
		arg.CreatedAt,
		arg.UpdatedAt,
	).Scan(&id)
	return id, mapError(err)
}

const updatePage = `UPDATE pages SET
    title = ?, slug = ?, content = ?, seo_title = ?, search_description = ?,
    show_in_menus = ?, has_unpublished_changes = ?, updated_at = ?
WHERE id = ?`

type UpdatePageParams struct {
	Title                 string
	Slug                  string
	Content               string
	SeoTitle              string
	SearchDescription     string
	ShowInMenus           bool
	HasUnpublishedChanges bool
	UpdatedAt             time.Time
	ID                    int64
}

func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) error {
	_, err := q.db.ExecContext(ctx, updatePage,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.SeoTitle,
		arg.SearchDescription,
		arg.ShowInMenus,
		arg.HasUnpublishedChanges,
		arg.UpdatedAt,
		arg.ID,
	)
	return mapError(err)
}

const publishPage = `UPDATE pages SET
    live = 1,
    has_unpublished_changes = 0,
    first_published_at = COALESCE(first_published_at, ?),
    last_published_at = ?,
    live_revision_id = ?,
    updated_at = ?
WHERE id = ?`

type PublishPageParams struct {
	PublishedAt    time.Time
	LiveRevisionID int64
	ID             int64
}

// PublishPage marks a page live. first_published_at is only set once.
func (q *Queries) PublishPage(ctx context.Context, arg PublishPageParams) error {
	_, err := q.db.ExecContext(ctx, publishPage,
		arg.PublishedAt,
		arg.PublishedAt,
		arg.LiveRevisionID,
		arg.PublishedAt,
		arg.ID,
	)
	return mapError(err)
}

const unpublishSubtree = `UPDATE pages SET live = 0, live_revision_id = NULL, updated_at = ?
WHERE substr(path, 1, length(?2)) = ?2`

type UnpublishSubtreeParams struct {
	UpdatedAt time.Time
	Path      string
}

func (q *Queries) UnpublishSubtree(ctx context.Context, arg UnpublishSubtreeParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, unpublishSubtree, arg.UpdatedAt, arg.Path)
	if err != nil {
		return 0, mapError(err)
	}
	return result.RowsAffected()
}

const addNumchild = `UPDATE pages SET numchild = numchild + ? WHERE id = ?`

type AddNumchildParams struct {
	Delta int64
	ID    int64
}

func (q *Queries) AddNumchild(ctx context.Context, arg AddNumchildParams) error {
	_, err := q.db.ExecContext(ctx, addNumchild, arg.Delta, arg.ID)
	return mapError(err)
}

const setPageParent = `UPDATE pages SET parent_id = ?, updated_at = ? WHERE id = ?`

type SetPageParentParams struct {
	ParentID  int64
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) SetPageParent(ctx context.Context, arg SetPageParentParams) error {
	_, err := q.db.ExecContext(ctx, setPageParent, arg.ParentID, arg.UpdatedAt, arg.ID)
	return mapError(err)
}

const rewriteSubtreePath = `UPDATE pages SET path = ?1 || substr(path, length(?2) + 1)
WHERE substr(path, 1, length(?2)) = ?2`

type RewriteSubtreePathParams struct {
	NewPrefix string
	OldPrefix string
}

// RewriteSubtreePath replaces OldPrefix with NewPrefix on a node and all of
// its descendants.
func (q *Queries) RewriteSubtreePath(ctx context.Context, arg RewriteSubtreePathParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, rewriteSubtreePath, arg.NewPrefix, arg.OldPrefix)
	if err != nil {
		return 0, mapError(err)
	}
	return result.RowsAffected()
}

const (
	countSubtree  = `SELECT COUNT(*) FROM pages WHERE substr(path, 1, length(?1)) = ?1`
	deleteSubtree = `DELETE FROM pages WHERE substr(path, 1, length(?1)) = ?1`
)

// DeleteSubtree removes the page at path and every descendant and returns
// the size of the subtree. RowsAffected is not used since SQLite leaves
// rows removed by the parent_id cascade out of it.
func (q *Queries) DeleteSubtree(ctx context.Context, path string) (int64, error) {
	n, err := q.count(ctx, countSubtree, path)
	if err != nil {
		return 0, mapError(err)
	}
	if _, err := q.db.ExecContext(ctx, deleteSubtree, path); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

const createPageRevision = `INSERT INTO page_revisions (page_id, user_id, content, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, page_id, user_id, content, created_at`

type CreatePageRevisionParams struct {
	PageID    int64
	UserID    sql.NullInt64
	Content   string
	CreatedAt time.Time
}

func (q *Queries) CreatePageRevision(ctx context.Context, arg CreatePageRevisionParams) (PageRevision, error) {
	row := q.db.QueryRowContext(ctx, createPageRevision, arg.PageID, arg.UserID, arg.Content, arg.CreatedAt)
	var i PageRevision
	err := row.Scan(&i.ID, &i.PageID, &i.UserID, &i.Content, &i.CreatedAt)
	return i, mapError(err)
}

const getPageRevision = `SELECT id, page_id, user_id, content, created_at FROM page_revisions WHERE id = ?`

func (q *Queries) GetPageRevision(ctx context.Context, id int64) (PageRevision, error) {
	var i PageRevision
	err := q.db.QueryRowContext(ctx, getPageRevision, id).Scan(&i.ID, &i.PageID, &i.UserID, &i.Content, &i.CreatedAt)
	return i, mapError(err)
}

const countPageRevisions = `SELECT COUNT(*) FROM page_revisions WHERE page_id = ?`

func (q *Queries) CountPageRevisions(ctx context.Context, pageID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPageRevisions, pageID).Scan(&count)
	return count, err
}

const getLocaleID = `SELECT id FROM locales WHERE language_code = ?`

// GetLocaleID resolves a language code such as "en" to its locale id.
func (q *Queries) GetLocaleID(ctx context.Context, languageCode string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, getLocaleID, languageCode).Scan(&id)
	return id, mapError(err)
}
