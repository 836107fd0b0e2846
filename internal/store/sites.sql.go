// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Sites

const siteColumns = `id, hostname, port, site_name, root_page_id, is_default_site`

func scanSite(row rowScanner) (Site, error) {
	var i Site
	err := row.Scan(&i.ID, &i.Hostname, &i.Port, &i.SiteName, &i.RootPageID, &i.IsDefaultSite)
	return i, err
}

const createSite = `INSERT INTO sites (hostname, port, site_name, root_page_id, is_default_site)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + siteColumns

type CreateSiteParams struct {
	Hostname      string
	Port          int64
	SiteName      string
	RootPageID    int64
	IsDefaultSite bool
}

func (q *Queries) CreateSite(ctx context.Context, arg CreateSiteParams) (Site, error) {
	i, err := scanSite(q.db.QueryRowContext(ctx, createSite,
		arg.Hostname, arg.Port, arg.SiteName, arg.RootPageID, arg.IsDefaultSite))
	return i, mapError(err)
}

const getSite = `SELECT ` + siteColumns + ` FROM sites WHERE id = ?`

func (q *Queries) GetSite(ctx context.Context, id int64) (Site, error) {
	i, err := scanSite(q.db.QueryRowContext(ctx, getSite, id))
	return i, mapError(err)
}

const getDefaultSite = `SELECT ` + siteColumns + ` FROM sites WHERE is_default_site = 1 ORDER BY id LIMIT 1`

func (q *Queries) GetDefaultSite(ctx context.Context) (Site, error) {
	i, err := scanSite(q.db.QueryRowContext(ctx, getDefaultSite))
	return i, mapError(err)
}

const clearDefaultSite = `UPDATE sites SET is_default_site = 0 WHERE is_default_site = 1`

func (q *Queries) ClearDefaultSite(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, clearDefaultSite)
	return mapError(err)
}

// SiteRoot pairs a site with the tree path of its root page.
type SiteRoot struct {
	Site
	RootPath string
}

const listSiteRoots = `SELECT s.id, s.hostname, s.port, s.site_name, s.root_page_id, s.is_default_site, p.path
FROM sites s JOIN pages p ON p.id = s.root_page_id
ORDER BY s.is_default_site DESC, s.id`

func (q *Queries) ListSiteRoots(ctx context.Context) ([]SiteRoot, error) {
	rows, err := q.db.QueryContext(ctx, listSiteRoots)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SiteRoot
	for rows.Next() {
		var i SiteRoot
		if err := rows.Scan(
			&i.ID,
			&i.Hostname,
			&i.Port,
			&i.SiteName,
			&i.RootPageID,
			&i.IsDefaultSite,
			&i.RootPath,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getSiteSettings = `SELECT id, site_id, title_suffix FROM site_settings WHERE site_id = ?`

func (q *Queries) GetSiteSettings(ctx context.Context, siteID int64) (SiteSetting, error) {
	var i SiteSetting
	err := q.db.QueryRowContext(ctx, getSiteSettings, siteID).Scan(&i.ID, &i.SiteID, &i.TitleSuffix)
	return i, mapError(err)
}

const upsertSiteSettings = `INSERT INTO site_settings (site_id, title_suffix) VALUES (?, ?)
ON CONFLICT (site_id) DO UPDATE SET title_suffix = excluded.title_suffix
RETURNING id, site_id, title_suffix`

type UpsertSiteSettingsParams struct {
	SiteID      int64
	TitleSuffix string
}

func (q *Queries) UpsertSiteSettings(ctx context.Context, arg UpsertSiteSettingsParams) (SiteSetting, error) {
	var i SiteSetting
	err := q.db.QueryRowContext(ctx, upsertSiteSettings, arg.SiteID, arg.TitleSuffix).Scan(&i.ID, &i.SiteID, &i.TitleSuffix)
	return i, mapError(err)
}

// Blog authorship

const createBlogPersonRelationship = `INSERT INTO blog_person_relationships (page_id, person_id, sort_order)
VALUES (?, ?, ?)
RETURNING id, page_id, person_id, sort_order`

type CreateBlogPersonRelationshipParams struct {
	PageID    int64
	PersonID  int64
	SortOrder int64
}

func (q *Queries) CreateBlogPersonRelationship(ctx context.Context, arg CreateBlogPersonRelationshipParams) (BlogPersonRelationship, error) {
	var i BlogPersonRelationship
	err := q.db.QueryRowContext(ctx, createBlogPersonRelationship, arg.PageID, arg.PersonID, arg.SortOrder).
		Scan(&i.ID, &i.PageID, &i.PersonID, &i.SortOrder)
	return i, mapError(err)
}

const clearBlogAuthors = `DELETE FROM blog_person_relationships WHERE page_id = ?`

func (q *Queries) ClearBlogAuthors(ctx context.Context, pageID int64) error {
	_, err := q.db.ExecContext(ctx, clearBlogAuthors, pageID)
	return mapError(err)
}

const listBlogAuthors = `SELECT pe.id, pe.first_name, pe.last_name, pe.job_title, pe.image_id, pe.created_at, pe.updated_at
FROM blog_person_relationships r
JOIN people pe ON pe.id = r.person_id
WHERE r.page_id = ?
ORDER BY r.sort_order, r.id`

func (q *Queries) ListBlogAuthors(ctx context.Context, pageID int64) ([]Person, error) {
	rows, err := q.db.QueryContext(ctx, listBlogAuthors, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Person{}
	for rows.Next() {
		i, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Users

const userColumns = `id, username, email, password_hash, first_name, last_name, is_active, is_superuser, created_at`

func scanUser(row rowScanner) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.PasswordHash,
		&i.FirstName,
		&i.LastName,
		&i.IsActive,
		&i.IsSuperuser,
		&i.CreatedAt,
	)
	return i, err
}

const createUser = `INSERT INTO users (username, email, password_hash, first_name, last_name, is_active, is_superuser, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + userColumns

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	i, err := scanUser(q.db.QueryRowContext(ctx, createUser,
		arg.Username,
		arg.Email,
		arg.PasswordHash,
		arg.FirstName,
		arg.LastName,
		arg.IsActive,
		arg.IsSuperuser,
		arg.CreatedAt,
	))
	return i, mapError(err)
}

const getUser = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	i, err := scanUser(q.db.QueryRowContext(ctx, getUser, id))
	return i, mapError(err)
}

const getUserByUsername = `SELECT ` + userColumns + ` FROM users WHERE username = ?`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	i, err := scanUser(q.db.QueryRowContext(ctx, getUserByUsername, username))
	return i, mapError(err)
}

const countUsers = `SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	return q.count(ctx, countUsers)
}

// Workflow tasks

const createUserApprovalTask = `INSERT INTO user_approval_tasks (name, active, user_id, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, name, active, user_id, created_at`

type CreateUserApprovalTaskParams struct {
	Name      string
	Active    bool
	UserID    int64
	CreatedAt time.Time
}

func (q *Queries) CreateUserApprovalTask(ctx context.Context, arg CreateUserApprovalTaskParams) (UserApprovalTask, error) {
	var i UserApprovalTask
	err := q.db.QueryRowContext(ctx, createUserApprovalTask, arg.Name, arg.Active, arg.UserID, arg.CreatedAt).
		Scan(&i.ID, &i.Name, &i.Active, &i.UserID, &i.CreatedAt)
	return i, mapError(err)
}

const getUserApprovalTask = `SELECT id, name, active, user_id, created_at FROM user_approval_tasks WHERE id = ?`

func (q *Queries) GetUserApprovalTask(ctx context.Context, id int64) (UserApprovalTask, error) {
	var i UserApprovalTask
	err := q.db.QueryRowContext(ctx, getUserApprovalTask, id).
		Scan(&i.ID, &i.Name, &i.Active, &i.UserID, &i.CreatedAt)
	return i, mapError(err)
}

// Event log

const createEvent = `INSERT INTO event_log (level, category, message, metadata, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, level, category, message, metadata, created_at`

type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (EventLog, error) {
	var i EventLog
	err := q.db.QueryRowContext(ctx, createEvent, arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt).
		Scan(&i.ID, &i.Level, &i.Category, &i.Message, &i.Metadata, &i.CreatedAt)
	return i, mapError(err)
}

const listEvents = `SELECT id, level, category, message, metadata, created_at
FROM event_log ORDER BY created_at DESC, id DESC LIMIT ?`

func (q *Queries) ListEvents(ctx context.Context, limit int64) ([]EventLog, error) {
	rows, err := q.db.QueryContext(ctx, listEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EventLog
	for rows.Next() {
		var i EventLog
		if err := rows.Scan(&i.ID, &i.Level, &i.Category, &i.Message, &i.Metadata, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteEventsBefore = `DELETE FROM event_log WHERE created_at < ?`

func (q *Queries) DeleteEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	return q.execAffected(ctx, deleteEventsBefore, before)
}
