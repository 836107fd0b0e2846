// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type Page struct {
	ID                    int64         `json:"id"`
	ParentID              sql.NullInt64 `json:"parent_id"`
	Path                  string        `json:"path"`
	Numchild              int64         `json:"numchild"`
	PageType              string        `json:"page_type"`
	Title                 string        `json:"title"`
	Slug                  string        `json:"slug"`
	Content               string        `json:"content"`
	Live                  bool          `json:"live"`
	HasUnpublishedChanges bool          `json:"has_unpublished_changes"`
	FirstPublishedAt      sql.NullTime  `json:"first_published_at"`
	LastPublishedAt       sql.NullTime  `json:"last_published_at"`
	LiveRevisionID        sql.NullInt64 `json:"live_revision_id"`
	SeoTitle              string        `json:"seo_title"`
	SearchDescription     string        `json:"search_description"`
	ShowInMenus           bool          `json:"show_in_menus"`
	LocaleID              int64         `json:"locale_id"`
	LocaleCode            string        `json:"locale_code"`
	AliasOfID             sql.NullInt64 `json:"alias_of_id"`
	TranslationKey        string        `json:"translation_key"`
	OwnerID               sql.NullInt64 `json:"owner_id"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

type PageRevision struct {
	ID        int64         `json:"id"`
	PageID    int64         `json:"page_id"`
	UserID    sql.NullInt64 `json:"user_id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
}

type Collection struct {
	ID        int64         `json:"id"`
	ParentID  sql.NullInt64 `json:"parent_id"`
	Path      string        `json:"path"`
	Numchild  int64         `json:"numchild"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
}

type Image struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	File         string    `json:"file"`
	Width        int64     `json:"width"`
	Height       int64     `json:"height"`
	FileSize     int64     `json:"file_size"`
	FileHash     string    `json:"file_hash"`
	MimeType     string    `json:"mime_type"`
	CollectionID int64     `json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type ImageRendition struct {
	ID         int64  `json:"id"`
	ImageID    int64  `json:"image_id"`
	FilterSpec string `json:"filter_spec"`
	File       string `json:"file"`
	Width      int64  `json:"width"`
	Height     int64  `json:"height"`
}

type Document struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	File         string    `json:"file"`
	FileSize     int64     `json:"file_size"`
	FileHash     string    `json:"file_hash"`
	MimeType     string    `json:"mime_type"`
	CollectionID int64     `json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Country struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type BreadType struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type BreadIngredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Person struct {
	ID        int64         `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	JobTitle  string        `json:"job_title"`
	ImageID   sql.NullInt64 `json:"image_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type FooterText struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

type GenericSetting struct {
	ID              int64  `json:"id"`
	TwitterUrl      string `json:"twitter_url"`
	GithubUrl       string `json:"github_url"`
	OrganisationUrl string `json:"organisation_url"`
}

type BlogPersonRelationship struct {
	ID        int64 `json:"id"`
	PageID    int64 `json:"page_id"`
	PersonID  int64 `json:"person_id"`
	SortOrder int64 `json:"sort_order"`
}

type Site struct {
	ID            int64  `json:"id"`
	Hostname      string `json:"hostname"`
	Port          int64  `json:"port"`
	SiteName      string `json:"site_name"`
	RootPageID    int64  `json:"root_page_id"`
	IsDefaultSite bool   `json:"is_default_site"`
}

type SiteSetting struct {
	ID          int64  `json:"id"`
	SiteID      int64  `json:"site_id"`
	TitleSuffix string `json:"title_suffix"`
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserApprovalTask struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type EventLog struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}
