// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the bakery's domain types: page variants with their
// validation rules, snippets, and media descriptors.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/olegiv/bakery/internal/tree"
)

// RootPageID is the id of the tree root created by the initial migration.
const RootPageID int64 = 1

// Page is a node of the page tree together with its typed content.
type Page struct {
	ID                    int64      `json:"id"`
	ParentID              int64      `json:"parent_id,omitempty"`
	Path                  string     `json:"path"`
	Numchild              int64      `json:"numchild"`
	Title                 string     `json:"title"`
	Slug                  string     `json:"slug"`
	Live                  bool       `json:"live"`
	HasUnpublishedChanges bool       `json:"has_unpublished_changes"`
	FirstPublishedAt      *time.Time `json:"first_published_at"`
	LastPublishedAt       *time.Time `json:"last_published_at"`
	LiveRevisionID        *int64     `json:"live_revision_id"`
	SeoTitle              string     `json:"seo_title"`
	SearchDescription     string     `json:"search_description"`
	ShowInMenus           bool       `json:"show_in_menus"`
	Locale                string     `json:"locale"`
	AliasOfID             *int64     `json:"alias_of"`
	TranslationKey        string     `json:"translation_key"`
	OwnerID               *int64     `json:"owner"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	Content               Content    `json:"-"`
}

// NewPage returns a live page with the given title and content.
func NewPage(title string, content Content) *Page {
	return &Page{Title: title, Live: true, Content: content}
}

// Type returns the content type name, or TypeRoot for untyped pages.
func (p *Page) Type() PageType {
	if p.Content == nil {
		return TypeRoot
	}
	return p.Content.PageType()
}

// Depth returns the page's tree depth; the root is 1.
func (p *Page) Depth() int {
	return tree.Depth(p.Path)
}

// IsRoot reports whether the page is the tree root.
func (p *Page) IsRoot() bool {
	return p.Depth() == 1
}

// IsPublished reports whether the page has ever been published.
func (p *Page) IsPublished() bool {
	return p.FirstPublishedAt != nil
}

// Revision is a stored snapshot of a page's editable state.
type Revision struct {
	ID        int64     `json:"id"`
	PageID    int64     `json:"page_id"`
	UserID    *int64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Snapshot  Snapshot  `json:"snapshot"`
}

// Snapshot is the serialized form of a page kept in a revision.
type Snapshot struct {
	Type              PageType        `json:"type"`
	Title             string          `json:"title"`
	Slug              string          `json:"slug"`
	SeoTitle          string          `json:"seo_title"`
	SearchDescription string          `json:"search_description"`
	ShowInMenus       bool            `json:"show_in_menus"`
	Content           json.RawMessage `json:"content"`
}

// TakeSnapshot captures p for a revision.
func TakeSnapshot(p *Page) (Snapshot, error) {
	raw, err := EncodeContent(p.Content)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Type:              p.Type(),
		Title:             p.Title,
		Slug:              p.Slug,
		SeoTitle:          p.SeoTitle,
		SearchDescription: p.SearchDescription,
		ShowInMenus:       p.ShowInMenus,
		Content:           json.RawMessage(raw),
	}, nil
}

// Apply copies the snapshot's editable fields onto p.
func (s Snapshot) Apply(p *Page) error {
	if s.Type != p.Type() {
		return fmt.Errorf("revision of %s cannot be applied to %s", s.Type, p.Type())
	}
	content, err := DecodeContent(s.Type, string(s.Content))
	if err != nil {
		return err
	}
	p.Title = s.Title
	p.Slug = s.Slug
	p.SeoTitle = s.SeoTitle
	p.SearchDescription = s.SearchDescription
	p.ShowInMenus = s.ShowInMenus
	p.Content = content
	return nil
}
