// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

func seedListingPages(t *testing.T, q *Queries) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	pages := []struct {
		parent int64
		path   string
		typ    string
		title  string
		live   bool
		menus  bool
	}{
		{1, "00010001", "base.HomePage", "Home", true, true},           // id 2
		{2, "000100010001", "blog.BlogIndexPage", "Blog", true, true},  // id 3
		{3, "0001000100010001", "blog.BlogPage", "Rye 100%", true, false}, // id 4
		{3, "0001000100010002", "blog.BlogPage", "Spelt", true, false},    // id 5
		{3, "0001000100010003", "blog.BlogPage", "Draft", false, false},   // id 6
	}
	for _, p := range pages {
		_, err := q.CreatePage(ctx, CreatePageParams{
			ParentID:       sql.NullInt64{Int64: p.parent, Valid: true},
			Path:           p.path,
			PageType:       p.typ,
			Title:          p.title,
			Slug:           p.path,
			Content:        "{}",
			Live:           p.live,
			ShowInMenus:    p.menus,
			LocaleID:       1,
			TranslationKey: p.path,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			t.Fatalf("CreatePage(%s): %v", p.title, err)
		}
	}
}

func titles(pages []Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Title
	}
	return out
}

func TestListLivePages(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	seedListingPages(t, q)
	yes := true

	tests := []struct {
		name  string
		f     PageFilter
		want  []string
		total int64
	}{
		{"all live non-root", PageFilter{Limit: 20}, []string{"Home", "Blog", "Rye 100%", "Spelt"}, 4},
		{"by type", PageFilter{Types: []string{"blog.BlogPage"}, Limit: 20}, []string{"Rye 100%", "Spelt"}, 2},
		{"child of", PageFilter{ChildOf: 2, Limit: 20}, []string{"Blog"}, 1},
		{"descendant of", PageFilter{DescendantOf: "00010001", Limit: 20}, []string{"Blog", "Rye 100%", "Spelt"}, 3},
		{"show in menus", PageFilter{ShowInMenus: &yes, Limit: 20}, []string{"Home", "Blog"}, 2},
		{"search escapes wildcards", PageFilter{Search: "100%", Limit: 20}, []string{"Rye 100%"}, 1},
		{"search is case insensitive", PageFilter{Search: "spe", Limit: 20}, []string{"Spelt"}, 1},
		{"order descending", PageFilter{Order: "-title", Limit: 2}, []string{"Spelt", "Rye 100%"}, 4},
		{"offset", PageFilter{Limit: 2, Offset: 3}, []string{"Spelt"}, 4},
		{"unknown locale", PageFilter{Locale: "fr", Limit: 20}, []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, total, err := q.ListLivePages(ctx, tt.f)
			if err != nil {
				t.Fatalf("ListLivePages: %v", err)
			}
			if total != tt.total {
				t.Errorf("total = %d, want %d", total, tt.total)
			}
			got := titles(pages)
			if len(got) != len(tt.want) {
				t.Fatalf("titles = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("titles = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestListLivePagesUnknownOrder(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	_, _, err := New(db).ListLivePages(context.Background(), PageFilter{Order: "content", Limit: 20})
	if !errors.Is(err, ErrUnknownOrder) {
		t.Errorf("err = %v, want ErrUnknownOrder", err)
	}
}

func TestListImagesFilteredByTags(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	tag := func(objectID int64, names ...string) {
		t.Helper()
		for _, name := range names {
			tg, err := q.UpsertTag(ctx, UpsertTagParams{Name: name, Slug: name})
			if err != nil {
				t.Fatalf("UpsertTag: %v", err)
			}
			if err := q.AddTagging(ctx, AddTaggingParams{TagID: tg.ID, ObjectType: "image", ObjectID: objectID}); err != nil {
				t.Fatalf("AddTagging: %v", err)
			}
		}
	}

	for i, title := range []string{"Rye", "Sourdough", "Baguette"} {
		img, err := q.CreateImage(ctx, CreateImageParams{
			Title: title, File: "original_images/" + title + ".png", Width: 10, Height: 10,
			CollectionID: 1, CreatedAt: now,
		})
		if err != nil {
			t.Fatalf("CreateImage: %v", err)
		}
		switch i {
		case 0:
			tag(img.ID, "dark", "loaf")
		case 1:
			tag(img.ID, "loaf")
		}
	}

	images, total, err := q.ListImagesFiltered(ctx, MediaFilter{Tags: []string{"loaf"}, Limit: 20})
	if err != nil {
		t.Fatalf("ListImagesFiltered: %v", err)
	}
	if total != 2 || len(images) != 2 {
		t.Errorf("loaf images = %d (total %d), want 2", len(images), total)
	}

	images, total, err = q.ListImagesFiltered(ctx, MediaFilter{Tags: []string{"loaf", "dark"}, Limit: 20})
	if err != nil {
		t.Fatalf("ListImagesFiltered: %v", err)
	}
	if total != 1 || images[0].Title != "Rye" {
		t.Errorf("dark loaf images = %+v", images)
	}

	images, _, err = q.ListImagesFiltered(ctx, MediaFilter{Order: "-title", Limit: 1})
	if err != nil {
		t.Fatalf("ListImagesFiltered: %v", err)
	}
	if len(images) != 1 || images[0].Title != "Sourdough" {
		t.Errorf("first by -title = %+v", images)
	}
}

func TestPathSlugs(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	seedListingPages(t, q)

	slugs, err := q.PathSlugs(ctx, []string{"0001", "00010001", "9999"})
	if err != nil {
		t.Fatalf("PathSlugs: %v", err)
	}
	if len(slugs) != 2 || slugs["0001"] != "root" || slugs["00010001"] != "00010001" {
		t.Errorf("PathSlugs = %v", slugs)
	}
}
