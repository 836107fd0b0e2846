// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/handler"
	"github.com/olegiv/bakery/internal/imaging"
	"github.com/olegiv/bakery/internal/middleware"
	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/richtext"
	"github.com/olegiv/bakery/internal/service"
	"github.com/olegiv/bakery/internal/storage"
	"github.com/olegiv/bakery/internal/testutil"
)

const testBaseURL = "http://localhost:8000"

// testEnv is a migrated database with services, a shared cache and the
// API mounted the way the server mounts it.
type testEnv struct {
	pages    *service.PageService
	media    *service.MediaService
	snippets *service.SnippetService
	sites    *service.SiteService
	router   http.Handler
}

// fixture holds the records created by seedFixture.
type fixture struct {
	home      *model.Page
	blogIndex *model.Page
	post      *model.Page
	bread     *model.Page
	draft     *model.Page
	image     model.Image
	document  model.Document
	author    model.Person
	country   model.Country
	rye       model.BreadIngredient
}

func testSetup(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })

	env := &testEnv{
		pages:    service.NewPageService(db, c, logger),
		media:    service.NewMediaService(db, storage.NewMemoryBackend(), nil, c, logger),
		snippets: service.NewSnippetService(db, c, logger),
		sites:    service.NewSiteService(db, c, logger),
	}

	h := NewHandler(Services{
		Pages:    env.pages,
		Media:    env.media,
		Snippets: env.snippets,
		Sites:    env.sites,
	}, c, Config{BaseURL: testBaseURL + "/", LimitMax: 20, CacheTTL: time.Minute}, logger)

	r := chi.NewRouter()
	r.Use(middleware.AppendTrailingSlash(handler.RouteAPI + "/"))
	r.Route(handler.RouteAPI, h.Routes)
	env.router = r
	return env
}

func paragraph(text string) richtext.Stream {
	return richtext.Stream{richtext.StringValue(richtext.BlockParagraph, "<p>"+text+"</p>")}
}

// seedFixture builds home > {blog > post, bread, draft} with a default site
// on home.
func seedFixture(t *testing.T, env *testEnv) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture
	var err error

	png, err := imaging.NewProcessor(0).Placeholder(64, 48,
		color.NRGBA{R: 210, G: 160, B: 90, A: 255},
		color.NRGBA{R: 90, G: 50, B: 20, A: 255})
	must(t, err)
	f.image, err = env.media.CreateImage(ctx, service.Upload{
		Title: "Crust", Filename: "crust.png", Body: bytes.NewReader(png.Data), Tags: []string{"crust", "loaf"},
	})
	must(t, err)
	f.document, err = env.media.CreateDocument(ctx, service.Upload{
		Title: "Price list", Filename: "prices.txt", Body: strings.NewReader("rye 4.50\n"),
	})
	must(t, err)

	f.author, err = env.snippets.CreatePerson(ctx, model.Person{FirstName: "Ada", LastName: "Baker", JobTitle: "Head baker"})
	must(t, err)
	f.country, err = env.snippets.CreateCountry(ctx, "Germany")
	must(t, err)
	f.rye, err = env.snippets.CreateBreadIngredient(ctx, "Rye flour")
	must(t, err)

	f.home = insert(t, env, model.RootPageID, model.NewPage("Home", &model.HomePage{HeroText: "Fresh bread"}))
	_, err = env.sites.Create(ctx, model.Site{Hostname: "localhost", RootPageID: f.home.ID, IsDefaultSite: true, SiteName: "Bakery"})
	must(t, err)

	f.blogIndex = insert(t, env, f.home.ID, model.NewPage("Blog", &model.BlogIndexPage{Introduction: "News"}))
	f.post = insert(t, env, f.blogIndex.ID, model.NewPage("Rye Day", &model.BlogPage{
		Introduction:  "All about rye",
		ImageID:       &f.image.ID,
		Body:          paragraph("Rye is back"),
		DatePublished: model.MustDate("2024-07-05"),
	}))
	must(t, env.pages.SetBlogAuthors(ctx, f.post.ID, []int64{f.author.ID}))
	must(t, env.pages.SetTags(ctx, f.post.ID, []string{"rye"}))

	f.bread = insert(t, env, f.home.ID, model.NewPage("Pumpernickel", &model.BreadPage{
		Introduction:  "Dark and dense",
		OriginID:      &f.country.ID,
		IngredientIDs: []int64{f.rye.ID},
	}))

	draft := model.NewPage("Secret loaf", &model.StandardPage{Body: paragraph("not yet")})
	draft.Live = false
	f.draft = insert(t, env, f.home.ID, draft)
	return f
}

func insert(t *testing.T, env *testEnv, parentID int64, p *model.Page) *model.Page {
	t.Helper()
	created, err := env.pages.Insert(context.Background(), parentID, p)
	must(t, err)
	return created
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// get performs a request against the router and decodes a JSON object body.
func get(t *testing.T, env *testEnv, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	var body map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decoding %s: %v (%s)", target, err, w.Body.String())
		}
	}
	return w, body
}

func items(t *testing.T, body map[string]any) []map[string]any {
	t.Helper()
	raw, ok := body["items"].([]any)
	if !ok {
		t.Fatalf("items missing in %v", body)
	}
	out := make([]map[string]any, len(raw))
	for i, item := range raw {
		out[i] = item.(map[string]any)
	}
	return out
}

func totalCount(t *testing.T, body map[string]any) int {
	t.Helper()
	meta, ok := body["meta"].(map[string]any)
	if !ok {
		t.Fatalf("meta missing in %v", body)
	}
	return int(meta["total_count"].(float64))
}

func metaOf(item map[string]any) map[string]any {
	meta, _ := item["meta"].(map[string]any)
	return meta
}
