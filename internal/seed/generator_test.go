// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seed

import (
	"bytes"
	"context"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/service"
	"github.com/olegiv/bakery/internal/storage"
	"github.com/olegiv/bakery/internal/testutil"
)

func newTestGenerator(t *testing.T) (*Generator, Services) {
	t.Helper()
	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()
	svc := Services{
		Pages:    service.NewPageService(db, nil, logger),
		Media:    service.NewMediaService(db, storage.NewMemoryBackend(), nil, nil, logger),
		Snippets: service.NewSnippetService(db, nil, logger),
		Sites:    service.NewSiteService(db, nil, logger),
		Events:   service.NewEventService(db, logger),
		Users:    service.NewUserService(db),
	}
	return NewGenerator(svc, rand.New(rand.NewSource(42)), logger), svc
}

func countOf(t *testing.T, fn func(context.Context) (int64, error)) int64 {
	t.Helper()
	n, err := fn(context.Background())
	require.NoError(t, err)
	return n
}

func countPages(t *testing.T, svc Services, pt model.PageType) int64 {
	t.Helper()
	n, err := svc.Pages.CountByType(context.Background(), pt)
	require.NoError(t, err)
	return n
}

func TestRunCreatesRequestedCounts(t *testing.T) {
	g, svc := newTestGenerator(t)

	counts, err := g.Run(context.Background(), 5, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, counts.Images)
	assert.Equal(t, 6, counts.StandardPages)

	assert.Equal(t, int64(5), countOf(t, svc.Media.CountImages))
	assert.Equal(t, int64(5), countOf(t, svc.Media.CountDocuments))

	assert.Equal(t, int64(5), countOf(t, svc.Snippets.CountCountries))
	assert.Equal(t, int64(5), countOf(t, svc.Snippets.CountBreadIngredients))
	assert.Equal(t, int64(5), countOf(t, svc.Snippets.CountBreadTypes))
	assert.Equal(t, int64(5), countOf(t, svc.Snippets.CountPeople))
	assert.Equal(t, int64(5), countOf(t, svc.Snippets.CountFooterTexts))

	assert.Equal(t, int64(5), countPages(t, svc, model.TypeBreadPage))
	assert.Equal(t, int64(5), countPages(t, svc, model.TypeLocationPage))
	assert.Equal(t, int64(5), countPages(t, svc, model.TypeBlogPage))
	assert.Equal(t, int64(6), countPages(t, svc, model.TypeStandardPage))

	events, err := svc.Events.Recent(context.Background(), 10)
	require.NoError(t, err)
	var found bool
	for _, e := range events {
		if e.Category == model.EventCategorySeed && e.Message == "Random data created" {
			found = true
			assert.EqualValues(t, 5, e.Metadata["images"])
		}
	}
	assert.True(t, found, "seed run should be recorded in the event log")
}

func TestRunBuildsMinimalTree(t *testing.T) {
	g, svc := newTestGenerator(t)
	ctx := context.Background()

	_, err := g.Run(ctx, 1, 1, 0)
	require.NoError(t, err)

	home, err := svc.Pages.FirstChildOfType(ctx, model.RootPageID, model.TypeHomePage)
	require.NoError(t, err)
	assert.Equal(t, 2, home.Depth())

	for _, pt := range []model.PageType{model.TypeBreadsIndexPage, model.TypeLocationsIndexPage, model.TypeBlogIndexPage} {
		index, err := svc.Pages.FirstChildOfType(ctx, home.ID, pt)
		require.NoError(t, err, pt)
		assert.True(t, index.Live, pt)
	}

	site, err := svc.Sites.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, home.ID, site.RootPageID)

	posts, err := svc.Pages.ListByType(ctx, model.TypeBlogPage)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	authors, err := svc.Pages.BlogAuthors(ctx, posts[0].ID)
	require.NoError(t, err)
	assert.Len(t, authors, 1)

	revisions, err := svc.Pages.CountRevisions(ctx, posts[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), revisions)
}

func TestRunAssignsPageOwner(t *testing.T) {
	g, svc := newTestGenerator(t)
	ctx := context.Background()

	_, err := g.Run(ctx, 1, 1, 0)
	require.NoError(t, err)
	posts, err := svc.Pages.ListByType(ctx, model.TypeBlogPage)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Nil(t, posts[0].OwnerID, "no owner account exists yet")

	owner, err := svc.Users.Create(ctx, model.User{Username: OwnerUsername, Email: "admin@example.com"}, "secret-password")
	require.NoError(t, err)

	g2 := NewGenerator(svc, rand.New(rand.NewSource(7)), testutil.TestLoggerSilent())
	_, err = g2.Run(ctx, 1, 1, 0)
	require.NoError(t, err)
	posts, err = svc.Pages.ListByType(ctx, model.TypeBlogPage)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	var owned int
	for _, p := range posts {
		if p.OwnerID != nil && *p.OwnerID == owner.ID {
			owned++
		}
	}
	assert.Equal(t, 1, owned)
}

func TestRunIsNotIdempotent(t *testing.T) {
	g, svc := newTestGenerator(t)
	ctx := context.Background()

	_, err := g.Run(ctx, 2, 1, 1)
	require.NoError(t, err)
	_, err = g.Run(ctx, 2, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(4), countPages(t, svc, model.TypeBreadPage))
	assert.Equal(t, int64(6), countPages(t, svc, model.TypeStandardPage))
	assert.Equal(t, int64(2), countOf(t, svc.Media.CountImages))
	// the index pages are reused
	assert.Equal(t, int64(1), countPages(t, svc, model.TypeHomePage))
	assert.Equal(t, int64(1), countPages(t, svc, model.TypeBlogIndexPage))
}

func TestRunRejectsNegativeCounts(t *testing.T) {
	g, _ := newTestGenerator(t)

	_, err := g.Run(context.Background(), -1, 0, 0)
	assert.Error(t, err)
}

func TestRunWarnsWhenEventLogFails(t *testing.T) {
	_, svc := newTestGenerator(t)

	closed := testutil.TestDB(t)
	require.NoError(t, closed.Close())
	svc.Events = service.NewEventService(closed, testutil.TestLoggerSilent())

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	g := NewGenerator(svc, rand.New(rand.NewSource(1)), logger)

	_, err := g.Run(context.Background(), 1, 1, 0)
	require.NoError(t, err, "a failing event log does not fail the run")
	assert.Contains(t, buf.String(), "recording seed run failed")
}
