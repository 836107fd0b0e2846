// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"strings"

	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/service"
	"github.com/olegiv/bakery/internal/tree"
)

// urlResolver builds public page URLs from the sites and the slugs of the
// ancestors between a site root and the page. Slugs are fetched in batches
// and kept for the lifetime of one request.
type urlResolver struct {
	pages *service.PageService
	roots []service.SiteRoot
	slugs map[string]string
}

func (h *Handler) newResolver(ctx context.Context) (*urlResolver, error) {
	roots, err := h.sites.Roots(ctx)
	if err != nil {
		return nil, err
	}
	return &urlResolver{pages: h.pages, roots: roots, slugs: map[string]string{}}, nil
}

// siteFor returns the site with the deepest root covering path. Roots come
// with the default site first, so it wins a tie.
func (u *urlResolver) siteFor(path string) (service.SiteRoot, bool) {
	var best service.SiteRoot
	found := false
	for _, root := range u.roots {
		if !strings.HasPrefix(path, root.RootPath) {
			continue
		}
		if !found || len(root.RootPath) > len(best.RootPath) {
			best, found = root, true
		}
	}
	return best, found
}

// load fetches the slugs htmlURL needs for pages.
func (u *urlResolver) load(ctx context.Context, pages ...*model.Page) error {
	seen := map[string]bool{}
	var missing []string
	for _, p := range pages {
		if p == nil {
			continue
		}
		root, ok := u.siteFor(p.Path)
		if !ok {
			continue
		}
		for _, a := range tree.Ancestors(p.Path) {
			if len(a) <= len(root.RootPath) || seen[a] {
				continue
			}
			if _, cached := u.slugs[a]; !cached {
				seen[a] = true
				missing = append(missing, a)
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slugs, err := u.pages.SlugsByPath(ctx, missing)
	if err != nil {
		return err
	}
	for path, slug := range slugs {
		u.slugs[path] = slug
	}
	return nil
}

// htmlURL returns the page's public URL, or nil when no site serves it.
func (u *urlResolver) htmlURL(p *model.Page) *string {
	root, ok := u.siteFor(p.Path)
	if !ok {
		return nil
	}
	url := root.RootURL() + "/"
	if p.Path != root.RootPath {
		var parts []string
		for _, a := range tree.Ancestors(p.Path) {
			if len(a) > len(root.RootPath) {
				parts = append(parts, u.slugs[a])
			}
		}
		parts = append(parts, p.Slug)
		url += strings.Join(parts, "/") + "/"
	}
	return &url
}
