// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/handler"
	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/richtext"
	"github.com/olegiv/bakery/internal/store"
)

// PageMeta is the meta object of a page in listings.
type PageMeta struct {
	Type             string     `json:"type"`
	DetailURL        string     `json:"detail_url"`
	HTMLURL          *string    `json:"html_url"`
	Slug             string     `json:"slug"`
	FirstPublishedAt *time.Time `json:"first_published_at"`
	Locale           string     `json:"locale"`
}

// PageSummary represents a page in listings.
type PageSummary struct {
	ID    int64    `json:"id"`
	Meta  PageMeta `json:"meta"`
	Title string   `json:"title"`
}

// PageDetailMeta is the meta object of a page detail.
type PageDetailMeta struct {
	PageMeta
	ShowInMenus       bool     `json:"show_in_menus"`
	SeoTitle          string   `json:"seo_title"`
	SearchDescription string   `json:"search_description"`
	AliasOf           *int64   `json:"alias_of"`
	Parent            *PageRef `json:"parent"`
}

// PageRefMeta is the meta object of a nested page reference.
type PageRefMeta struct {
	Type      string  `json:"type"`
	DetailURL string  `json:"detail_url"`
	HTMLURL   *string `json:"html_url"`
}

// PageRef is a page nested in another response.
type PageRef struct {
	ID    int64       `json:"id"`
	Meta  PageRefMeta `json:"meta"`
	Title string      `json:"title"`
}

// CollectionRef is a collection nested in page content.
type CollectionRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PersonRef is a blog author.
type PersonRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	JobTitle  string `json:"job_title"`
}

var pageParams = allowedParams("type", "child_of", "descendant_of", "slug", "show_in_menus", "locale", "search")

// ListPages handles GET /api/v2/pages/
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f, err := h.pageFilter(ctx, r.URL.Query())
	if err != nil {
		h.fail(w, r, "page", err)
		return
	}

	pages, total, err := h.pages.ListLive(ctx, f)
	if err != nil {
		h.fail(w, r, "page", err)
		return
	}

	res, err := h.newResolver(ctx)
	if err == nil {
		err = res.load(ctx, pages...)
	}
	if err != nil {
		h.fail(w, r, "page", err)
		return
	}

	items := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		items = append(items, PageSummary{ID: p.ID, Meta: h.pageMeta(p, res), Title: p.Title})
	}
	handler.WriteJSON(w, http.StatusOK, newListing(items, total))
}

// pageFilter validates the listing query.
func (h *Handler) pageFilter(ctx context.Context, q url.Values) (store.PageFilter, error) {
	if err := handler.CheckQueryKeys(q, pageParams); err != nil {
		return store.PageFilter{}, err
	}
	pg, err := h.parsePaging(q, store.PageOrderFields)
	if err != nil {
		return store.PageFilter{}, err
	}
	f := store.PageFilter{
		Slug:   q.Get("slug"),
		Locale: q.Get("locale"),
		Search: q.Get("search"),
		Order:  pg.Order,
		Limit:  pg.Limit,
		Offset: pg.Offset,
	}

	anyType := false
	for _, name := range splitList(q.Get("type")) {
		t := model.PageType(name)
		if !model.IsKnownType(t) {
			return f, badParam("type doesn't exist")
		}
		if t == model.TypeRoot {
			anyType = true
		}
		f.Types = append(f.Types, name)
	}
	if anyType {
		f.Types = nil
	}

	if f.ShowInMenus, err = handler.QueryBool(q, "show_in_menus"); err != nil {
		return f, err
	}

	childOf, err := handler.QueryID(q, "child_of")
	if err != nil {
		return f, err
	}
	if childOf != 0 {
		if _, err := h.pages.Get(ctx, childOf); err != nil {
			if store.IsNotFound(err) {
				return f, badParam("parent page doesn't exist")
			}
			return f, err
		}
		f.ChildOf = childOf
	}

	descendantOf, err := handler.QueryID(q, "descendant_of")
	if err != nil {
		return f, err
	}
	if descendantOf != 0 {
		ancestor, err := h.pages.Get(ctx, descendantOf)
		if err != nil {
			if store.IsNotFound(err) {
				return f, badParam("ancestor page doesn't exist")
			}
			return f, err
		}
		f.DescendantOf = ancestor.Path
	}
	return f, nil
}

// GetPage handles GET /api/v2/pages/{id}/
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, "page", cache.PrefixPages, h.pageDetail)
}

func (h *Handler) pageDetail(ctx context.Context, id int64) (any, error) {
	p, err := h.pages.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Live || p.IsRoot() {
		return nil, errNotFound
	}

	res, err := h.newResolver(ctx)
	if err != nil {
		return nil, err
	}

	var parent *model.Page
	if p.ParentID != 0 {
		parent, err = h.pages.Get(ctx, p.ParentID)
		if err != nil && !store.IsNotFound(err) {
			return nil, err
		}
		if parent != nil && (!parent.Live || parent.IsRoot()) {
			parent = nil
		}
	}
	if err := res.load(ctx, p, parent); err != nil {
		return nil, err
	}

	fields, err := h.contentFields(ctx, p, res)
	if err != nil {
		return nil, err
	}

	meta := PageDetailMeta{
		PageMeta:          h.pageMeta(p, res),
		ShowInMenus:       p.ShowInMenus,
		SeoTitle:          p.SeoTitle,
		SearchDescription: p.SearchDescription,
		AliasOf:           p.AliasOfID,
	}
	if parent != nil {
		ref := h.pageRef(parent, res)
		meta.Parent = &ref
	}

	fields["id"] = p.ID
	fields["meta"] = meta
	fields["title"] = p.Title
	return fields, nil
}

func (h *Handler) pageMeta(p *model.Page, res *urlResolver) PageMeta {
	return PageMeta{
		Type:             string(p.Type()),
		DetailURL:        h.detailURL("pages", p.ID),
		HTMLURL:          res.htmlURL(p),
		Slug:             p.Slug,
		FirstPublishedAt: p.FirstPublishedAt,
		Locale:           p.Locale,
	}
}

func (h *Handler) pageRef(p *model.Page, res *urlResolver) PageRef {
	return PageRef{
		ID: p.ID,
		Meta: PageRefMeta{
			Type:      string(p.Type()),
			DetailURL: h.detailURL("pages", p.ID),
			HTMLURL:   res.htmlURL(p),
		},
		Title: p.Title,
	}
}

// contentFields returns the page variant's fields as served: bodies with
// rendered markdown and references expanded into nested objects. A
// reference to a missing record is served as null.
func (h *Handler) contentFields(ctx context.Context, p *model.Page, res *urlResolver) (map[string]any, error) {
	encoded, err := model.EncodeContent(p.Content)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return nil, fmt.Errorf("decoding content of page %d: %w", p.ID, err)
	}
	fields := make(map[string]any, len(raw)+5)
	for k, v := range raw {
		fields[k] = v
	}

	if v, ok := raw["body"]; ok {
		var body richtext.Stream
		if err := json.Unmarshal(v, &body); err != nil {
			return nil, fmt.Errorf("decoding body of page %d: %w", p.ID, err)
		}
		rendered, err := richtext.ForAPI(body)
		if err != nil {
			return nil, err
		}
		fields["body"] = rendered
	}

	for _, ref := range model.RefsOf(p.Content) {
		if ref.Field == "body" {
			continue
		}
		var v any
		var err error
		switch ref.Kind {
		case model.RefImage:
			v, err = h.imageRef(ctx, ref.ID)
		case model.RefPage:
			v, err = h.linkedPage(ctx, ref.ID, res)
		case model.RefCollection:
			v, err = h.collectionRef(ctx, ref.ID)
		case model.RefCountry:
			v, err = h.countryRef(ctx, ref.ID)
		case model.RefBreadType:
			v, err = h.breadTypeRef(ctx, ref.ID)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		fields[ref.Field] = v
	}

	switch p.Content.(type) {
	case *model.BreadPage:
		ingredients, err := h.pages.BreadIngredients(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if ingredients == nil {
			ingredients = []model.BreadIngredient{}
		}
		fields["ingredients"] = ingredients
	case *model.BlogPage:
		people, err := h.pages.BlogAuthors(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		authors := make([]PersonRef, 0, len(people))
		for _, person := range people {
			authors = append(authors, PersonRef{
				ID:        person.ID,
				FirstName: person.FirstName,
				LastName:  person.LastName,
				JobTitle:  person.JobTitle,
			})
		}
		tags, err := h.pages.Tags(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if tags == nil {
			tags = []string{}
		}
		fields["authors"] = authors
		fields["tags"] = tags
	}
	return fields, nil
}

func (h *Handler) linkedPage(ctx context.Context, id int64, res *urlResolver) (*PageRef, error) {
	linked, err := h.pages.Get(ctx, id)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := res.load(ctx, linked); err != nil {
		return nil, err
	}
	ref := h.pageRef(linked, res)
	return &ref, nil
}

func (h *Handler) collectionRef(ctx context.Context, id int64) (*CollectionRef, error) {
	c, err := h.media.GetCollection(ctx, id)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &CollectionRef{ID: c.ID, Name: c.Name}, nil
}

func (h *Handler) countryRef(ctx context.Context, id int64) (*model.Country, error) {
	c, err := h.snippets.GetCountry(ctx, id)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (h *Handler) breadTypeRef(ctx context.Context, id int64) (*model.BreadType, error) {
	b, err := h.snippets.GetBreadType(ctx, id)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
