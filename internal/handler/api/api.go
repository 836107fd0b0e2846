// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api serves the read-only content API under /api/v2: live pages,
// images and documents as listings and details.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/handler"
	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/service"
	"github.com/olegiv/bakery/internal/store"
)

// DefaultLimit is the page size of a listing without ?limit.
const DefaultLimit = 20

// Services are the read paths the API is built on.
type Services struct {
	Pages    *service.PageService
	Media    *service.MediaService
	Snippets *service.SnippetService
	Sites    *service.SiteService
}

// Config tunes URLs and paging.
type Config struct {
	BaseURL  string        // absolute, without trailing slash
	LimitMax int           // upper bound of ?limit
	CacheTTL time.Duration // lifetime of cached detail responses
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	pages    *service.PageService
	media    *service.MediaService
	snippets *service.SnippetService
	sites    *service.SiteService
	details  *cache.TypedCache[json.RawMessage]
	baseURL  string
	limitMax int
	logger   *slog.Logger
}

// NewHandler creates the API handler. c may be nil to disable detail
// caching.
func NewHandler(svc Services, c cache.Cache, cfg Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LimitMax <= 0 {
		cfg.LimitMax = DefaultLimit
	}
	h := &Handler{
		pages:    svc.Pages,
		media:    svc.Media,
		snippets: svc.Snippets,
		sites:    svc.Sites,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		limitMax: cfg.LimitMax,
		logger:   logger,
	}
	if c != nil {
		h.details = cache.NewTypedCache[json.RawMessage](c, cfg.CacheTTL)
	}
	return h
}

// Routes registers the API endpoints on r, which is mounted at
// handler.RouteAPI.
func (h *Handler) Routes(r chi.Router) {
	r.Get(handler.RoutePages, h.ListPages)
	r.Get(handler.RoutePagesID, h.GetPage)
	r.Get(handler.RouteImages, h.ListImages)
	r.Get(handler.RouteImagesID, h.GetImage)
	r.Get(handler.RouteDocuments, h.ListDocuments)
	r.Get(handler.RouteDocumentsID, h.GetDocument)
}

// Listing is the envelope of every list endpoint.
type Listing[T any] struct {
	Meta  ListingMeta `json:"meta"`
	Items []T         `json:"items"`
}

// ListingMeta carries the match count before paging.
type ListingMeta struct {
	TotalCount int64 `json:"total_count"`
}

func newListing[T any](items []T, total int64) Listing[T] {
	if items == nil {
		items = []T{}
	}
	return Listing[T]{Meta: ListingMeta{TotalCount: total}, Items: items}
}

// errNotFound marks a detail lookup that must answer 404.
var errNotFound = errors.New("not found")

// paging holds the common listing parameters.
type paging struct {
	Limit  int
	Offset int
	Order  string
}

// commonParams are accepted by every listing.
var commonParams = []string{"limit", "offset", "order"}

func allowedParams(extra ...string) map[string]bool {
	m := make(map[string]bool, len(commonParams)+len(extra))
	for _, k := range append(extra, commonParams...) {
		m[k] = true
	}
	return m
}

// parsePaging validates limit, offset and order against orderFields.
func (h *Handler) parsePaging(q url.Values, orderFields map[string]string) (paging, error) {
	limit, err := handler.QueryInt(q, "limit", DefaultLimit)
	if err != nil {
		return paging{}, err
	}
	if limit > h.limitMax {
		return paging{}, badParam("limit cannot be higher than %d", h.limitMax)
	}
	offset, err := handler.QueryInt(q, "offset", 0)
	if err != nil {
		return paging{}, err
	}
	order := q.Get("order")
	if _, ok := orderFields[strings.TrimPrefix(order, "-")]; order != "" && !ok {
		return paging{}, badParam("cannot order by '%s' (unknown field)", order)
	}
	return paging{Limit: limit, Offset: offset, Order: order}, nil
}

// detail serves a cached JSON document built by build. A build returning
// errNotFound answers 404 with "<entity> not found".
func (h *Handler) detail(w http.ResponseWriter, r *http.Request, entity, prefix string, build func(ctx context.Context, id int64) (any, error)) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		h.notFound(w, entity)
		return
	}

	load := func() (*json.RawMessage, error) {
		v, err := build(r.Context(), id)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		msg := json.RawMessage(raw)
		return &msg, nil
	}

	var body *json.RawMessage
	if h.details != nil {
		body, err = h.details.GetOrSet(r.Context(), cache.Key(prefix, id), load)
	} else {
		body, err = load()
	}
	if err != nil {
		h.fail(w, r, entity, err)
		return
	}
	handler.WriteRawJSON(w, *body)
}

// fail maps err onto a status code. Error details stay in the log.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, entity string, err error) {
	switch {
	case errors.Is(err, errNotFound), store.IsNotFound(err):
		h.notFound(w, entity)
	case errors.Is(err, handler.ErrInvalidParam):
		handler.WriteBadRequest(w, strings.TrimPrefix(err.Error(), handler.ErrInvalidParam.Error()+": "))
	case errors.Is(err, store.ErrUnknownOrder):
		handler.WriteBadRequest(w, "cannot order by this field")
	default:
		h.logger.Error("api request failed",
			"error", err,
			"path", r.URL.Path,
			"category", model.EventCategoryHTTP,
		)
		handler.WriteInternalError(w, "Internal server error")
	}
}

func (h *Handler) notFound(w http.ResponseWriter, entity string) {
	handler.WriteNotFound(w, capitalizeFirst(entity)+" not found")
}

func (h *Handler) detailURL(resource string, id int64) string {
	return h.baseURL + handler.RouteAPI + "/" + resource + "/" + formatID(id) + "/"
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
