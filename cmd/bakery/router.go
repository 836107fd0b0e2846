// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/config"
	"github.com/olegiv/bakery/internal/handler"
	"github.com/olegiv/bakery/internal/handler/api"
	"github.com/olegiv/bakery/internal/middleware"
	"github.com/olegiv/bakery/internal/service"
	"github.com/olegiv/bakery/internal/storage"
)

const (
	// requestTimeout bounds every API request.
	requestTimeout = 30 * time.Second
	// mediaMaxAge is the Cache-Control max-age of media downloads.
	mediaMaxAge = 86400
	// compressMinSize is the smallest API body worth gzipping.
	compressMinSize = 1024
)

type services struct {
	pages    *service.PageService
	media    *service.MediaService
	snippets *service.SnippetService
	sites    *service.SiteService
}

type routerDeps struct {
	cfg      *config.Config
	version  string
	db       *sql.DB
	backend  storage.Backend
	cache    cache.Cache
	services services
	registry *prometheus.Registry
	logger   *slog.Logger
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.NewMetrics(d.registry).Handler)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.cfg.IsDevelopment())))
	r.Use(middleware.AppendTrailingSlash(handler.RouteAPI + "/"))

	healthHandler := handler.NewHealthHandler(d.db, d.backend, d.version, d.cfg.IsDevelopment())
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get(handler.RouteHealth, healthHandler.Health)
		r.Get(handler.RouteHealthLive, healthHandler.Liveness)
		r.Get(handler.RouteHealthReady, healthHandler.Readiness)
	})
	r.Handle(handler.RouteMetrics, promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))

	apiHandler := api.NewHandler(api.Services{
		Pages:    d.services.pages,
		Media:    d.services.media,
		Snippets: d.services.snippets,
		Sites:    d.services.sites,
	}, d.cache, api.Config{
		BaseURL:  d.cfg.BaseURL,
		LimitMax: d.cfg.APILimitMax,
		CacheTTL: time.Duration(d.cfg.CacheTTL) * time.Second,
	}, d.logger)

	r.Route(handler.RouteAPI, func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(middleware.Compress(compressMinSize))
		if d.cfg.APIRateLimit > 0 {
			r.Use(middleware.NewRateLimiter(d.cfg.APIRateLimit, d.cfg.APIRateBurst, d.logger).Middleware)
		}
		apiHandler.Routes(r)
	})

	mediaHandler := handler.NewMediaHandler(d.services.media, d.logger)
	r.Group(func(r chi.Router) {
		r.Use(middleware.MediaCache(mediaMaxAge))
		r.Get(handler.RouteMediaFiles, mediaHandler.ServeMedia)
		r.Head(handler.RouteMediaFiles, mediaHandler.ServeMedia)
		r.Get(handler.RouteDocumentFile, mediaHandler.ServeDocument)
		r.Head(handler.RouteDocumentFile, mediaHandler.ServeDocument)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteNotFound(w, "Not found")
	})
	return r
}
