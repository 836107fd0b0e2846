// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/config"
	"github.com/olegiv/bakery/internal/service"
	"github.com/olegiv/bakery/internal/storage"
	"github.com/olegiv/bakery/internal/testutil"
)

func TestParseCounts(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    [3]int
		wantErr bool
	}{
		{"valid", []string{"5", "4", "3"}, [3]int{5, 4, 3}, false},
		{"zeros", []string{"0", "0", "0"}, [3]int{}, false},
		{"too few", []string{"5", "4"}, [3]int{}, true},
		{"too many", []string{"1", "2", "3", "4"}, [3]int{}, true},
		{"negative", []string{"5", "-1", "3"}, [3]int{}, true},
		{"not a number", []string{"five", "4", "3"}, [3]int{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCounts(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCounts() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseCounts() = %v, want %v", got, tt.want)
			}
		})
	}
}

func newTestRouter(t *testing.T, rateLimit float64) (http.Handler, services) {
	t.Helper()
	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })
	backend := storage.NewMemoryBackend()

	svc := services{
		pages:    service.NewPageService(db, c, logger),
		media:    service.NewMediaService(db, backend, nil, c, logger),
		snippets: service.NewSnippetService(db, c, logger),
		sites:    service.NewSiteService(db, c, logger),
	}
	cfg := &config.Config{
		Env:          "development",
		BaseURL:      "http://localhost:8000",
		APILimitMax:  20,
		APIRateLimit: rateLimit,
		APIRateBurst: 1,
		CacheTTL:     60,
	}
	r := newRouter(routerDeps{
		cfg:      cfg,
		version:  "test",
		db:       db,
		backend:  backend,
		cache:    c,
		services: svc,
		registry: prometheus.NewRegistry(),
		logger:   logger,
	})
	return r, svc
}

func request(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestRouterServesAPIAndAmbientRoutes(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	tests := []struct {
		target   string
		wantCode int
	}{
		{"/api/v2/pages/", http.StatusOK},
		{"/api/v2/images/", http.StatusOK},
		{"/api/v2/documents/", http.StatusOK},
		{"/api/v2/pages", http.StatusMovedPermanently},
		{"/api/v2/pages/100000/", http.StatusNotFound},
		{"/health", http.StatusOK},
		{"/health/live", http.StatusOK},
		{"/health/ready", http.StatusOK},
		{"/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if w := request(r, tt.target); w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}

	w := request(r, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Error("metrics output lacks http_requests_total")
	}
}

func TestRouterServesDocumentDownloads(t *testing.T) {
	r, svc := newTestRouter(t, 0)

	doc, err := svc.media.CreateDocument(context.Background(), service.Upload{
		Title:    "Menu",
		Filename: "menu.txt",
		Body:     strings.NewReader("bread\n"),
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	w := request(r, fmt.Sprintf("/documents/%d/%s", doc.ID, doc.Filename()))
	if w.Code != http.StatusOK || w.Body.String() != "bread\n" {
		t.Errorf("download = %d %q", w.Code, w.Body.String())
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", cc)
	}

	missing := request(r, fmt.Sprintf("/documents/%d/other.txt", doc.ID))
	if missing.Code != http.StatusNotFound {
		t.Errorf("wrong filename status = %d, want 404", missing.Code)
	}
	if cc := missing.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("missing download Cache-Control = %q, want no-store", cc)
	}

	if cc := request(r, "/health").Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("health Cache-Control = %q, want no-store", cc)
	}
}

func TestRouterRateLimitsAPI(t *testing.T) {
	r, _ := newTestRouter(t, 0.001)

	if w := request(r, "/api/v2/pages/"); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}
	if w := request(r, "/api/v2/pages/"); w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", w.Code)
	}
	if w := request(r, "/health"); w.Code != http.StatusOK {
		t.Errorf("health should not be rate limited, got %d", w.Code)
	}
}
