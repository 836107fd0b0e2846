// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/bakery/internal/service"
	"github.com/olegiv/bakery/internal/storage"
	"github.com/olegiv/bakery/internal/testutil"
)

func newTestMediaRouter(t *testing.T) (http.Handler, *service.MediaService, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	media := service.NewMediaService(testutil.TestDB(t), backend, nil, nil, testutil.TestLoggerSilent())
	h := NewMediaHandler(media, testutil.TestLoggerSilent())

	r := chi.NewRouter()
	r.Get(RouteMediaFiles, h.ServeMedia)
	r.Head(RouteMediaFiles, h.ServeMedia)
	r.Get(RouteDocumentFile, h.ServeDocument)
	return r, media, backend
}

func serve(router http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServeMedia(t *testing.T) {
	router, _, backend := newTestMediaRouter(t)
	ctx := context.Background()
	if err := backend.Put(ctx, "original_images/loaf.png", strings.NewReader("png-bytes"), "image/png"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := backend.Put(ctx, "documents/secret.txt", strings.NewReader("secret"), "text/plain"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	tests := []struct {
		name     string
		method   string
		target   string
		wantCode int
		wantBody string
	}{
		{"original image", http.MethodGet, "/media/original_images/loaf.png", http.StatusOK, "png-bytes"},
		{"head request", http.MethodHead, "/media/original_images/loaf.png", http.StatusOK, ""},
		{"missing file", http.MethodGet, "/media/original_images/none.png", http.StatusNotFound, ""},
		{"documents are not media", http.MethodGet, "/media/documents/secret.txt", http.StatusNotFound, ""},
		{"path traversal", http.MethodGet, "/media/original_images/../documents/secret.txt", http.StatusNotFound, ""},
		{"empty key", http.MethodGet, "/media/", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.method, tt.target)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			if ct := w.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Content-Type = %q, want image/png", ct)
			}
			if w.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("expected nosniff header")
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestServeDocument(t *testing.T) {
	router, media, _ := newTestMediaRouter(t)

	doc, err := media.CreateDocument(context.Background(), service.Upload{
		Title:    "Price list",
		Filename: "prices.txt",
		Body:     strings.NewReader("rye 4.50\n"),
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	w := serve(router, http.MethodGet, fmt.Sprintf("/documents/%d/%s", doc.ID, doc.Filename()))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "rye 4.50\n" {
		t.Errorf("body = %q", w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") || !strings.Contains(cd, doc.Filename()) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	for _, target := range []string{
		fmt.Sprintf("/documents/%d/other.txt", doc.ID),
		fmt.Sprintf("/documents/%d/%s", doc.ID+1, doc.Filename()),
		"/documents/abc/prices.txt",
	} {
		t.Run(target, func(t *testing.T) {
			if w := serve(router, http.MethodGet, target); w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", w.Code)
			}
		})
	}
}
