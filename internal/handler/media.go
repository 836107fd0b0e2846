// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/service"
	"github.com/olegiv/bakery/internal/storage"
	"github.com/olegiv/bakery/internal/store"
)

// MediaHandler streams stored image and document bytes.
type MediaHandler struct {
	media  *service.MediaService
	logger *slog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(media *service.MediaService, logger *slog.Logger) *MediaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaHandler{media: media, logger: logger}
}

// servableMediaDirs are the storage prefixes reachable below /media/.
var servableMediaDirs = []string{
	model.OriginalImagesDir + "/",
	model.RenditionsDir + "/",
}

// ServeMedia handles GET /media/* for image originals and renditions.
func (h *MediaHandler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" || path.Clean("/"+key) != "/"+key || !hasAnyPrefix(key, servableMediaDirs) {
		http.NotFound(w, r)
		return
	}
	h.stream(w, r, key, "", false)
}

// ServeDocument handles GET /documents/{id}/{filename}.
func (h *MediaHandler) ServeDocument(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	doc, err := h.media.GetDocument(r.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("loading document", "error", err, "id", id, "category", model.EventCategoryMedia)
		WriteInternalError(w, "Failed to retrieve document")
		return
	}
	if chi.URLParam(r, "filename") != doc.Filename() {
		http.NotFound(w, r)
		return
	}
	h.stream(w, r, doc.File, doc.MimeType, true)
}

func (h *MediaHandler) stream(w http.ResponseWriter, r *http.Request, key, contentType string, attachment bool) {
	rc, err := h.media.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("opening stored file", "error", err, "key", key, "category", model.EventCategoryMedia)
		WriteInternalError(w, "Failed to read file")
		return
	}
	defer func() { _ = rc.Close() }()

	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(path.Ext(key)))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if attachment {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(key)}))
	}
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Debug("streaming file interrupted", "error", err, "key", key)
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
