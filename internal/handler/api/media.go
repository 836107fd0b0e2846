// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/handler"
	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/store"
)

// MediaMeta is the meta object of images and documents.
type MediaMeta struct {
	Type        string   `json:"type"`
	DetailURL   string   `json:"detail_url"`
	Tags        []string `json:"tags"`
	DownloadURL string   `json:"download_url"`
}

// ImageSummary represents an image in listings.
type ImageSummary struct {
	ID    int64     `json:"id"`
	Meta  MediaMeta `json:"meta"`
	Title string    `json:"title"`
}

// ImageDetail adds the intrinsic size to ImageSummary.
type ImageDetail struct {
	ImageSummary
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageRefMeta is the meta object of an image nested in page content.
type ImageRefMeta struct {
	Type        string `json:"type"`
	DetailURL   string `json:"detail_url"`
	DownloadURL string `json:"download_url"`
}

// ImageRef is an image nested in page content.
type ImageRef struct {
	ID    int64        `json:"id"`
	Meta  ImageRefMeta `json:"meta"`
	Title string       `json:"title"`
}

// DocumentSummary represents a document in listings and details.
type DocumentSummary struct {
	ID    int64     `json:"id"`
	Meta  MediaMeta `json:"meta"`
	Title string    `json:"title"`
}

var mediaParams = allowedParams("title", "tags", "search")

func (h *Handler) mediaFilter(q url.Values) (store.MediaFilter, error) {
	if err := handler.CheckQueryKeys(q, mediaParams); err != nil {
		return store.MediaFilter{}, err
	}
	pg, err := h.parsePaging(q, store.MediaOrderFields)
	if err != nil {
		return store.MediaFilter{}, err
	}
	return store.MediaFilter{
		Title:  q.Get("title"),
		Tags:   splitList(q.Get("tags")),
		Search: q.Get("search"),
		Order:  pg.Order,
		Limit:  pg.Limit,
		Offset: pg.Offset,
	}, nil
}

// ListImages handles GET /api/v2/images/
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	f, err := h.mediaFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, "image", err)
		return
	}
	images, total, err := h.media.FilterImages(r.Context(), f)
	if err != nil {
		h.fail(w, r, "image", err)
		return
	}
	items := make([]ImageSummary, 0, len(images))
	for _, img := range images {
		items = append(items, h.imageSummary(img))
	}
	handler.WriteJSON(w, http.StatusOK, newListing(items, total))
}

// GetImage handles GET /api/v2/images/{id}/
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, "image", cache.PrefixImages, func(ctx context.Context, id int64) (any, error) {
		img, err := h.media.GetImage(ctx, id)
		if err != nil {
			return nil, err
		}
		return ImageDetail{ImageSummary: h.imageSummary(img), Width: img.Width, Height: img.Height}, nil
	})
}

// ListDocuments handles GET /api/v2/documents/
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	f, err := h.mediaFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, "document", err)
		return
	}
	docs, total, err := h.media.FilterDocuments(r.Context(), f)
	if err != nil {
		h.fail(w, r, "document", err)
		return
	}
	items := make([]DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		items = append(items, h.documentSummary(doc))
	}
	handler.WriteJSON(w, http.StatusOK, newListing(items, total))
}

// GetDocument handles GET /api/v2/documents/{id}/
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, "document", cache.PrefixDocuments, func(ctx context.Context, id int64) (any, error) {
		doc, err := h.media.GetDocument(ctx, id)
		if err != nil {
			return nil, err
		}
		return h.documentSummary(doc), nil
	})
}

func (h *Handler) imageSummary(img model.Image) ImageSummary {
	return ImageSummary{
		ID: img.ID,
		Meta: MediaMeta{
			Type:        model.ImageTypeName,
			DetailURL:   h.detailURL("images", img.ID),
			Tags:        nonNil(img.Tags),
			DownloadURL: img.URL(),
		},
		Title: img.Title,
	}
}

func (h *Handler) documentSummary(doc model.Document) DocumentSummary {
	return DocumentSummary{
		ID: doc.ID,
		Meta: MediaMeta{
			Type:        model.DocumentTypeName,
			DetailURL:   h.detailURL("documents", doc.ID),
			Tags:        nonNil(doc.Tags),
			DownloadURL: h.baseURL + "/documents/" + formatID(doc.ID) + "/" + doc.Filename(),
		},
		Title: doc.Title,
	}
}

// imageRef expands an image id from page content; a missing image is nil.
func (h *Handler) imageRef(ctx context.Context, id int64) (*ImageRef, error) {
	img, err := h.media.GetImage(ctx, id)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ImageRef{
		ID: img.ID,
		Meta: ImageRefMeta{
			Type:        model.ImageTypeName,
			DetailURL:   h.detailURL("images", img.ID),
			DownloadURL: img.URL(),
		},
		Title: img.Title,
	}, nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
