// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypePDF  = "application/pdf"
	MimeTypeText = "text/plain; charset=utf-8"
)

// API type names of media records.
const (
	ImageTypeName    = "wagtailimages.Image"
	DocumentTypeName = "wagtaildocs.Document"
)

// Storage key prefixes of media files.
const (
	OriginalImagesDir = "original_images"
	RenditionsDir     = "images"
	DocumentsDir      = "documents"
)

// MediaURLPrefix is the URL path image files are served under.
const MediaURLPrefix = "/media/"

// Image is a stored picture with its intrinsic dimensions.
type Image struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	File         string    `json:"file"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	FileSize     int64     `json:"file_size"`
	FileHash     string    `json:"file_hash"`
	MimeType     string    `json:"mime_type"`
	CollectionID int64     `json:"collection"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
}

// URL returns the site relative URL of the original file.
func (i Image) URL() string {
	return MediaURLPrefix + i.File
}

// Rendition is a resized copy of an image for one filter spec.
type Rendition struct {
	ID         int64  `json:"id"`
	ImageID    int64  `json:"image_id"`
	FilterSpec string `json:"filter_spec"`
	File       string `json:"file"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// URL returns the site relative URL of the rendition file.
func (r Rendition) URL() string {
	return MediaURLPrefix + r.File
}

// Document is a stored downloadable file.
type Document struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	File         string    `json:"file"`
	FileSize     int64     `json:"file_size"`
	FileHash     string    `json:"file_hash"`
	MimeType     string    `json:"mime_type"`
	CollectionID int64     `json:"collection"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
}

// Filename returns the last element of the document's storage key.
func (d Document) Filename() string {
	if i := strings.LastIndex(d.File, "/"); i >= 0 {
		return d.File[i+1:]
	}
	return d.File
}

// Collection groups media in a tree like the page tree.
type Collection struct {
	ID       int64  `json:"id"`
	ParentID int64  `json:"parent_id,omitempty"`
	Path     string `json:"path"`
	Numchild int64  `json:"numchild"`
	Name     string `json:"name"`
}

// RootCollectionID is the collection created by the initial migration.
const RootCollectionID int64 = 1

// Filter operations of a rendition spec.
const (
	FilterOriginal = "original"
	FilterFill     = "fill"
	FilterMax      = "max"
	FilterWidth    = "width"
	FilterHeight   = "height"
)

// ErrInvalidFilterSpec is returned for malformed rendition specs.
var ErrInvalidFilterSpec = errors.New("invalid filter spec")

// FilterSpec is a parsed rendition spec such as "fill-200x200" or "width-400".
type FilterSpec struct {
	Op     string
	Width  int
	Height int
}

func (f FilterSpec) String() string {
	switch f.Op {
	case FilterOriginal:
		return FilterOriginal
	case FilterWidth:
		return fmt.Sprintf("width-%d", f.Width)
	case FilterHeight:
		return fmt.Sprintf("height-%d", f.Height)
	default:
		return fmt.Sprintf("%s-%dx%d", f.Op, f.Width, f.Height)
	}
}

// ParseFilterSpec parses a rendition spec.
func ParseFilterSpec(spec string) (FilterSpec, error) {
	if spec == FilterOriginal {
		return FilterSpec{Op: FilterOriginal}, nil
	}
	op, arg, ok := strings.Cut(spec, "-")
	if !ok || arg == "" {
		return FilterSpec{}, fmt.Errorf("%w: %q", ErrInvalidFilterSpec, spec)
	}

	switch op {
	case FilterWidth, FilterHeight:
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return FilterSpec{}, fmt.Errorf("%w: %q", ErrInvalidFilterSpec, spec)
		}
		if op == FilterWidth {
			return FilterSpec{Op: op, Width: n}, nil
		}
		return FilterSpec{Op: op, Height: n}, nil
	case FilterFill, FilterMax:
		ws, hs, ok := strings.Cut(arg, "x")
		if !ok {
			return FilterSpec{}, fmt.Errorf("%w: %q", ErrInvalidFilterSpec, spec)
		}
		w, errW := strconv.Atoi(ws)
		h, errH := strconv.Atoi(hs)
		if errW != nil || errH != nil || w <= 0 || h <= 0 {
			return FilterSpec{}, fmt.Errorf("%w: %q", ErrInvalidFilterSpec, spec)
		}
		return FilterSpec{Op: op, Width: w, Height: h}, nil
	default:
		return FilterSpec{}, fmt.Errorf("%w: %q", ErrInvalidFilterSpec, spec)
	}
}

// ThumbnailSpec is the rendition used for person thumbnails.
const ThumbnailSpec = "fill-50x50"
