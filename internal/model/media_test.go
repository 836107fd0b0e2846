// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"testing"
)

func TestParseFilterSpec(t *testing.T) {
	tests := []struct {
		spec string
		want FilterSpec
	}{
		{"original", FilterSpec{Op: FilterOriginal}},
		{"fill-200x150", FilterSpec{Op: FilterFill, Width: 200, Height: 150}},
		{"max-800x600", FilterSpec{Op: FilterMax, Width: 800, Height: 600}},
		{"width-400", FilterSpec{Op: FilterWidth, Width: 400}},
		{"height-90", FilterSpec{Op: FilterHeight, Height: 90}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseFilterSpec(tt.spec)
			if err != nil {
				t.Fatalf("ParseFilterSpec: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.spec {
				t.Errorf("String() = %q, want %q", got.String(), tt.spec)
			}
		})
	}
}

func TestParseFilterSpecInvalid(t *testing.T) {
	for _, spec := range []string{"", "fill", "fill-200", "fill-0x10", "width-abc", "crop-10x10", "height--5"} {
		if _, err := ParseFilterSpec(spec); !errors.Is(err, ErrInvalidFilterSpec) {
			t.Errorf("ParseFilterSpec(%q) = %v, want ErrInvalidFilterSpec", spec, err)
		}
	}
}

func TestMediaURLs(t *testing.T) {
	img := Image{File: "original_images/rye.jpg"}
	if got := img.URL(); got != "/media/original_images/rye.jpg" {
		t.Errorf("Image.URL() = %q", got)
	}
	r := Rendition{File: "images/rye.fill-50x50.jpg"}
	if got := r.URL(); got != "/media/images/rye.fill-50x50.jpg" {
		t.Errorf("Rendition.URL() = %q", got)
	}
	doc := Document{File: "documents/price-list.pdf"}
	if got := doc.Filename(); got != "price-list.pdf" {
		t.Errorf("Filename() = %q", got)
	}
}
