// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "page title", input: "Home", expected: "home"},
		{name: "two words", input: "About Us", expected: "about-us"},
		{name: "punctuation", input: "Bread, Butter & Jam!", expected: "bread-butter-jam"},
		{name: "numbers", input: "Breads 2024", expected: "breads-2024"},
		{name: "accents", input: "Café résumé", expected: "cafe-resume"},
		{name: "umlauts", input: "Über München", expected: "uber-munchen"},
		{name: "cyrillic", input: "Хлеб", expected: "khleb"},
		{name: "tabs and runs of spaces", input: "Rye \t  Loaf", expected: "rye-loaf"},
		{name: "surrounding hyphens", input: "- Focaccia -", expected: "focaccia"},
		{name: "only symbols", input: "!@#$%^&*()", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	got := Slugify(strings.Repeat("ab ", 200))
	if len(got) > MaxSlugLength {
		t.Fatalf("len = %d, want <= %d", len(got), MaxSlugLength)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug %q ends with a hyphen", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"about-us", true},
		{"page-123", true},
		{"123", true},
		{"", false},
		{"About-Us", false},
		{"about us", false},
		{"-about", false},
		{"about-", false},
		{"about--us", false},
		{strings.Repeat("a", MaxSlugLength+1), false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.input); got != tt.expected {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
