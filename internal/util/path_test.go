// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "sourdough.jpg", want: "sourdough.jpg"},
		{name: "spaces", input: "rye loaf.png", want: "rye loaf.png"},
		{name: "traversal", input: "../../etc/passwd", want: "passwd"},
		{name: "windows separators", input: `C:\uploads\bagel.jpg`, want: "bagel.jpg"},
		{name: "dot dot", input: "..", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "original_images/a.jpg", want: "original_images/a.jpg"},
		{input: "images/./a.fill-50x50.jpg", want: "images/a.fill-50x50.jpg"},
		{input: "documents/x/../y.pdf", want: "documents/y.pdf"},
		{input: "../secret", wantErr: true},
		{input: "/etc/passwd", wantErr: true},
		{input: `a\b`, wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := CleanKey(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("CleanKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("CleanKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	got, err := SafeJoinPath(base, "original_images/a.jpg")
	if err != nil {
		t.Fatalf("SafeJoinPath: %v", err)
	}
	if want := filepath.Join(base, "original_images", "a.jpg"); got != want {
		t.Errorf("SafeJoinPath = %q, want %q", got, want)
	}

	if _, err := SafeJoinPath(base, "../outside"); err == nil {
		t.Error("expected error for key escaping the base")
	}
}
