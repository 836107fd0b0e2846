// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestNullInt64FromPtr(t *testing.T) {
	tests := []struct {
		name     string
		input    *int64
		expected sql.NullInt64
	}{
		{name: "nil pointer", input: nil, expected: sql.NullInt64{}},
		{name: "positive value", input: ptr(int64(42)), expected: sql.NullInt64{Int64: 42, Valid: true}},
		{name: "zero value", input: ptr(int64(0)), expected: sql.NullInt64{Int64: 0, Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NullInt64FromPtr(tt.input); got != tt.expected {
				t.Errorf("NullInt64FromPtr() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPtrFromNullInt64(t *testing.T) {
	if got := PtrFromNullInt64(sql.NullInt64{}); got != nil {
		t.Errorf("PtrFromNullInt64(NULL) = %v, want nil", *got)
	}
	got := PtrFromNullInt64(NullInt64FromValue(7))
	if got == nil || *got != 7 {
		t.Errorf("PtrFromNullInt64(7) = %v, want 7", got)
	}
}

func TestPtrFromNullTime(t *testing.T) {
	if got := PtrFromNullTime(sql.NullTime{}); got != nil {
		t.Errorf("PtrFromNullTime(NULL) = %v, want nil", *got)
	}
	now := time.Date(2024, 7, 5, 10, 0, 0, 0, time.UTC)
	got := PtrFromNullTime(sql.NullTime{Time: now, Valid: true})
	if got == nil || !got.Equal(now) {
		t.Errorf("PtrFromNullTime() = %v, want %v", got, now)
	}
}

func TestParseNullInt64Positive(t *testing.T) {
	tests := []struct {
		input    string
		expected sql.NullInt64
	}{
		{"", sql.NullInt64{}},
		{"0", sql.NullInt64{}},
		{"-3", sql.NullInt64{}},
		{"abc", sql.NullInt64{}},
		{"12", sql.NullInt64{Int64: 12, Valid: true}},
	}

	for _, tt := range tests {
		if got := ParseNullInt64Positive(tt.input); got != tt.expected {
			t.Errorf("ParseNullInt64Positive(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
