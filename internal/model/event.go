// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryPage    = "page"
	EventCategorySnippet = "snippet"
	EventCategoryMedia   = "media"
	EventCategoryUser    = "user"
	EventCategorySeed    = "seed"
	EventCategoryCache   = "cache"
	EventCategoryHTTP    = "http"
	EventCategorySystem  = "system"
)

// Event is a persisted log entry.
type Event struct {
	ID        int64          `json:"id"`
	Level     string         `json:"level"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}
