// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/store"
	"github.com/olegiv/bakery/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, q *store.Queries) []store.EventLog {
	t.Helper()
	events, err := q.ListEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Levels(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Info("page saved", "id", 3)
	logger.Warn("slow rendition", "duration_ms", 5000)
	logger.Error("database connection failed", "host", "localhost")

	events := listEvents(t, store.New(db))
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	levels := map[string]bool{}
	for _, e := range events {
		levels[e.Level] = true
	}
	if !levels[model.EventLevelWarning] || !levels[model.EventLevelError] {
		t.Errorf("levels = %v, want warning and error", levels)
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))

	logger.Warn("cache miss storm")
	logger.Error("cache unreachable")

	events := listEvents(t, store.New(db))
	if len(events) != 1 || events[0].Message != "cache unreachable" {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Category != model.EventCategoryCache {
		t.Errorf("Category = %q, want cache", events[0].Category)
	}
}

func TestEventLogHandler_CategoryAttr(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("category", model.EventCategorySeed)

	logger.Warn("page count below request", "wanted", 5)

	events := listEvents(t, store.New(db))
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Category != model.EventCategorySeed {
		t.Errorf("Category = %q, want seed", events[0].Category)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata %q: %v", events[0].Metadata, err)
	}
	if meta["wanted"] != "5" {
		t.Errorf("metadata = %v", meta)
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be repeated in metadata")
	}
}

func TestCategoryInference(t *testing.T) {
	tests := map[string]string{
		"image upload failed":     model.EventCategoryMedia,
		"snippet delete failed":   model.EventCategorySnippet,
		"publish revision failed": model.EventCategoryPage,
		"request timed out":       model.EventCategoryHTTP,
		"disk almost full":        model.EventCategorySystem,
	}
	for msg, want := range tests {
		if got := category(msg, nil); got != want {
			t.Errorf("category(%q) = %q, want %q", msg, got, want)
		}
	}
}
