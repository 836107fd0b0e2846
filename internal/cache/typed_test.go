// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type cachedPage struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestTypedCache_SetGet(t *testing.T) {
	mem := newTestMemoryCache(t, MemoryCacheOptions{DefaultTTL: time.Hour})
	c := NewTypedCache[cachedPage](mem, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "page:3", &cachedPage{ID: 3, Title: "Breads"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get(ctx, "page:3")
	if !ok || got.ID != 3 || got.Title != "Breads" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	_ = c.Delete(ctx, "page:3")
	if _, ok := c.Get(ctx, "page:3"); ok {
		t.Error("value present after Delete")
	}
}

func TestTypedCache_CorruptValueIsMiss(t *testing.T) {
	mem := newTestMemoryCache(t, MemoryCacheOptions{DefaultTTL: time.Hour})
	c := NewTypedCache[cachedPage](mem, time.Minute)
	ctx := context.Background()

	_ = mem.Set(ctx, "page:1", []byte("not json"), 0)
	if _, ok := c.Get(ctx, "page:1"); ok {
		t.Error("undecodable value should be a miss")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	mem := newTestMemoryCache(t, MemoryCacheOptions{DefaultTTL: time.Hour})
	c := NewTypedCache[cachedPage](mem, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func() (*cachedPage, error) {
		calls++
		return &cachedPage{ID: 7, Title: "Blog"}, nil
	}

	for range 3 {
		got, err := c.GetOrSet(ctx, "page:7", load)
		if err != nil || got.Title != "Blog" {
			t.Fatalf("GetOrSet = %+v, %v", got, err)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrSet(ctx, "page:8", func() (*cachedPage, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrSet error = %v, want boom", err)
	}
	if has, _ := mem.Has(ctx, "page:8"); has {
		t.Error("failed load was cached")
	}
}
