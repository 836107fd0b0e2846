// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/olegiv/bakery/internal/testutil"
)

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, testutil.TestLoggerSilent())
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v2/pages/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := do("10.0.0.1:5000"); rr.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rr.Code)
		}
	}

	rr := do("10.0.0.1:5001")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"message"`) {
		t.Errorf("body = %q, want JSON message", rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	if rr := do("10.0.0.2:5000"); rr.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:1234"
	if got := clientIP(req); got != "192.0.2.7" {
		t.Errorf("clientIP = %q", got)
	}
	req.RemoteAddr = "192.0.2.8"
	if got := clientIP(req); got != "192.0.2.8" {
		t.Errorf("clientIP without port = %q", got)
	}
}

func TestLimiterCacheResetsWhenFull(t *testing.T) {
	lc := newLimiterCache[int](1, 1)
	for i := 0; i < maxTrackedClients; i++ {
		lc.get(i)
	}
	first := lc.get(0)
	lc.get(maxTrackedClients)
	if len(lc.limiters) != 1 {
		t.Fatalf("limiters = %d, want reset to 1", len(lc.limiters))
	}
	if lc.get(0) == first {
		t.Error("limiter for 0 should be recreated after reset")
	}
}
