// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	d := MustDate("2024-07-05")
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `"2024-07-05"` {
		t.Errorf("Marshal = %s", raw)
	}

	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("Unmarshal = %v, want %v", back, d)
	}

	if err := json.Unmarshal([]byte(`"05/07/2024"`), &back); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestDateOf(t *testing.T) {
	at := time.Date(2024, 7, 5, 23, 30, 0, 0, time.UTC)
	if got := DateOf(at).String(); got != "2024-07-05" {
		t.Errorf("DateOf = %s", got)
	}
}
