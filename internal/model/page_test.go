// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestPageDepth(t *testing.T) {
	root := &Page{Path: "0001"}
	if !root.IsRoot() || root.Depth() != 1 {
		t.Errorf("root depth = %d", root.Depth())
	}
	child := &Page{Path: "00010001"}
	if child.IsRoot() || child.Depth() != 2 {
		t.Errorf("child depth = %d", child.Depth())
	}
	if (&Page{}).Type() != TypeRoot {
		t.Error("page without content should be the root type")
	}
}

func TestSnapshotApply(t *testing.T) {
	p := NewPage("Rye", &StandardPage{Introduction: "Old", Body: body()})
	p.Slug = "rye"

	snap, err := TakeSnapshot(p)
	if err != nil {
		t.Fatalf("TakeSnapshot: %v", err)
	}

	p.Title = "Changed"
	p.Content.(*StandardPage).Introduction = "New"

	if err := snap.Apply(p); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if p.Title != "Rye" || p.Content.(*StandardPage).Introduction != "Old" {
		t.Errorf("snapshot not applied: %q %+v", p.Title, p.Content)
	}

	other := NewPage("Blog", &BlogIndexPage{})
	if err := snap.Apply(other); err == nil {
		t.Error("applying a snapshot to another type should fail")
	}
}
