// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package tree implements materialized-path arithmetic for the page and
// collection hierarchies. A path is a concatenation of fixed-width base-36
// segments, one per level, so depth is len(path)/StepLen and lexicographic
// order of paths is tree order.
package tree

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// StepLen is the width of one path segment.
	StepLen = 4
	// Alphabet orders digits before letters so string order matches numeric order.
	Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// MaxChildren is the number of distinct segments one level can hold.
var MaxChildren = pow(len(Alphabet), StepLen) - 1

var (
	// ErrInvalidPath is returned for paths that are empty, not a multiple of
	// StepLen, or contain characters outside Alphabet.
	ErrInvalidPath = errors.New("invalid tree path")
	// ErrTreeFull is returned when a node has exhausted its child segments.
	ErrTreeFull = errors.New("no free child path segment")
)

// Depth returns the depth of path. The root has depth 1.
func Depth(path string) int {
	return len(path) / StepLen
}

// Validate checks the structural shape of a path.
func Validate(path string) error {
	if path == "" || len(path)%StepLen != 0 {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	for _, r := range path {
		if !strings.ContainsRune(Alphabet, r) {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return nil
}

// Segment encodes a 1-based ordinal as a StepLen wide segment.
func Segment(n int) (string, error) {
	if n < 1 || n > MaxChildren {
		return "", fmt.Errorf("%w: ordinal %d", ErrTreeFull, n)
	}
	buf := make([]byte, StepLen)
	for i := StepLen - 1; i >= 0; i-- {
		buf[i] = Alphabet[n%len(Alphabet)]
		n /= len(Alphabet)
	}
	return string(buf), nil
}

// Ordinal decodes a single segment.
func Ordinal(segment string) (int, error) {
	if len(segment) != StepLen {
		return 0, fmt.Errorf("%w: segment %q", ErrInvalidPath, segment)
	}
	n := 0
	for _, r := range segment {
		idx := strings.IndexRune(Alphabet, r)
		if idx < 0 {
			return 0, fmt.Errorf("%w: segment %q", ErrInvalidPath, segment)
		}
		n = n*len(Alphabet) + idx
	}
	return n, nil
}

// NextChild returns the path for a new child of parent given the greatest
// existing child path ("" when the parent has no children). New children
// are appended after the last one, so insertion order is preserved. Gaps
// between remaining children stay empty, but deleting the last child frees
// its ordinal for the next insert.
func NextChild(parent, lastChild string) (string, error) {
	if err := Validate(parent); err != nil {
		return "", err
	}
	next := 1
	if lastChild != "" {
		if !IsDescendant(lastChild, parent) || Depth(lastChild) != Depth(parent)+1 {
			return "", fmt.Errorf("%w: %q is not a child of %q", ErrInvalidPath, lastChild, parent)
		}
		n, err := Ordinal(lastChild[len(parent):])
		if err != nil {
			return "", err
		}
		next = n + 1
	}
	seg, err := Segment(next)
	if err != nil {
		return "", err
	}
	return parent + seg, nil
}

// Parent returns the parent path, or "" for a root.
func Parent(path string) string {
	if len(path) <= StepLen {
		return ""
	}
	return path[:len(path)-StepLen]
}

// Ancestors returns every ancestor path of path, root first.
func Ancestors(path string) []string {
	var out []string
	for l := StepLen; l < len(path); l += StepLen {
		out = append(out, path[:l])
	}
	return out
}

// IsDescendant reports whether path lies strictly below ancestor.
func IsDescendant(path, ancestor string) bool {
	return len(path) > len(ancestor) && strings.HasPrefix(path, ancestor)
}

// Rebase moves path from under oldPrefix to under newPrefix.
func Rebase(path, oldPrefix, newPrefix string) string {
	if !strings.HasPrefix(path, oldPrefix) {
		return path
	}
	return newPrefix + path[len(oldPrefix):]
}

func pow(base, exp int) int {
	r := 1
	for range exp {
		r *= base
	}
	return r
}
