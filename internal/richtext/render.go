// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlSanitizer strips scripts and event handlers from user supplied HTML.
var htmlSanitizer = bluemonday.UGCPolicy()

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Sanitize returns a copy of s with paragraph HTML cleaned. Other block
// values are structured data and are left untouched.
func Sanitize(s Stream) Stream {
	if s == nil {
		return nil
	}
	out := make(Stream, len(s))
	for i, b := range s {
		out[i] = b
		if b.Type != BlockParagraph {
			continue
		}
		var html string
		if err := json.Unmarshal(b.Value, &html); err != nil {
			continue
		}
		raw, _ := json.Marshal(htmlSanitizer.Sanitize(html))
		out[i].Value = raw
	}
	return out
}

// RenderMarkdown converts markdown source to sanitized HTML.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// ForAPI returns the stream as served by the content API: markdown blocks
// carry rendered HTML instead of their source.
func ForAPI(s Stream) (Stream, error) {
	out := make(Stream, 0, len(s))
	for _, b := range s {
		if b.Type == BlockMarkdown {
			var src string
			if err := json.Unmarshal(b.Value, &src); err != nil {
				return nil, fmt.Errorf("decoding markdown block %s: %w", b.ID, err)
			}
			html, err := RenderMarkdown(src)
			if err != nil {
				return nil, err
			}
			raw, _ := json.Marshal(html)
			b.Value = raw
		}
		out = append(out, b)
	}
	return out, nil
}
