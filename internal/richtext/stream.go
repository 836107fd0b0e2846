// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package richtext models page bodies as streams of typed blocks and turns
// them into sanitized HTML for the content API.
package richtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Block types accepted in a stream.
const (
	BlockHeading   = "heading_block"
	BlockParagraph = "paragraph_block"
	BlockImage     = "image_block"
	BlockQuote     = "block_quote"
	BlockEmbed     = "embed_block"
	BlockMarkdown  = "markdown_block"
)

// blockAliases maps legacy short names onto the canonical block types.
var blockAliases = map[string]string{
	"heading":   BlockHeading,
	"paragraph": BlockParagraph,
	"image":     BlockImage,
	"quote":     BlockQuote,
	"embed":     BlockEmbed,
	"markdown":  BlockMarkdown,
}

var knownBlocks = map[string]bool{
	BlockHeading:   true,
	BlockParagraph: true,
	BlockImage:     true,
	BlockQuote:     true,
	BlockEmbed:     true,
	BlockMarkdown:  true,
}

// ErrUnknownBlock is returned when a stream holds a block type outside the
// fixed set above.
var ErrUnknownBlock = errors.New("unknown block type")

// Block is one element of a stream.
type Block struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
	ID    string          `json:"id,omitempty"`
}

// HeadingValue is the value of a heading_block.
type HeadingValue struct {
	HeadingText string `json:"heading_text"`
	Size        string `json:"size,omitempty"`
}

// ImageValue is the value of an image_block.
type ImageValue struct {
	Image       int64  `json:"image"`
	Caption     string `json:"caption,omitempty"`
	Attribution string `json:"attribution,omitempty"`
}

// QuoteValue is the value of a block_quote.
type QuoteValue struct {
	Text          string `json:"text"`
	AttributeName string `json:"attribute_name,omitempty"`
}

// Stream is an ordered list of blocks. The zero value is an empty body.
type Stream []Block

// UnmarshalJSON accepts a JSON array of blocks, a JSON string holding such an
// array, or null.
func (s *Stream) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			*s = nil
			return nil
		}
		data = []byte(raw)
	}

	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return fmt.Errorf("decoding stream: %w", err)
	}
	for i := range blocks {
		if err := blocks[i].normalize(); err != nil {
			return err
		}
	}
	*s = blocks
	return nil
}

// Parse decodes a stream from its JSON text form.
func Parse(text string) (Stream, error) {
	var s Stream
	if err := s.UnmarshalJSON([]byte(text)); err != nil {
		return nil, err
	}
	return s, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(text string) Stream {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

// IsEmpty reports whether the stream has no blocks.
func (s Stream) IsEmpty() bool {
	return len(s) == 0
}

// ImageIDs returns every image referenced by image blocks, in order.
func (s Stream) ImageIDs() []int64 {
	var ids []int64
	for _, b := range s {
		if b.Type != BlockImage {
			continue
		}
		var v ImageValue
		if err := json.Unmarshal(b.Value, &v); err == nil && v.Image > 0 {
			ids = append(ids, v.Image)
		}
	}
	return ids
}

func (b *Block) normalize() error {
	if canonical, ok := blockAliases[b.Type]; ok {
		b.Type = canonical
	}
	if !knownBlocks[b.Type] {
		return fmt.Errorf("%w: %q", ErrUnknownBlock, b.Type)
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if len(b.Value) == 0 {
		b.Value = json.RawMessage("null")
	}
	return nil
}

// StringValue builds a block whose value is a plain JSON string.
func StringValue(blockType, value string) Block {
	raw, _ := json.Marshal(value)
	return Block{Type: blockType, Value: raw, ID: uuid.NewString()}
}

// StructValue builds a block whose value is an encoded struct.
func StructValue(blockType string, value any) (Block, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return Block{}, err
	}
	return Block{Type: blockType, Value: raw, ID: uuid.NewString()}, nil
}
