// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentRoundTrip(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "0001"},
		{9, "0009"},
		{10, "000A"},
		{35, "000Z"},
		{36, "0010"},
		{MaxChildren, "ZZZZ"},
	}
	for _, tt := range tests {
		seg, err := Segment(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, seg)

		n, err := Ordinal(seg)
		require.NoError(t, err)
		assert.Equal(t, tt.n, n)
	}
}

func TestSegmentBounds(t *testing.T) {
	_, err := Segment(0)
	assert.ErrorIs(t, err, ErrTreeFull)

	_, err = Segment(MaxChildren + 1)
	assert.ErrorIs(t, err, ErrTreeFull)
}

func TestNextChild(t *testing.T) {
	tests := []struct {
		name      string
		parent    string
		lastChild string
		want      string
		wantErr   error
	}{
		{"first child", "0001", "", "00010001", nil},
		{"second child", "0001", "00010001", "00010002", nil},
		{"past nine", "0001", "00010009", "0001000A", nil},
		{"grandchild", "00010003", "000100030004", "000100030005", nil},
		{"bad parent", "001", "", "", ErrInvalidPath},
		{"not a child", "0001", "00020001", "", ErrInvalidPath},
		{"grandchild as last", "0001", "000100010001", "", ErrInvalidPath},
		{"full", "0001", "0001ZZZZ", "", ErrTreeFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextChild(tt.parent, tt.lastChild)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, Depth(tt.parent)+1, Depth(got))
		})
	}
}

func TestPathOrderMatchesOrdinalOrder(t *testing.T) {
	prev := ""
	for n := 1; n <= 400; n++ {
		seg, err := Segment(n)
		require.NoError(t, err)
		assert.Less(t, prev, seg, "segment %d", n)
		prev = seg
	}
}

func TestAncestorsAndParent(t *testing.T) {
	path := "000100020003"

	assert.Equal(t, []string{"0001", "00010002"}, Ancestors(path))
	assert.Equal(t, "00010002", Parent(path))
	assert.Equal(t, "", Parent("0001"))
	assert.Nil(t, Ancestors("0001"))
	assert.Equal(t, 3, Depth(path))
}

func TestIsDescendantAndRebase(t *testing.T) {
	assert.True(t, IsDescendant("00010002", "0001"))
	assert.False(t, IsDescendant("0001", "0001"))
	assert.False(t, IsDescendant("00020001", "0001"))

	assert.Equal(t, "000300010005", Rebase("000100020005", "00010002", "00030001"))
	assert.Equal(t, "0002", Rebase("0002", "0001", "0003"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("0001000A"))
	assert.ErrorIs(t, Validate(""), ErrInvalidPath)
	assert.ErrorIs(t, Validate("00010"), ErrInvalidPath)
	assert.ErrorIs(t, Validate("000a"), ErrInvalidPath)
}
