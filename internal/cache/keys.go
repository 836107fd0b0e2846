// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "strconv"

// Key prefixes of cached API detail responses.
const (
	PrefixAPI       = "api:"
	PrefixPages     = "api:pages:"
	PrefixImages    = "api:images:"
	PrefixDocuments = "api:documents:"
)

// Key joins a prefix and a record id.
func Key(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}
