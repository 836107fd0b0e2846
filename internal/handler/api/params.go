// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olegiv/bakery/internal/handler"
)

func badParam(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{handler.ErrInvalidParam}, args...)...)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// splitList splits a comma separated parameter, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
