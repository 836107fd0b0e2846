// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strings"
)

// AppendTrailingSlash redirects GET and HEAD requests under prefix whose path
// lacks a trailing slash to the slashed form (HTTP 301). Other methods and
// paths pass through.
func AppendTrailingSlash(prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if (r.Method == http.MethodGet || r.Method == http.MethodHead) &&
				strings.HasPrefix(path, prefix) && !strings.HasSuffix(path, "/") {
				newURL := path + "/"
				if r.URL.RawQuery != "" {
					newURL += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, newURL, http.StatusMovedPermanently)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
