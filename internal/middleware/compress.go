// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// gzipWriterPool pools gzip.Writer instances to reduce allocations.
var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

// Compress gzips JSON and text responses of at least minSize bytes for
// clients that accept gzip. The response is buffered until the handler
// returns, so it suits the bounded API payloads, not media streams.
func Compress(minSize int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			bw := &bufferedWriter{ResponseWriter: w, minSize: minSize}
			next.ServeHTTP(bw, r)
			bw.finish()
		})
	}
}

// bufferedWriter holds the body until finish decides on compression.
type bufferedWriter struct {
	http.ResponseWriter
	minSize    int
	buffer     []byte
	statusCode int
}

func (bw *bufferedWriter) WriteHeader(statusCode int) {
	if bw.statusCode == 0 {
		bw.statusCode = statusCode
	}
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	bw.buffer = append(bw.buffer, b...)
	return len(b), nil
}

func (bw *bufferedWriter) finish() {
	h := bw.Header()
	compress := len(bw.buffer) >= bw.minSize &&
		h.Get("Content-Encoding") == "" &&
		isCompressible(h.Get("Content-Type"))

	h.Add("Vary", "Accept-Encoding")
	if compress {
		h.Set("Content-Encoding", "gzip")
		h.Del("Content-Length")
	}
	if bw.statusCode != 0 {
		bw.ResponseWriter.WriteHeader(bw.statusCode)
	}
	if len(bw.buffer) == 0 {
		return
	}

	if !compress {
		_, _ = bw.ResponseWriter.Write(bw.buffer)
		return
	}
	gz := gzipWriterPool.Get().(*gzip.Writer)
	gz.Reset(bw.ResponseWriter)
	_, _ = gz.Write(bw.buffer)
	_ = gz.Close()
	gzipWriterPool.Put(gz)
}

// isCompressible reports whether the media type is JSON or text.
func isCompressible(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	return mediaType == "application/json" || strings.HasPrefix(mediaType, "text/")
}
