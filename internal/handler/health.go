// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/bakery/internal/storage"
)

// healthProbeKey is opened on the storage backend to check reachability.
const healthProbeKey = ".health-probe"

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	backend   storage.Backend
	version   string
	detailed  bool
	startTime time.Time
}

// NewHealthHandler creates a new health handler. With detailed set, /health
// reports the individual checks and, on ?verbose=true, runtime figures.
func NewHealthHandler(db *sql.DB, backend storage.Backend, version string, detailed bool) *HealthHandler {
	return &HealthHandler{
		db:        db,
		backend:   backend,
		version:   version,
		detailed:  detailed,
		startTime: time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp,omitzero"`
	Uptime    string           `json:"uptime,omitempty"`
	Version   string           `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	storageCheck := h.checkStorage(r.Context())

	status := HealthStatus{Status: "healthy"}
	code := http.StatusOK
	if dbCheck.Status != "healthy" || storageCheck.Status != "healthy" {
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	if h.detailed {
		status.Timestamp = time.Now().UTC()
		status.Uptime = time.Since(h.startTime).Round(time.Second).String()
		status.Version = h.version
		status.Checks = map[string]Check{
			"database": dbCheck,
			"storage":  storageCheck,
		}
		if r.URL.Query().Get("verbose") == "true" {
			status.System = systemInfo()
		}
	}

	WriteJSON(w, code, status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - checks if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.checkDatabase(r.Context()).Status != "healthy" {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: "unhealthy", Message: "Database unreachable", Latency: latency.String()}
	}
	return Check{Status: "healthy", Message: "Connected", Latency: latency.String()}
}

// checkStorage opens a probe key; a miss proves the backend answers.
func (h *HealthHandler) checkStorage(ctx context.Context) Check {
	if h.backend == nil {
		return Check{Status: "healthy", Message: "No storage configured"}
	}
	start := time.Now()
	rc, err := h.backend.Open(ctx, healthProbeKey)
	latency := time.Since(start)

	switch {
	case err == nil:
		_ = rc.Close()
	case errors.Is(err, storage.ErrObjectNotFound):
	default:
		return Check{Status: "unhealthy", Message: "Storage unreachable", Latency: latency.String()}
	}
	return Check{Status: "healthy", Message: "Reachable", Latency: latency.String()}
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
