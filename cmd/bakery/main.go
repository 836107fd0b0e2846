// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/config"
	"github.com/olegiv/bakery/internal/logging"
	"github.com/olegiv/bakery/internal/seed"
	"github.com/olegiv/bakery/internal/service"
	"github.com/olegiv/bakery/internal/storage"
	"github.com/olegiv/bakery/internal/store"
	"github.com/olegiv/bakery/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// eventRetention is how long event log records are kept.
const eventRetention = 30 * 24 * time.Hour

const usage = `bakery - bakery content store and read API

Usage:
  %s [options] [command]

Commands:
  serve                                  Run the HTTP server (default)
  migrate                                Apply database migrations and exit
  reset                                  Delete the database and local media files
  create_random_data <pages> <snippets> <images>
                                         Fill the store with random content

Options:
`

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, usage, os.Args[0])
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BAKERY_DB_PATH          SQLite database path (default: ./data/bakery.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BAKERY_SERVER_PORT      Server port (default: 8000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BAKERY_BASE_URL         Public base URL (default: http://localhost:8000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BAKERY_STORAGE_BACKEND  Media storage: fs|s3 (default: fs)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BAKERY_REDIS_URL        Redis URL for distributed caching (optional)\n")
	}
	flag.Parse()

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("bakery %s\n", info)
		os.Exit(0)
	}

	if err := run(flag.Args(), info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(args []string, info version.Info) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	var counts [3]int
	switch command {
	case "serve", "migrate", "reset":
		if len(args) != 0 {
			return fmt.Errorf("%s takes no arguments", command)
		}
	case "create_random_data":
		if counts, err = parseCounts(args); err != nil {
			return err
		}
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}

	if command == "reset" {
		mediaDir := ""
		if cfg.StorageBackend == storage.BackendFS {
			mediaDir = cfg.MediaDir
		}
		return seed.Reset(cfg.DBPath, mediaDir)
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	// WARN and ERROR records also go to the event log table from here on.
	logger = slog.New(logging.NewEventLogHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}), db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	if command == "migrate" {
		slog.Info("database ready", "path", cfg.DBPath)
		return nil
	}

	backend, err := storage.New(ctx, cfg.Storage())
	if err != nil {
		return fmt.Errorf("initializing media storage: %w", err)
	}
	c := cache.New(cfg.Cache(), logger)
	defer func() { _ = c.Close() }()

	svc := services{
		pages:    service.NewPageService(db, c, logger),
		media:    service.NewMediaService(db, backend, nil, c, logger),
		snippets: service.NewSnippetService(db, c, logger),
		sites:    service.NewSiteService(db, c, logger),
	}
	events := service.NewEventService(db, logger)

	if command == "create_random_data" {
		g := seed.NewGenerator(seed.Services{
			Pages:    svc.pages,
			Media:    svc.media,
			Snippets: svc.snippets,
			Sites:    svc.sites,
			Events:   events,
			Users:    service.NewUserService(db),
		}, nil, logger)
		generated, err := g.Run(ctx, counts[0], counts[1], counts[2])
		if err != nil {
			return fmt.Errorf("creating random data: %w", err)
		}
		_, _ = fmt.Printf("Created %d images, %d documents, %d snippets of each type, %d bread, %d location, %d blog and %d standard pages\n",
			generated.Images, generated.Documents, generated.Countries,
			generated.BreadPages, generated.LocationPages, generated.BlogPages, generated.StandardPages)
		return nil
	}

	if n, err := events.DeleteOldEvents(ctx, eventRetention); err != nil {
		slog.Warn("pruning event log failed", "error", err)
	} else if n > 0 {
		slog.Info("event log pruned", "deleted", n)
	}

	return serve(cfg, info, db, backend, c, svc, logger)
}

// parseCounts reads the three positional counts of create_random_data.
func parseCounts(args []string) ([3]int, error) {
	var counts [3]int
	if len(args) != 3 {
		return counts, errors.New("usage: create_random_data <pages> <snippets> <images>")
	}
	names := [3]string{"pages", "snippets", "images"}
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return counts, fmt.Errorf("%s must be a non-negative integer, got %q", names[i], arg)
		}
		counts[i] = n
	}
	return counts, nil
}

// openDB opens the database, creating its directory, and applies migrations.
func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", path)
	db, err := store.NewDB(path)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func serve(cfg *config.Config, info version.Info, db *sql.DB, backend storage.Backend, c cache.Cache, svc services, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := newRouter(routerDeps{
		cfg:      cfg,
		version:  info.Version,
		db:       db,
		backend:  backend,
		cache:    c,
		services: svc,
		registry: reg,
		logger:   logger,
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
