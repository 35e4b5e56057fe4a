// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/roamshare/internal/api"
	"github.com/starford/roamshare/internal/apperr"
	"github.com/starford/roamshare/internal/exporter"
	"github.com/starford/roamshare/internal/index"
	"github.com/starford/roamshare/internal/mcpserver"
	"github.com/starford/roamshare/internal/noteservice"
	"github.com/starford/roamshare/internal/rewrite"
	"github.com/starford/roamshare/internal/storage"
	"github.com/starford/roamshare/internal/traverse"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{
		out:     os.Stdout,
		logOut:  os.Stderr,
		version: "dev",
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.confirm == nil {
		app.confirm = exporter.LinerConfirmer{}
	}
	return app, nil
}

// RunExport discovers the notes linked from the configured seed and copies
// them into the output directory, rewriting the copies when a web prefix is
// configured. Declining to replace an existing output directory is not an
// error.
func RunExport(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config.Export
	if err := cfg.ValidateForExport(); err != nil {
		return fmt.Errorf("invalid export settings: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(app.logOut, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	out := app.out

	if len(cfg.Exclude) > 0 {
		fmt.Fprintln(out, "Following notes will be excluded:")
		for _, x := range cfg.Exclude {
			fmt.Fprintf(out, "- %s\n", x)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Starting with note: %s\n\n", cfg.Seed)

	store, err := storage.NewFS(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("open input dir: %w", err)
	}
	svc := noteservice.NewService(store, logger)

	res, err := svc.Traverse(ctx, noteservice.DiscoverRequest{
		Seed:      cfg.Seed,
		Depth:     *cfg.Depth,
		Exclude:   cfg.Exclude,
		DropEmpty: cfg.DropEmpty,
	})
	if err != nil {
		return err
	}
	printWaves(out, res)
	if !res.SeedExported() {
		return fmt.Errorf("%w: %s", apperr.ErrSeedMissing, res.Seed)
	}

	var rw *rewrite.Rewriter
	if cfg.WebPrefix != nil {
		rw = rewrite.New(cfg.WebPrefix, res.Names())
	}

	report, err := exporter.New(app.confirm, logger).Export(ctx, store, cfg.OutputDir, res.Paths(), rw)
	if err != nil {
		if errors.Is(err, apperr.ErrAborted) {
			fmt.Fprintln(out, "Aborting...")
			return nil
		}
		return err
	}
	fmt.Fprintf(out, "%d files successfully copied into directory '%s'\n", len(report.Copied), cfg.OutputDir)
	if rw.Enabled() {
		fmt.Fprintf(out, "%d files rewritten for the web\n", report.Rewritten)
	}

	if cfg.Manifest != "" {
		if err := recordManifest(cfg, store, res, report, logger); err != nil {
			return err
		}
	}
	return nil
}

func printWaves(out io.Writer, res *traverse.Result) {
	for _, w := range res.Waves {
		fmt.Fprintf(out, "Wave %d:\n---\n", w.Number)
		for _, n := range w.Notes {
			fmt.Fprintln(out, n)
		}
		fmt.Fprint(out, "---\n\n")
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}
}

func recordManifest(cfg ExportConfig, store storage.Provider, res *traverse.Result, report *exporter.Report, logger *slog.Logger) error {
	db, err := index.Open(cfg.Manifest)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer db.Close()

	id, err := index.Record(db, store, res, index.ExportRow{
		Seed:      res.Seed,
		Depth:     *cfg.Depth,
		InputDir:  store.Root(),
		OutputDir: report.OutputDir,
		WebPrefix: cfg.WebPrefix,
	}, logger)
	if err != nil {
		return fmt.Errorf("record manifest: %w", err)
	}
	logger.Info("Manifest recorded", slog.String("path", cfg.Manifest), slog.Int64("export_id", id))
	return nil
}

// RunServe starts the preview HTTP API over the configured input directory.
func RunServe(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	inputDir, _ := filepath.Abs(cfg.Export.InputDir)
	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("input_dir", inputDir),
		slog.Bool("auth_enabled", cfg.Auth.AuthEnabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Export.InputDir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	svc := noteservice.NewService(store, logger)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools on stdin/stdout. Logs go to the log output so
// they never mix with the protocol stream.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	store, err := storage.NewFS(cfg.Export.InputDir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	srv := mcpserver.New(noteservice.NewService(store, logger), app.version)

	logger.Info("MCP server starting", slog.String("input_dir", store.Root()))
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
