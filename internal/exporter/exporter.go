// Package exporter materializes an export set into an output directory and
// optionally rewrites the copies for web publication.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/roamshare/internal/apperr"
	"github.com/starford/roamshare/internal/rewrite"
	"github.com/starford/roamshare/internal/storage"
)

// Report summarizes a finished export.
type Report struct {
	OutputDir string
	Copied    []string
	Skipped   []string
	Rewritten int
}

// Exporter copies notes out of a source provider.
type Exporter struct {
	confirm Confirmer
	logger  *slog.Logger
}

// New creates an Exporter. A nil confirmer declines every overwrite.
func New(confirm Confirmer, logger *slog.Logger) *Exporter {
	if confirm == nil {
		confirm = AutoConfirm(false)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{confirm: confirm, logger: logger}
}

// Export copies paths from src into outDir byte-for-byte, then rewrites the
// copies in place when rw is enabled. If outDir already exists the confirmer
// is asked first; declining returns apperr.ErrAborted with nothing changed.
func (e *Exporter) Export(ctx context.Context, src storage.Provider, outDir string, paths []string, rw *rewrite.Rewriter) (*Report, error) {
	if err := e.prepareOutput(src.Root(), outDir); err != nil {
		return nil, err
	}

	dst, err := storage.NewFS(outDir)
	if err != nil {
		return nil, fmt.Errorf("exporter: open output: %w", err)
	}

	report := &Report{OutputDir: dst.Root()}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		data, err := src.Read(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				e.logger.Warn("exporter: note vanished before copy", slog.String("note", p))
				report.Skipped = append(report.Skipped, p)
				continue
			}
			return report, fmt.Errorf("exporter: copy %s: %w", p, err)
		}
		if err := dst.Write(p, data); err != nil {
			return report, fmt.Errorf("exporter: copy %s: %w", p, err)
		}
		report.Copied = append(report.Copied, p)
	}

	if !rw.Enabled() {
		return report, nil
	}

	for _, p := range report.Copied {
		data, err := dst.Read(p)
		if err != nil {
			return report, fmt.Errorf("exporter: rewrite %s: %w", p, err)
		}
		out := rw.Rewrite(string(data))
		if out == string(data) {
			continue
		}
		if err := dst.Write(p, []byte(out)); err != nil {
			return report, fmt.Errorf("exporter: rewrite %s: %w", p, err)
		}
		report.Rewritten++
	}
	return report, nil
}

func withSeparator(dir string) string {
	if strings.HasSuffix(dir, string(os.PathSeparator)) {
		return dir
	}
	return dir + string(os.PathSeparator)
}

// prepareOutput creates outDir, or replaces it after confirmation.
func (e *Exporter) prepareOutput(srcRoot, outDir string) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("exporter: resolve output: %w", err)
	}
	if abs == srcRoot || strings.HasPrefix(srcRoot, withSeparator(abs)) {
		return fmt.Errorf("exporter: output directory %s would contain the input directory", abs)
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return fmt.Errorf("exporter: create output: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("exporter: stat output: %w", err)
	}

	prompt := fmt.Sprintf("Directory '%s' already exists! Do you want to delete the directory? (y/n) ", outDir)
	if !info.IsDir() {
		prompt = fmt.Sprintf("'%s' exists and is not a directory! Do you want to delete it? (y/n) ", outDir)
	}
	ok, err := e.confirm.Confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrAborted
	}

	e.logger.Info("exporter: replacing output directory", slog.String("path", abs))
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("exporter: remove output: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("exporter: create output: %w", err)
	}
	return nil
}
