// Package noteservice coordinates note storage, link discovery and markup
// rewriting for the CLI, the HTTP API and the MCP server.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/starford/roamshare/internal/apperr"
	"github.com/starford/roamshare/internal/models"
	"github.com/starford/roamshare/internal/parser"
	"github.com/starford/roamshare/internal/rewrite"
	"github.com/starford/roamshare/internal/storage"
	"github.com/starford/roamshare/internal/traverse"
)

// DiscoverRequest describes a traversal.
type DiscoverRequest struct {
	Seed      string
	Depth     int
	Exclude   []string
	DropEmpty bool
}

// Discovery is the serializable outcome of a traversal.
type Discovery struct {
	Seed     string        `json:"seed"`
	Notes    []string      `json:"notes"`
	Waves    []models.Wave `json:"waves"`
	Links    []models.Link `json:"links"`
	Warnings []string      `json:"warnings"`
}

// Service coordinates storage and traversal operations.
type Service struct {
	store  storage.Provider
	logger *slog.Logger
}

// NewService creates a new note service.
func NewService(store storage.Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Store returns the underlying note provider.
func (s *Service) Store() storage.Provider {
	return s.store
}

// Traverse runs the frontier traversal. A seed that is not on disk fails
// with apperr.ErrSeedMissing before any wave runs.
func (s *Service) Traverse(ctx context.Context, req DiscoverRequest) (*traverse.Result, error) {
	if req.Seed == "" {
		return nil, errors.New("noteservice: seed is required")
	}
	seed := parser.NoteFile(req.Seed)
	if _, err := s.store.Size(seed); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrSeedMissing, seed)
		}
		return nil, err
	}
	return traverse.Run(ctx, s.store, traverse.Options{
		Seed:      seed,
		Depth:     req.Depth,
		Exclude:   req.Exclude,
		DropEmpty: req.DropEmpty,
		Logger:    s.logger,
	})
}

// Discover runs Traverse and flattens the result.
func (s *Service) Discover(ctx context.Context, req DiscoverRequest) (*Discovery, error) {
	res, err := s.Traverse(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Discovery{
		Seed:     res.Seed,
		Notes:    nonNilSlice(res.Paths()),
		Waves:    nonNilSlice(res.Waves),
		Links:    nonNilSlice(res.Links()),
		Warnings: nonNilSlice(res.Warnings),
	}, nil
}

// ListNotes returns metadata for every note in the collection, ordered by
// path. It helps callers pick a seed.
func (s *Service) ListNotes(_ context.Context) ([]models.NoteMetadata, error) {
	notes, err := s.store.List(".")
	if err != nil {
		return nil, fmt.Errorf("noteservice: list notes: %w", err)
	}
	return nonNilSlice(notes), nil
}

// ReadNote returns the raw content of a note by name or file name.
func (s *Service) ReadNote(_ context.Context, name string) ([]byte, error) {
	data, err := s.store.Read(parser.NoteFile(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Rewrite rewrites content against the given exported note names. Names may
// carry the .md extension; it is stripped before lookup.
func (s *Service) Rewrite(content string, exported []string, prefix *string) string {
	names := make(map[string]struct{}, len(exported))
	for _, n := range exported {
		names[parser.NoteName(n)] = struct{}{}
	}
	return rewrite.Rewrite(content, names, prefix)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
