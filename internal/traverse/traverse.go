// Package traverse discovers the set of notes reachable from a seed note by
// following wikilinks breadth-first for a bounded number of waves.
package traverse

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/starford/roamshare/internal/models"
	"github.com/starford/roamshare/internal/parser"
	"github.com/starford/roamshare/internal/storage"
)

// Options controls a traversal.
type Options struct {
	// Seed is the starting note, with or without the .md extension.
	Seed string
	// Depth is the number of waves to expand. Zero exports only the seed.
	Depth int
	// Exclude lists note names that never enter a frontier.
	Exclude []string
	// DropEmpty keeps zero-byte notes out of the frontier.
	DropEmpty bool
	Logger    *slog.Logger
}

// Result is the outcome of a traversal.
type Result struct {
	Seed     string
	Waves    []models.Wave
	Warnings []string

	export  set
	waveOf  map[string]int
	edges   []models.Link
	missing set
}

type set map[string]struct{}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Run performs the traversal against store.
func Run(ctx context.Context, store storage.Provider, opts Options) (*Result, error) {
	if opts.Seed == "" {
		return nil, errors.New("traverse: seed is required")
	}
	if opts.Depth < 0 {
		return nil, fmt.Errorf("traverse: depth must be non-negative, got %d", opts.Depth)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exclude := make(set, len(opts.Exclude))
	for _, x := range opts.Exclude {
		exclude[parser.NoteFile(x)] = struct{}{}
	}

	seed := parser.NoteFile(opts.Seed)
	res := &Result{
		Seed:    seed,
		export:  set{seed: {}},
		waveOf:  map[string]int{seed: 0},
		missing: set{},
	}
	frontier := set{seed: {}}

	for wave := 1; wave <= opts.Depth; wave++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates := set{}
		for _, note := range frontier.sorted() {
			data, err := store.Read(note)
			if err != nil {
				res.warnMissing(logger, note, err)
				delete(res.export, note)
				delete(res.waveOf, note)
				continue
			}
			for _, target := range parser.NotePaths(string(data)) {
				if _, ok := exclude[target]; ok {
					continue
				}
				res.edges = append(res.edges, models.Link{Source: note, Target: target})
				if res.seen(target, candidates) {
					continue
				}
				if !res.admissible(logger, store, target, opts.DropEmpty) {
					continue
				}
				candidates[target] = struct{}{}
			}
		}

		frontier = candidates
		listing := frontier.sorted()
		for _, c := range listing {
			res.export[c] = struct{}{}
			res.waveOf[c] = wave
		}
		res.Waves = append(res.Waves, models.Wave{Number: wave, Notes: listing})
		logger.Debug("traverse: wave complete",
			slog.Int("wave", wave),
			slog.Int("discovered", len(listing)),
			slog.Int("export_size", len(res.export)))
	}

	return res, nil
}

// seen reports whether target was already decided on, so it is not stat'ed
// again.
func (r *Result) seen(target string, candidates set) bool {
	if _, ok := r.export[target]; ok {
		return true
	}
	if _, ok := candidates[target]; ok {
		return true
	}
	_, ok := r.missing[target]
	return ok
}

// admissible reports whether target may join the next frontier. Notes that
// do not exist are recorded as missing and never admitted.
func (r *Result) admissible(logger *slog.Logger, store storage.Provider, target string, dropEmpty bool) bool {
	size, err := store.Size(target)
	if err != nil {
		r.warnMissing(logger, target, err)
		return false
	}
	if dropEmpty && size == 0 {
		logger.Debug("traverse: dropping empty note", slog.String("note", target))
		return false
	}
	return true
}

func (r *Result) warnMissing(logger *slog.Logger, note string, err error) {
	if _, ok := r.missing[note]; ok {
		return
	}
	r.missing[note] = struct{}{}

	var msg string
	if errors.Is(err, fs.ErrNotExist) {
		msg = fmt.Sprintf("note %q does not exist, skipping", note)
	} else {
		msg = fmt.Sprintf("note %q is unreadable, skipping: %v", note, err)
	}
	r.Warnings = append(r.Warnings, msg)
	logger.Warn("traverse: skipping note", slog.String("note", note), slog.String("error", err.Error()))
}

// Paths returns the export set as sorted note file names.
func (r *Result) Paths() []string {
	return r.export.sorted()
}

// Len returns the size of the export set.
func (r *Result) Len() int {
	return len(r.export)
}

// Contains reports whether path is in the export set.
func (r *Result) Contains(path string) bool {
	_, ok := r.export[path]
	return ok
}

// SeedExported reports whether the seed survived the traversal.
func (r *Result) SeedExported() bool {
	return r.Contains(r.Seed)
}

// Names returns the export set basenames without the note extension, the
// form wikilinks use.
func (r *Result) Names() map[string]struct{} {
	out := make(map[string]struct{}, len(r.export))
	for p := range r.export {
		out[parser.NoteName(p)] = struct{}{}
	}
	return out
}

// WaveOf returns the wave a note was admitted in; the seed is wave 0.
func (r *Result) WaveOf(path string) (int, bool) {
	w, ok := r.waveOf[path]
	return w, ok
}

// Links returns the distinct edges whose endpoints are both exported.
func (r *Result) Links() []models.Link {
	seen := make(map[models.Link]struct{}, len(r.edges))
	var out []models.Link
	for _, e := range r.edges {
		if !r.Contains(e.Source) || !r.Contains(e.Target) {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}
