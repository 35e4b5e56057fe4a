package traverse_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/roamshare/internal/models"
	"github.com/starford/roamshare/internal/storage"
	"github.com/starford/roamshare/internal/testutil"
	"github.com/starford/roamshare/internal/traverse"
)

func run(t *testing.T, notes map[string]string, opts traverse.Options) *traverse.Result {
	t.Helper()
	_, store := testutil.TestVault(t, notes)
	res, err := traverse.Run(context.Background(), store, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func assertPaths(t *testing.T, res *traverse.Result, want []string) {
	t.Helper()
	if diff := cmp.Diff(want, res.Paths()); diff != "" {
		t.Errorf("export set mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_DepthZeroIsSeedOnly(t *testing.T) {
	res := run(t, map[string]string{
		"A.md": "[[B]]",
		"B.md": "b",
	}, traverse.Options{Seed: "A", Depth: 0})
	assertPaths(t, res, []string{"A.md"})
	if len(res.Waves) != 0 {
		t.Errorf("waves = %v, want none", res.Waves)
	}
}

func TestRun_SingleLink(t *testing.T) {
	res := run(t, map[string]string{
		"A.md": "see [[B]]",
		"B.md": "b",
	}, traverse.Options{Seed: "A.md", Depth: 1})
	assertPaths(t, res, []string{"A.md", "B.md"})
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestRun_Exclusion(t *testing.T) {
	res := run(t, map[string]string{
		"A.md": "[[B]] and [[C]]",
		"B.md": "b",
		"C.md": "c",
	}, traverse.Options{Seed: "A", Depth: 1, Exclude: []string{"C"}})
	assertPaths(t, res, []string{"A.md", "B.md"})
}

func TestRun_ExclusionHoldsOnEveryPath(t *testing.T) {
	notes := map[string]string{
		"A.md": "[[B]] [[D]]",
		"B.md": "[[C]]",
		"C.md": "[[E]]",
		"D.md": "[[C]]",
		"E.md": "e",
	}
	for _, exclude := range [][]string{{"C"}, {"C.md"}} {
		for depth := 0; depth <= 5; depth++ {
			res := run(t, notes, traverse.Options{Seed: "A", Depth: depth, Exclude: exclude})
			if res.Contains("C.md") {
				t.Errorf("exclude=%v depth=%d: C.md exported", exclude, depth)
			}
			if res.Contains("E.md") {
				t.Errorf("exclude=%v depth=%d: E.md reachable only through excluded C.md", exclude, depth)
			}
		}
	}
}

func TestRun_MissingLinkedNote(t *testing.T) {
	res := run(t, map[string]string{
		"A.md": "[[B]]",
	}, traverse.Options{Seed: "A", Depth: 1})
	assertPaths(t, res, []string{"A.md"})
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", res.Warnings)
	}
}

func TestRun_MissingNoteDoesNotAffectSiblings(t *testing.T) {
	res := run(t, map[string]string{
		"A.md": "[[B]] [[Ghost]] [[C]]",
		"B.md": "[[D]]",
		"C.md": "c",
		"D.md": "d",
	}, traverse.Options{Seed: "A", Depth: 2})
	assertPaths(t, res, []string{"A.md", "B.md", "C.md", "D.md"})
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want one for Ghost.md", res.Warnings)
	}
}

func TestRun_MissingNoteWarnsOnce(t *testing.T) {
	res := run(t, map[string]string{
		"A.md": "[[Ghost]] [[B]]",
		"B.md": "[[Ghost]]",
	}, traverse.Options{Seed: "A", Depth: 3})
	assertPaths(t, res, []string{"A.md", "B.md"})
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want one", res.Warnings)
	}
}

func TestRun_MissingSeedIsRetracted(t *testing.T) {
	res := run(t, map[string]string{"B.md": "b"}, traverse.Options{Seed: "A", Depth: 1})
	if res.Len() != 0 || res.SeedExported() {
		t.Errorf("export = %v, want empty", res.Paths())
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestRun_FullReachabilityAndIdempotenceBeyondDiameter(t *testing.T) {
	notes := map[string]string{
		"A.md": "[[B]] [[C]]",
		"B.md": "[[D]]",
		"C.md": "[[D]] [[E]]",
		"D.md": "[[F]]",
		"E.md": "e",
		"F.md": "f",
		"G.md": "unreachable",
	}
	want := []string{"A.md", "B.md", "C.md", "D.md", "E.md", "F.md"}
	for depth := 3; depth <= 6; depth++ {
		res := run(t, notes, traverse.Options{Seed: "A", Depth: depth})
		assertPaths(t, res, want)
	}

	res := run(t, notes, traverse.Options{Seed: "A", Depth: 2})
	assertPaths(t, res, []string{"A.md", "B.md", "C.md", "D.md", "E.md"})
}

func TestRun_WavesAreSortedAndDisjoint(t *testing.T) {
	res := run(t, map[string]string{
		"A.md":     "[[Zeta]] [[Alpha]] [[Mid]]",
		"Zeta.md":  "[[A]] [[Omega]]",
		"Alpha.md": "[[Zeta]]",
		"Mid.md":   "m",
		"Omega.md": "o",
	}, traverse.Options{Seed: "A", Depth: 3})

	want := []models.Wave{
		{Number: 1, Notes: []string{"Alpha.md", "Mid.md", "Zeta.md"}},
		{Number: 2, Notes: []string{"Omega.md"}},
		{Number: 3, Notes: []string{}},
	}
	if diff := cmp.Diff(want, res.Waves); diff != "" {
		t.Errorf("waves mismatch (-want +got):\n%s", diff)
	}
	if w, ok := res.WaveOf("Omega.md"); !ok || w != 2 {
		t.Errorf("WaveOf(Omega.md) = %d, %v", w, ok)
	}
	if w, ok := res.WaveOf("A.md"); !ok || w != 0 {
		t.Errorf("WaveOf(A.md) = %d, %v", w, ok)
	}
}

func TestRun_SelfLinkAndCycle(t *testing.T) {
	res := run(t, map[string]string{
		"A.md": "[[A]] [[B]]",
		"B.md": "[[A]]",
	}, traverse.Options{Seed: "A", Depth: 4})
	assertPaths(t, res, []string{"A.md", "B.md"})
}

func TestRun_DropEmpty(t *testing.T) {
	notes := map[string]string{
		"A.md":     "[[Empty]] [[B]]",
		"B.md":     "b",
		"Empty.md": "",
	}
	res := run(t, notes, traverse.Options{Seed: "A", Depth: 1, DropEmpty: true})
	assertPaths(t, res, []string{"A.md", "B.md"})

	res = run(t, notes, traverse.Options{Seed: "A", Depth: 1})
	assertPaths(t, res, []string{"A.md", "B.md", "Empty.md"})
}

func TestRun_NamesAndLinks(t *testing.T) {
	res := run(t, map[string]string{
		"A.md":       "[[My Note]] [[Gone]]",
		"My Note.md": "[[A]]",
	}, traverse.Options{Seed: "A", Depth: 2})

	wantNames := map[string]struct{}{"A": {}, "My Note": {}}
	if diff := cmp.Diff(wantNames, res.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	wantLinks := []models.Link{
		{Source: "A.md", Target: "My Note.md"},
		{Source: "My Note.md", Target: "A.md"},
	}
	if diff := cmp.Diff(wantLinks, res.Links()); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	_, store := testutil.TestVault(t, nil)
	if _, err := traverse.Run(context.Background(), store, traverse.Options{Seed: "", Depth: 1}); err == nil {
		t.Error("expected error for empty seed")
	}
	if _, err := traverse.Run(context.Background(), store, traverse.Options{Seed: "A", Depth: -1}); err == nil {
		t.Error("expected error for negative depth")
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	_, store := testutil.TestVault(t, map[string]string{"A.md": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := traverse.Run(ctx, store, traverse.Options{Seed: "A", Depth: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type sizeCounter struct {
	storage.Provider
	calls map[string]int
}

func (c *sizeCounter) Size(path string) (int64, error) {
	c.calls[path]++
	return c.Provider.Size(path)
}

func TestRun_ChecksEachCandidateOnce(t *testing.T) {
	_, store := testutil.TestVault(t, map[string]string{
		"A.md": "[[B]] [[A]] [[C]] [[B]]",
		"B.md": "[[A]] [[C]]",
		"C.md": "[[A]] [[B]]",
	})
	counter := &sizeCounter{Provider: store, calls: map[string]int{}}

	res, err := traverse.Run(context.Background(), counter, traverse.Options{Seed: "A", Depth: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertPaths(t, res, []string{"A.md", "B.md", "C.md"})
	if diff := cmp.Diff(map[string]int{"B.md": 1, "C.md": 1}, counter.calls); diff != "" {
		t.Errorf("size checks mismatch (-want +got):\n%s", diff)
	}
}
