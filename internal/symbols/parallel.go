package symbols

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/saint0x/jello/internal/types"
)

// ExtractAll extracts symbols from every path in paths, optionally in
// parallel, and reassembles the results into a map keyed by path. It never
// consults a cache; callers that want the on-disk symbol cache use
// ExtractAllCached.
func ExtractAll(ctx context.Context, nmPath string, paths []string) (map[string][]types.Symbol, error) {
	return ExtractAllCached(ctx, nmPath, paths, nil, 0)
}

// ExtractAllCached behaves like ExtractAll, but consults cache before
// spawning nm for each path and populates it afterward. A nil cache makes
// this identical to ExtractAll. The set of archives that jello's own
// reorder graph is built from is typically small, but the extraction
// itself (spawning nm once per archive) is pure I/O-wait, so it is worth
// overlapping. maxJobs caps how many nm invocations run concurrently; a
// value <= 0 defaults to runtime.GOMAXPROCS(0).
func ExtractAllCached(ctx context.Context, nmPath string, paths []string, cache *Cache, maxJobs int) (map[string][]types.Symbol, error) {
	sorted := append([]string{}, paths...)
	sort.Strings(sorted)

	results := make([][]types.Symbol, len(sorted))
	errs := make([]error, len(sorted))

	jobs := maxJobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(sorted) {
		jobs = len(sorted)
	}

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, path := range sorted {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if syms, ok := cache.Get(path); ok {
				results[i] = syms
				return nil
			}
			syms, err := Extract(gctx, nmPath, path)
			results[i] = syms
			errs[i] = err
			if err == nil {
				_ = cache.Put(path, syms)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make(map[string][]types.Symbol, len(sorted))
	var failures int
	for i, path := range sorted {
		if errs[i] != nil {
			failures++
			continue
		}
		files[path] = results[i]
	}
	if failures == len(sorted) && len(sorted) > 0 {
		return nil, &types.SymbolError{Reason: "symbol extraction failed for every archive"}
	}
	return files, nil
}
