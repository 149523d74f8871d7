// Package reorder sorts static archives into link order by their symbol
// dependencies: an archive that needs a symbol another archive defines
// must appear before it on the command line.
package reorder

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/saint0x/jello/internal/symbols"
	"github.com/saint0x/jello/internal/types"
)

// Libs extracts symbols from every path in archivePaths and returns them in
// dependency order: a node with an edge to another (it needs one of the
// other's symbols) comes first. If the graph has a cycle, the original
// order is kept and a single High-confidence AddGroup fix wraps the cycle
// members in a start-group/end-group block. If symbol extraction fails for
// every archive, the input order is returned unchanged with no fixes. cache
// may be nil, in which case every archive's symbol table is re-extracted.
// maxJobs caps concurrent nm invocations; <= 0 defaults to GOMAXPROCS.
func Libs(ctx context.Context, nmPath string, archivePaths []string, cache *symbols.Cache, maxJobs int) ([]string, []types.Fix, error) {
	nodes := dedupeSorted(archivePaths)
	if len(nodes) == 0 {
		return archivePaths, nil, nil
	}

	files, err := symbols.ExtractAllCached(ctx, nmPath, nodes, cache, maxJobs)
	if err != nil {
		return archivePaths, nil, nil
	}

	edges := buildEdges(nodes, files)
	order, cycle := topoSort(nodes, edges)
	if len(cycle) == 0 {
		return order, nil, nil
	}
	return archivePaths, []types.Fix{cycleFix(cycle)}, nil
}

// buildEdges adds A -> B whenever A has an undefined symbol that B
// provides, for A != B.
func buildEdges(nodes []string, files map[string][]types.Symbol) map[string][]string {
	providers := symbols.Providers(files)
	requirements := symbols.Requirements(files)

	edges := make(map[string][]string, len(nodes))
	for _, a := range nodes {
		targets := make(map[string]struct{})
		for _, sym := range requirements[a] {
			for _, b := range providers[sym] {
				if b != a {
					targets[b] = struct{}{}
				}
			}
		}
		list := make([]string, 0, len(targets))
		for b := range targets {
			list = append(list, b)
		}
		sort.Strings(list)
		edges[a] = list
	}
	return edges
}

const (
	colorWhite = 0
	colorGray  = 1
	colorBlack = 2
)

// topoSort runs a deterministic DFS (nodes and each node's edges visited in
// sorted order) marking gray/black, recording finish order, and collecting
// the DFS stack into cycle whenever a gray node is revisited.
func topoSort(nodes []string, edges map[string][]string) (order []string, cycle []string) {
	color := make(map[string]int, len(nodes))
	var stack []string
	var finish []string
	cycleSet := make(map[string]struct{})

	var visit func(u string)
	visit = func(u string) {
		color[u] = colorGray
		stack = append(stack, u)
		for _, v := range edges[u] {
			switch color[v] {
			case colorWhite:
				visit(v)
			case colorGray:
				for _, s := range stack {
					cycleSet[s] = struct{}{}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[u] = colorBlack
		finish = append(finish, u)
	}

	for _, n := range nodes {
		if color[n] == colorWhite {
			visit(n)
		}
	}

	if len(cycleSet) == 0 {
		// Reverse finish order: for edge u -> v, u finishes after v, so
		// reversing puts dependents before their dependencies.
		order = make([]string, len(finish))
		for i, n := range finish {
			order[len(finish)-1-i] = n
		}
		return order, nil
	}

	for n := range cycleSet {
		cycle = append(cycle, n)
	}
	sort.Strings(cycle)
	return nodes, cycle
}

func cycleFix(cycle []string) types.Fix {
	bases := make([]string, len(cycle))
	for i, p := range cycle {
		bases[i] = filepath.Base(p)
	}
	return types.Fix{
		Description: "circular dependency between " + joinBases(bases) + "; wrapping in --start-group/--end-group",
		Confidence:  types.ConfidenceHigh,
		Action: types.FixAction{
			Kind: types.ActionAddGroup,
			Libs: cycle,
		},
	}
}

func joinBases(bases []string) string {
	out := ""
	for i, b := range bases {
		if i > 0 {
			out += ", "
		}
		out += b
	}
	return out
}

func dedupeSorted(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
