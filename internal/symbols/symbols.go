// Package symbols extracts and classifies symbol tables from object-like
// files by shelling out to nm, and derives the provider/requirement views
// the reorder graph is built from.
package symbols

import (
	"bufio"
	"context"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/saint0x/jello/internal/types"
)

// Extract runs `<nmPath> -P -g <path>` and parses its output into Symbols.
// Each line is "name type [value [size]]"; malformed lines are skipped.
func Extract(ctx context.Context, nmPath, path string) ([]types.Symbol, error) {
	cmd := exec.CommandContext(ctx, nmPath, "-P", "-g", path)
	out, err := cmd.Output()
	if err != nil {
		return nil, &types.SymbolError{Reason: "nm failed on " + path + ": " + err.Error()}
	}
	var syms []types.Symbol
	sc := bufio.NewScanner(strings.NewReader(string(out)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		kind, scope := types.ClassifySymbolType(fields[1][0])
		sym := types.Symbol{Name: fields[0], Kind: kind, Scope: scope}
		if len(fields) >= 3 {
			if v, err := strconv.ParseUint(fields[2], 16, 64); err == nil {
				sym.Value = v
			}
		}
		if len(fields) >= 4 {
			if s, err := strconv.ParseUint(fields[3], 16, 64); err == nil {
				sym.Size = s
			}
		}
		syms = append(syms, sym)
	}
	return syms, nil
}

// Undefined filters syms to those with kind Undefined.
func Undefined(syms []types.Symbol) []types.Symbol {
	out := make([]types.Symbol, 0, len(syms))
	for _, s := range syms {
		if s.Kind == types.SymUndefined {
			out = append(out, s)
		}
	}
	return out
}

// Defined filters syms to those that count as defined per
// types.IsDefined: global scope and kind not in {Undefined, Other}.
func Defined(syms []types.Symbol) []types.Symbol {
	out := make([]types.Symbol, 0, len(syms))
	for _, s := range syms {
		if types.IsDefined(s.Kind, s.Scope) {
			out = append(out, s)
		}
	}
	return out
}

// Providers maps each defined symbol name to the sorted set of file paths
// that define it.
func Providers(files map[string][]types.Symbol) map[string][]string {
	providers := make(map[string][]string)
	for path, syms := range files {
		for _, s := range Defined(syms) {
			providers[s.Name] = append(providers[s.Name], path)
		}
	}
	for name := range providers {
		paths := providers[name]
		sort.Strings(paths)
		providers[name] = dedupeSorted(paths)
	}
	return providers
}

// Requirements maps each file path to the sorted list of its undefined
// symbol names.
func Requirements(files map[string][]types.Symbol) map[string][]string {
	reqs := make(map[string][]string, len(files))
	for path, syms := range files {
		var names []string
		for _, s := range Undefined(syms) {
			names = append(names, s.Name)
		}
		sort.Strings(names)
		reqs[path] = names
	}
	return reqs
}

func dedupeSorted(sorted []string) []string {
	out := sorted[:0:0]
	for i, s := range sorted {
		if i > 0 && s == sorted[i-1] {
			continue
		}
		out = append(out, s)
	}
	return out
}
