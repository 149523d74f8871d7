// Package normalize reconciles a freshly parsed Invocation into its
// canonical form: conflicting flag pairs resolved last-wins, duplicates
// collapsed, defaults applied.
package normalize

import "github.com/saint0x/jello/internal/types"

// Invocation reconciles inv and returns the normalized result. Applying
// Invocation twice is a no-op: the result of the first pass is already
// fully deduplicated and default-applied.
func Invocation(inv types.Invocation) types.Invocation {
	inv.Flags = resolvePieConflict(inv.Flags)
	inv.Flags = dedupFlags(inv.Flags)
	inv.ExplicitSearchPaths = dedupStrings(inv.ExplicitSearchPaths)

	if !inv.HasOutput || inv.Output == "" {
		inv.Output = "a.out"
		inv.HasOutput = true
	}

	inv.LinkMode = types.DeriveLinkMode(inv.Flags)
	return inv
}

// resolvePieConflict drops any -pie whose opposite -no-pie appears later in
// the flag list, and vice versa, leaving only the last word on the matter.
func resolvePieConflict(flags []types.Flag) []types.Flag {
	drop := make([]bool, len(flags))
	var lastPieIdx, lastNoPieIdx = -1, -1
	for i, f := range flags {
		switch f.Kind {
		case types.FlagPIE:
			if lastNoPieIdx >= 0 {
				drop[lastNoPieIdx] = true
			}
			lastPieIdx = i
		case types.FlagNoPIE:
			if lastPieIdx >= 0 {
				drop[lastPieIdx] = true
			}
			lastNoPieIdx = i
		}
	}
	out := make([]types.Flag, 0, len(flags))
	for i, f := range flags {
		if !drop[i] {
			out = append(out, f)
		}
	}
	return out
}

// dedupFlags drops a flag on its second and later structurally-equal
// occurrence, except for position-sensitive kinds whose repetitions always
// carry meaning.
func dedupFlags(flags []types.Flag) []types.Flag {
	seen := make([]types.Flag, 0, len(flags))
	out := make([]types.Flag, 0, len(flags))
	for _, f := range flags {
		if types.IsPositionSensitive(f.Kind) {
			out = append(out, f)
			continue
		}
		dup := false
		for _, s := range seen {
			if s.Equal(f) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen = append(seen, f)
		out = append(out, f)
	}
	return out
}

func dedupStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
