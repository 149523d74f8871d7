// Package resolve maps library references collected by Parse into concrete
// files on disk, honoring -static/-dynamic preference and search path
// ordering.
package resolve

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/saint0x/jello/internal/types"
)

// Libs resolves every library reference in inv (from both LinkLib flags and
// Lib inputs) against searchPaths, in order. A single unresolved reference
// becomes a ResolveError; more than one composes into a Multiple. Resolved
// libraries are returned in reference order even when some references
// failed, so callers can still act on the ones that succeeded.
func Libs(ctx context.Context, inv types.Invocation, searchPaths []string) ([]types.ResolvedLib, error) {
	refs := collectRefs(inv)
	staticPreferred := staticPreference(inv.Flags)

	var resolved []types.ResolvedLib
	var failures []error

	for _, ref := range refs {
		lib, err := resolveOne(ref, searchPaths, staticPreferred)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		lib.DetectedArch, lib.HasDetectArch = detectArch(ctx, lib.ResolvedPath)
		resolved = append(resolved, lib)
	}

	switch len(failures) {
	case 0:
		return resolved, nil
	case 1:
		return resolved, failures[0]
	default:
		return resolved, &types.Multiple{Errors: failures}
	}
}

func collectRefs(inv types.Invocation) []types.LibRef {
	var refs []types.LibRef
	for _, f := range inv.Flags {
		if f.Kind == types.FlagLinkLib {
			refs = append(refs, f.Lib)
		}
	}
	for _, in := range inv.Inputs {
		if in.Kind == types.InputLib {
			refs = append(refs, in.Lib)
		}
	}
	return refs
}

// staticPreference walks flags in order, tracking the last of
// {B-static/Set_static -> true, B-dynamic -> false}.
func staticPreference(flags []types.Flag) bool {
	preferStatic := false
	for _, f := range flags {
		switch f.Kind {
		case types.FlagBStatic, types.FlagSetStatic:
			preferStatic = true
		case types.FlagBDynamic:
			preferStatic = false
		}
	}
	return preferStatic
}

func resolveOne(ref types.LibRef, searchPaths []string, preferStatic bool) (types.ResolvedLib, error) {
	switch ref.Kind {
	case types.LibRefPath:
		if !fileExists(ref.Path) {
			return types.ResolvedLib{}, &types.ResolveError{Lib: ref.Path, Searched: []string{ref.Path}}
		}
		return types.ResolvedLib{Ref: ref, ResolvedPath: ref.Path, Kind: kindFromExt(ref.Path)}, nil

	case types.LibRefFramework:
		candidates := []string{
			"/System/Library/Frameworks/" + ref.Name + ".framework/" + ref.Name,
			"/Library/Frameworks/" + ref.Name + ".framework/" + ref.Name,
		}
		for _, c := range candidates {
			if fileExists(c) {
				return types.ResolvedLib{Ref: ref, ResolvedPath: c, Kind: types.LibKindShared}, nil
			}
		}
		return types.ResolvedLib{}, &types.ResolveError{Lib: ref.Name, Searched: candidates}

	default: // LibRefNamed
		var searched []string
		for _, dir := range searchPaths {
			for _, cand := range namedCandidates(dir, ref.Name, preferStatic) {
				searched = append(searched, cand.path)
				if fileExists(cand.path) {
					return types.ResolvedLib{Ref: ref, ResolvedPath: cand.path, Kind: cand.kind}, nil
				}
			}
		}
		return types.ResolvedLib{}, &types.ResolveError{Lib: ref.Name, Searched: searched}
	}
}

type candidate struct {
	path string
	kind types.LibKind
}

func namedCandidates(dir, name string, preferStatic bool) []candidate {
	static := candidate{filepath.Join(dir, "lib"+name+".a"), types.LibKindStatic}
	shared := sharedCandidate(dir, name)
	if preferStatic {
		return []candidate{static, shared}
	}
	return []candidate{shared, static}
}

func sharedCandidate(dir, name string) candidate {
	ext := ".so"
	if runtime.GOOS == "darwin" {
		ext = ".dylib"
	}
	return candidate{filepath.Join(dir, "lib"+name+ext), types.LibKindShared}
}

func kindFromExt(path string) types.LibKind {
	switch {
	case strings.HasSuffix(path, ".a"):
		return types.LibKindStatic
	default:
		return types.LibKindShared
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// detectArch runs the platform `file` tool and parses its output for known
// architecture keywords. It is advisory: failure or an unrecognized output
// simply yields (ArchUnknown, false) rather than an error.
func detectArch(ctx context.Context, path string) (types.Arch, bool) {
	out, err := exec.CommandContext(ctx, "file", path).Output()
	if err != nil {
		return types.ArchUnknown, false
	}
	text := strings.ToLower(string(out))
	switch {
	case strings.Contains(text, "x86-64") || strings.Contains(text, "x86_64"):
		return types.ArchX86_64, true
	case strings.Contains(text, "aarch64") || strings.Contains(text, "arm64"):
		return types.ArchAarch64, true
	case strings.Contains(text, "80386"):
		return types.ArchI686, true
	case strings.Contains(text, "arm"):
		return types.ArchArmv7, true
	default:
		return types.ArchUnknown, false
	}
}
