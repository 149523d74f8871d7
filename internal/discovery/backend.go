// Package discovery locates backends, nm, real compilers, system search
// paths, sysroot, and linker versions — every lookup is a pure function
// over the process environment and filesystem.
package discovery

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/saint0x/jello/internal/types"
)

// Backend locates a backend linker.
//
// If override is set, it searches only that backend's candidate names. Else
// if preferred (typically parsed from -fuse-ld=) names a known backend, it
// is treated as a request for that backend; if it is an absolute existing
// path, it is treated as a System backend at that path. Else each backend in
// preference is tried in order, returning the first whose executable is
// found on PATH.
func Backend(override string, preferred string, preference []types.Backend) (types.Backend, string, error) {
	if override != "" {
		if b, ok := types.ParseBackend(override); ok {
			if path, ok := findOnPath(b.CandidateNames()); ok {
				return b, path, nil
			}
		}
		return types.BackendUnknown, "", &types.DiscoveryError{Reason: "linker backend override " + override + " not found on PATH"}
	}

	if preferred != "" {
		if b, ok := types.ParseBackend(preferred); ok {
			if path, ok := findOnPath(b.CandidateNames()); ok {
				return b, path, nil
			}
		} else if isAbsExisting(preferred) {
			return types.BackendSystem, preferred, nil
		}
	}

	if len(preference) == 0 {
		preference = types.DefaultBackendPreference()
	}
	for _, b := range preference {
		if path, ok := findOnPath(b.CandidateNames()); ok {
			return b, path, nil
		}
	}
	return types.BackendUnknown, "", &types.DiscoveryError{Reason: "no linker backend found"}
}

func findOnPath(names []string) (string, bool) {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

func isAbsExisting(path string) bool {
	if !strings.HasPrefix(path, "/") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LinkerVersion runs `<path> --version` and returns its first line.
func LinkerVersion(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", err
	}
	line := string(out)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line), nil
}
