package triple

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/saint0x/jello/internal/types"
)

// Detect tries <compiler> --print-effective-triple, then -dumpmachine, and
// finally falls back to a host-derived synthesis. It never
// fails: an unusable compiler or host simply yields the synthesized
// fallback.
func Detect(ctx context.Context, compiler string) types.Triple {
	if compiler != "" {
		if out, err := runCapture(ctx, compiler, "--print-effective-triple"); err == nil {
			if t, ok := Parse(strings.TrimSpace(out)); ok {
				return t
			}
		}
		if out, err := runCapture(ctx, compiler, "-dumpmachine"); err == nil {
			if t, ok := Parse(strings.TrimSpace(out)); ok {
				return t
			}
		}
	}
	return hostFallback(ctx)
}

func runCapture(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	return string(out), err
}

// hostFallback synthesizes a triple from uname, mapping anything jello does
// not recognize to x86_64-linux.
func hostFallback(ctx context.Context) types.Triple {
	archStr := captureOr(ctx, "uname", "-m", runtime.GOARCH)
	osStr := captureOr(ctx, "uname", "-s", "Linux")

	arch, ok := types.ParseArch(normalizeUnameArch(archStr))
	if !ok {
		arch = types.ArchX86_64
	}
	os, ok := types.ParseOS(strings.ToLower(osStr))
	if !ok {
		os = types.OSLinux
	}
	return types.Triple{Arch: arch, OS: os, Env: types.DefaultEnv(os)}
}

func captureOr(ctx context.Context, name, arg, fallback string) string {
	out, err := runCapture(ctx, name, arg)
	if err != nil {
		return fallback
	}
	return strings.TrimSpace(out)
}

// normalizeUnameArch maps common uname -m spellings onto jello's arch
// algebra (e.g. "arm64" -> "aarch64").
func normalizeUnameArch(s string) string {
	switch s {
	case "amd64", "x86_64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "i386", "i686":
		return "i686"
	default:
		return s
	}
}
