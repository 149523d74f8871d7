package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/saint0x/jello/internal/types"
)

func writeFakeExecutable(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write fake executable %s: %v", name, err)
	}
}

func TestBackendPrefersEarlierCandidateInPreference(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix executable bits assumed")
	}
	dir := t.TempDir()
	writeFakeExecutable(t, dir, "ld.gold")
	writeFakeExecutable(t, dir, "ld")
	t.Setenv("PATH", dir)

	b, path, err := Backend("", "", []types.Backend{types.BackendMold, types.BackendGold, types.BackendSystem})
	if err != nil {
		t.Fatalf("Backend: %v", err)
	}
	if b != types.BackendGold {
		t.Fatalf("Backend() = %v, want Gold", b)
	}
	if filepath.Base(path) != "ld.gold" {
		t.Fatalf("Backend() path = %q, want ld.gold", path)
	}
}

func TestBackendOverrideWins(t *testing.T) {
	dir := t.TempDir()
	writeFakeExecutable(t, dir, "ld.gold")
	writeFakeExecutable(t, dir, "ld")
	t.Setenv("PATH", dir)

	b, _, err := Backend("system", "", nil)
	if err != nil {
		t.Fatalf("Backend: %v", err)
	}
	if b != types.BackendSystem {
		t.Fatalf("Backend() = %v, want System override", b)
	}
}

func TestBackendErrorsWhenNothingFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, _, err := Backend("", "", nil); err == nil {
		t.Fatalf("expected Backend to fail with an empty PATH")
	}
}
