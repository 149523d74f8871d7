package triple

import (
	"context"
	"testing"

	"github.com/saint0x/jello/internal/types"
)

func TestDetectFallsBackWithoutCompiler(t *testing.T) {
	got := Detect(context.Background(), "")
	if got.Arch == types.ArchUnknown {
		t.Fatalf("expected Detect to synthesize a known arch, got %+v", got)
	}
	if got.OS == types.OSUnknown {
		t.Fatalf("expected Detect to synthesize a known OS, got %+v", got)
	}
}

func TestNormalizeUnameArch(t *testing.T) {
	cases := map[string]string{
		"amd64":         "x86_64",
		"x86_64":        "x86_64",
		"arm64":         "aarch64",
		"i686":          "i686",
		"unknown-thing": "unknown-thing",
	}
	for in, want := range cases {
		if got := normalizeUnameArch(in); got != want {
			t.Fatalf("normalizeUnameArch(%q) = %q, want %q", in, got, want)
		}
	}
}
