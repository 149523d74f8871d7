package triple

import (
	"testing"

	"github.com/saint0x/jello/internal/types"
)

func TestParseForms(t *testing.T) {
	cases := []struct {
		in   string
		want types.Triple
	}{
		{"x86_64-linux", types.Triple{Arch: types.ArchX86_64, OS: types.OSLinux}},
		{"x86_64-unknown-linux-gnu", types.Triple{Arch: types.ArchX86_64, Vendor: "unknown", OS: types.OSLinux, Env: types.EnvGnu}},
		{"aarch64-linux-android", types.Triple{Arch: types.ArchAarch64, OS: types.OSLinux, Env: types.EnvAndroid}},
		{"aarch64-apple-darwin24.3.0", types.Triple{Arch: types.ArchAarch64, Vendor: "apple", OS: types.OSDarwin}},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in)
		if !ok {
			t.Fatalf("Parse(%q): expected success", tc.in)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseRejectsUnknownArch(t *testing.T) {
	if _, ok := Parse("notarch-unknown-linux-gnu"); ok {
		t.Fatalf("expected Parse to reject an unrecognized arch field")
	}
}

func TestParseRejectsWrongFieldCount(t *testing.T) {
	if _, ok := Parse("x86_64"); ok {
		t.Fatalf("expected Parse to reject a single-field triple")
	}
}
