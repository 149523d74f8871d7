package parse

import (
	"testing"

	"github.com/saint0x/jello/internal/types"
)

func TestParseClassifiesBasicInvocation(t *testing.T) {
	inv, err := Parse([]string{"-o", "app", "main.o", "-L/usr/lib", "-lm", "-static"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if inv.Output != "app" || !inv.HasOutput {
		t.Fatalf("Output = %q, HasOutput = %v", inv.Output, inv.HasOutput)
	}
	if len(inv.Inputs) != 1 || inv.Inputs[0].Kind != types.InputObject || inv.Inputs[0].Path != "main.o" {
		t.Fatalf("unexpected inputs: %+v", inv.Inputs)
	}
	if len(inv.ExplicitSearchPaths) != 1 || inv.ExplicitSearchPaths[0] != "/usr/lib" {
		t.Fatalf("unexpected search paths: %+v", inv.ExplicitSearchPaths)
	}
	if inv.LinkMode != types.LinkStatic {
		t.Fatalf("LinkMode = %v, want Static", inv.LinkMode)
	}

	var sawLib bool
	for _, f := range inv.Flags {
		if f.Kind == types.FlagLinkLib && f.Lib == types.Named("m") {
			sawLib = true
		}
	}
	if !sawLib {
		t.Fatalf("expected a LinkLib(Named(m)) flag, got %+v", inv.Flags)
	}
}

func TestParseDropsFrontendOnlyFlags(t *testing.T) {
	inv, err := Parse([]string{"-O2", "-Wall", "-DFOO=1", "-Ifoo", "-std=c11", "-c", "main.o"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(inv.Flags) != 0 {
		t.Fatalf("expected no flags to survive, got %+v", inv.Flags)
	}
	if len(inv.Inputs) != 1 {
		t.Fatalf("expected main.o to remain as an input, got %+v", inv.Inputs)
	}
}

func TestParseExpandsWlCommaList(t *testing.T) {
	inv, err := Parse([]string{"-Wl,--as-needed,-soname,libfoo.so"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var sawAsNeeded, sawSoname bool
	for _, f := range inv.Flags {
		if f.Kind == types.FlagAsNeeded {
			sawAsNeeded = true
		}
		if f.Kind == types.FlagSoname && f.Value == "libfoo.so" {
			sawSoname = true
		}
	}
	if !sawAsNeeded || !sawSoname {
		t.Fatalf("expected -Wl, expansion to yield as-needed and soname flags, got %+v", inv.Flags)
	}
}

func TestParseXlinkerForwardsSingleToken(t *testing.T) {
	inv, err := Parse([]string{"-Xlinker", "--no-undefined"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(inv.Flags) != 1 || inv.Flags[0].Kind != types.FlagPassthrough || inv.Flags[0].Text != "--no-undefined" {
		t.Fatalf("unexpected flags: %+v", inv.Flags)
	}
}

func TestParseSharedWinsOverStatic(t *testing.T) {
	inv, err := Parse([]string{"-static", "-shared"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if inv.LinkMode != types.LinkShared {
		t.Fatalf("LinkMode = %v, want Shared", inv.LinkMode)
	}
}

func TestParseLtoBareAndValued(t *testing.T) {
	inv, err := Parse([]string{"-flto", "-flto=thin"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(inv.Flags) != 2 {
		t.Fatalf("expected two LTO flags, got %+v", inv.Flags)
	}
	if inv.Flags[0].Kind != types.FlagLTO || inv.Flags[0].Value != "" {
		t.Fatalf("unexpected first LTO flag: %+v", inv.Flags[0])
	}
	if inv.Flags[1].Kind != types.FlagLTO || inv.Flags[1].Value != "thin" {
		t.Fatalf("unexpected second LTO flag: %+v", inv.Flags[1])
	}
}
