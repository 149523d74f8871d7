package normalize

import (
	"testing"

	"github.com/saint0x/jello/internal/types"
)

func TestInvocationAppliesDefaultOutput(t *testing.T) {
	got := Invocation(types.Invocation{})
	if got.Output != "a.out" || !got.HasOutput {
		t.Fatalf("expected default output a.out, got %q (has=%v)", got.Output, got.HasOutput)
	}
}

func TestInvocationResolvesPieConflictLastWins(t *testing.T) {
	inv := types.Invocation{Flags: []types.Flag{
		{Kind: types.FlagPIE},
		{Kind: types.FlagNoPIE},
	}}
	got := Invocation(inv)
	if len(got.Flags) != 1 || got.Flags[0].Kind != types.FlagNoPIE {
		t.Fatalf("expected only the later -no-pie to survive, got %+v", got.Flags)
	}

	inv2 := types.Invocation{Flags: []types.Flag{
		{Kind: types.FlagNoPIE},
		{Kind: types.FlagPIE},
	}}
	got2 := Invocation(inv2)
	if len(got2.Flags) != 1 || got2.Flags[0].Kind != types.FlagPIE {
		t.Fatalf("expected only the later -pie to survive, got %+v", got2.Flags)
	}
}

func TestInvocationDedupesStructurallyEqualFlags(t *testing.T) {
	inv := types.Invocation{Flags: []types.Flag{
		{Kind: types.FlagSearchPath, Value: "/usr/lib"},
		{Kind: types.FlagSearchPath, Value: "/usr/lib"},
		{Kind: types.FlagSearchPath, Value: "/lib"},
	}}
	got := Invocation(inv)
	if len(got.Flags) != 2 {
		t.Fatalf("expected duplicate search path flag collapsed, got %+v", got.Flags)
	}
}

func TestInvocationNeverDedupesPositionSensitiveFlags(t *testing.T) {
	inv := types.Invocation{Flags: []types.Flag{
		{Kind: types.FlagBStatic},
		{Kind: types.FlagBDynamic},
		{Kind: types.FlagBStatic},
	}}
	got := Invocation(inv)
	if len(got.Flags) != 3 {
		t.Fatalf("expected all position-sensitive flags retained, got %+v", got.Flags)
	}
}

func TestInvocationDedupesExplicitSearchPathsPreservingOrder(t *testing.T) {
	inv := types.Invocation{ExplicitSearchPaths: []string{"/a", "/b", "/a", "/c"}}
	got := Invocation(inv)
	want := []string{"/a", "/b", "/c"}
	if len(got.ExplicitSearchPaths) != len(want) {
		t.Fatalf("ExplicitSearchPaths = %v, want %v", got.ExplicitSearchPaths, want)
	}
	for i := range want {
		if got.ExplicitSearchPaths[i] != want[i] {
			t.Fatalf("ExplicitSearchPaths = %v, want %v", got.ExplicitSearchPaths, want)
		}
	}
}

func TestInvocationIsIdempotent(t *testing.T) {
	inv := types.Invocation{Flags: []types.Flag{
		{Kind: types.FlagPIE},
		{Kind: types.FlagNoPIE},
		{Kind: types.FlagSearchPath, Value: "/usr/lib"},
	}}
	once := Invocation(inv)
	twice := Invocation(once)
	if len(once.Flags) != len(twice.Flags) {
		t.Fatalf("Invocation not idempotent: once=%+v twice=%+v", once.Flags, twice.Flags)
	}
	if once.Output != twice.Output {
		t.Fatalf("Invocation not idempotent on Output: once=%q twice=%q", once.Output, twice.Output)
	}
}
