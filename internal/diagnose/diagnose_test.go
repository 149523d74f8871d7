package diagnose

import (
	"testing"

	"github.com/saint0x/jello/internal/types"
)

func diagsFor(t *testing.T, stderr string) []types.Diagnostic {
	t.Helper()
	return Errors(types.ExecResult{ExitCode: 1, Stderr: stderr})
}

func TestUndefinedReferenceToCxxSymbolSuggestsCxxDriver(t *testing.T) {
	line := "main.o: in function `main': main.o:(.text+0x1a): undefined reference to `std::cout@@GLIBCXX_3.4'"
	diags := diagsFor(t, line)
	if len(diags) != 1 || diags[0].Code != "E001" {
		t.Fatalf("diags = %+v, want one E001", diags)
	}
	if len(diags[0].Evidence) != 1 || diags[0].Evidence[0] != "std::cout@@GLIBCXX_3.4" {
		t.Fatalf("Evidence = %+v, want only the captured symbol", diags[0].Evidence)
	}
	if !diags[0].AutoFixable() {
		t.Fatalf("expected the C++ driver fix to be high confidence")
	}
	foundCxxDriver := false
	for _, f := range diags[0].Fixes {
		if f.Action.Kind == types.ActionUseCxxDriver {
			foundCxxDriver = true
		}
	}
	if !foundCxxDriver {
		t.Fatalf("expected a UseCxxDriver fix, got %+v", diags[0].Fixes)
	}
}

func TestUndefinedReferenceToMathSymbolSuggestsLm(t *testing.T) {
	line := "main.o: undefined reference to `sqrt'"
	diags := diagsFor(t, line)
	if len(diags) != 1 || diags[0].Code != "E001" {
		t.Fatalf("diags = %+v, want one E001", diags)
	}
	if len(diags[0].Fixes) != 1 || diags[0].Fixes[0].Action.Flag.Lib.Name != "m" {
		t.Fatalf("fixes = %+v, want -lm", diags[0].Fixes)
	}
}

func TestUndefinedReferenceToPthreadSuggestsPthread(t *testing.T) {
	line := "main.o: undefined reference to `pthread_create'"
	diags := diagsFor(t, line)
	if len(diags) != 1 || diags[0].Fixes[0].Action.Flag.Lib.Name != "pthread" {
		t.Fatalf("diags = %+v, want -pthread fix", diags)
	}
}

func TestMissingLibrarySuggestsPackageAndSearchPath(t *testing.T) {
	line := "ld: cannot find -lfoo"
	diags := diagsFor(t, line)
	if len(diags) != 1 || diags[0].Code != "E002" {
		t.Fatalf("diags = %+v, want one E002", diags)
	}
	if len(diags[0].Fixes) != 2 {
		t.Fatalf("fixes = %+v, want package + search-path suggestions", diags[0].Fixes)
	}
	if diags[0].AutoFixable() {
		t.Fatalf("E002 fixes are Medium confidence, should not be auto-fixable")
	}
}

func TestDSOMissingDerivesLibName(t *testing.T) {
	line := "/usr/lib/libbar.so: error adding symbols: DSO missing from command line"
	diags := diagsFor(t, line)
	if len(diags) != 1 || diags[0].Code != "E003" {
		t.Fatalf("diags = %+v, want one E003", diags)
	}
	if diags[0].Fixes[0].Action.Flag.Lib.Name != "bar" {
		t.Fatalf("fixes = %+v, want -lbar", diags[0].Fixes)
	}
	if len(diags[0].Evidence) != 1 || diags[0].Evidence[0] != "/usr/lib/libbar.so" {
		t.Fatalf("Evidence = %+v, want only the captured path", diags[0].Evidence)
	}
}

func TestRelocationSuggestsFPIC(t *testing.T) {
	line := "obj.o: relocation R_X86_64_32 against symbol can not be used when making a shared object; recompile with -fPIC"
	diags := diagsFor(t, line)
	if len(diags) != 1 || diags[0].Code != "E004" {
		t.Fatalf("diags = %+v, want one E004", diags)
	}
	if diags[0].Fixes[0].Action.File != "obj.o" {
		t.Fatalf("fixes = %+v, want File=obj.o", diags[0].Fixes)
	}
}

func TestMultipleDefinitionIsLowConfidence(t *testing.T) {
	line := "b.o:(.data+0x0): multiple definition of `counter'; a.o:(.data+0x0): first defined here"
	diags := diagsFor(t, line)
	if len(diags) != 1 || diags[0].Code != "E006" {
		t.Fatalf("diags = %+v, want one E006", diags)
	}
	if diags[0].AutoFixable() {
		t.Fatalf("E006 fixes are Low confidence, should not be auto-fixable")
	}
}

func TestEntrySymbolMissingIsWarning(t *testing.T) {
	line := "ld: cannot find entry symbol _start; defaulting to 0000000000401000"
	diags := diagsFor(t, line)
	if len(diags) != 1 || diags[0].Severity != types.SevWarning {
		t.Fatalf("diags = %+v, want a Warning", diags)
	}
}

func TestTextrelIsWarningWithFPICFix(t *testing.T) {
	line := "ld: warning: creating DT_TEXTREL in a shared object"
	diags := diagsFor(t, line)
	if len(diags) != 1 || diags[0].Code != "E013" || diags[0].Severity != types.SevWarning {
		t.Fatalf("diags = %+v, want one Warning E013", diags)
	}
}

func TestLinkerScriptSyntaxError(t *testing.T) {
	line := "custom.ld:12: syntax error"
	diags := diagsFor(t, line)
	if len(diags) != 1 || diags[0].Code != "E018" {
		t.Fatalf("diags = %+v, want one E018", diags)
	}
}

func TestUnmatchedLinesProduceNoDiagnostics(t *testing.T) {
	diags := diagsFor(t, "collect2: error: ld returned 1 exit status")
	if len(diags) != 0 {
		t.Fatalf("diags = %+v, want none", diags)
	}
}

func TestDuplicateLinesAreDeduplicated(t *testing.T) {
	line := "main.o: undefined reference to `sqrt'"
	diags := diagsFor(t, line+"\n"+line)
	if len(diags) != 1 {
		t.Fatalf("diags = %+v, want exactly one after dedup", diags)
	}
}

func TestAutoFixableFiltersToHighConfidence(t *testing.T) {
	diags := diagsFor(t, "main.o: undefined reference to `sqrt'\nld: cannot find -lfoo")
	fixable := AutoFixable(diags)
	if len(fixable) != 1 || fixable[0].Code != "E001" {
		t.Fatalf("AutoFixable() = %+v, want only E001", fixable)
	}
}
