// Package diagnose classifies backend linker failures into structured
// Diagnostics with evidence and proposed Fixes, by matching stderr lines
// against a priority-ordered table of regular expressions.
package diagnose

import (
	"regexp"
	"strings"

	"github.com/saint0x/jello/internal/types"
)

// rule is one entry in the priority-ordered diagnostic table: the first
// rule whose pattern matches a stderr line wins, and later rules are not
// tried against that line.
type rule struct {
	code    string
	pattern *regexp.Regexp
	build   func(m []string) types.Diagnostic
}

// Errors tries every line of result.Stderr against the rule table in order
// and returns the deduplicated Diagnostics in the order their lines appear
// in stderr. The returned list is what replaces ExecResult.PostDiagnostics.
func Errors(result types.ExecResult) []types.Diagnostic {
	var diags []types.Diagnostic
	for _, line := range strings.Split(result.Stderr, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if d, ok := classify(line); ok {
			diags = append(diags, d)
		}
	}
	return types.DedupDiagnostics(diags)
}

// classify tries line against the rule table in order and returns the
// first match.
func classify(line string) (types.Diagnostic, bool) {
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(line); m != nil {
			return r.build(m), true
		}
	}
	return types.Diagnostic{}, false
}

// AutoFixable filters diags to those carrying at least one high-confidence
// fix, the set Auto_fix mode is permitted to apply.
func AutoFixable(diags []types.Diagnostic) []types.Diagnostic {
	out := make([]types.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.AutoFixable() {
			out = append(out, d)
		}
	}
	return out
}

var rules = []rule{
	{
		code:    "E001",
		pattern: regexp.MustCompile("undefined reference to [`']([^'`]+)[`']"),
		build:   buildUndefinedReference,
	},
	{
		code:    "E002",
		pattern: regexp.MustCompile(`(?:cannot find -l|library not found for -l|unable to find library -l)(\S+)`),
		build:   buildMissingLibrary,
	},
	{
		code:    "E003",
		pattern: regexp.MustCompile(`(\S+\.so(?:\.[0-9]+)*)[:,].*DSO missing from command line`),
		build:   buildDSOMissing,
	},
	{
		code:    "E004",
		pattern: regexp.MustCompile(`(\S+\.o):.*relocation R_\S+.*recompile with -fPIC`),
		build:   buildNeedsFPIC,
	},
	{
		code:    "E005",
		pattern: regexp.MustCompile(`skipping incompatible (\S+)|(\S+) is incompatible with`),
		build:   buildIncompatible,
	},
	{
		code:    "E006",
		pattern: regexp.MustCompile("multiple definition of [`']([^'`]+)'"),
		build:   buildMultipleDefinition,
	},
	{
		code:    "E007",
		pattern: regexp.MustCompile(`(\S+): file not recognized`),
		build:   buildFileNotRecognized,
	},
	{
		code:    "E008",
		pattern: regexp.MustCompile(`cannot find entry symbol (\S+)`),
		build:   buildNoEntrySymbol,
	},
	{
		code:    "E009",
		pattern: regexp.MustCompile("version [`']([^'`]+)' not found for symbol [`']([^'`]+)'"),
		build:   buildVersionNotFound,
	},
	{
		code:    "E010",
		pattern: regexp.MustCompile("hidden symbol [`']([^'`]+)'.*referenced by DSO"),
		build:   buildHiddenSymbol,
	},
	{
		code:    "E011",
		pattern: regexp.MustCompile("[`']([^'`]+)'.*defined in discarded section"),
		build:   buildDiscardedSection,
	},
	{
		code:    "E012",
		pattern: regexp.MustCompile(`(?i)TLS .*non-TLS|non-TLS .*TLS`),
		build:   buildTLSMismatch,
	},
	{
		code:    "E013",
		pattern: regexp.MustCompile(`read-only segment has dynamic relocations|DT_TEXTREL`),
		build:   buildTextrel,
	},
	{
		code:    "E014",
		pattern: regexp.MustCompile(`(?i)LTO version mismatch|needs? LTO plugin|requires -flto`),
		build:   buildLTOMismatch,
	},
	{
		code:    "E015",
		pattern: regexp.MustCompile(`cannot open output file (\S+)`),
		build:   buildCannotOpenOutput,
	},
	{
		code:    "E016",
		pattern: regexp.MustCompile(`region [`+"`"+`']?([^' ]+)[`+"`"+`']? overflowed|will not fit`),
		build:   buildRegionOverflow,
	},
	{
		code:    "E017",
		pattern: regexp.MustCompile(`(?i)GOT overflow`),
		build:   buildGOTOverflow,
	},
	{
		code:    "E018",
		pattern: regexp.MustCompile(`(\S+\.ld):\d+: syntax error`),
		build:   buildLinkerScriptSyntaxError,
	},
}

func buildUndefinedReference(m []string) types.Diagnostic {
	sym := m[1]
	var fixes []types.Fix
	switch {
	case isCxxSymbol(sym):
		fixes = append(fixes,
			types.Fix{
				Description: "undefined reference to a C++ symbol; relink with the C++ driver",
				Confidence:  types.ConfidenceHigh,
				Action:      types.FixAction{Kind: types.ActionUseCxxDriver},
			},
			types.Fix{
				Description: "add -lstdc++ to supply the C++ standard library",
				Confidence:  types.ConfidenceHigh,
				Action:      types.FixAction{Kind: types.ActionAddFlag, Flag: types.Flag{Kind: types.FlagLinkLib, Lib: types.Named("stdc++")}},
			},
		)
	case isMathSymbol(sym):
		fixes = append(fixes, types.Fix{
			Description: "add -lm to supply the math library",
			Confidence:  types.ConfidenceHigh,
			Action:      types.FixAction{Kind: types.ActionAddFlag, Flag: types.Flag{Kind: types.FlagLinkLib, Lib: types.Named("m")}},
		})
	case strings.HasPrefix(sym, "pthread_"):
		fixes = append(fixes, types.Fix{
			Description: "add -pthread to link the thread library",
			Confidence:  types.ConfidenceHigh,
			Action:      types.FixAction{Kind: types.ActionAddFlag, Flag: types.Flag{Kind: types.FlagLinkLib, Lib: types.Named("pthread")}},
		})
	case isStackProtectorSymbol(sym):
		fixes = append(fixes, types.Fix{
			Description: "add -lssp to supply the stack-protector runtime",
			Confidence:  types.ConfidenceHigh,
			Action:      types.FixAction{Kind: types.ActionAddFlag, Flag: types.Flag{Kind: types.FlagLinkLib, Lib: types.Named("ssp")}},
		})
	}
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E001",
		Message:  "undefined reference to " + sym,
		Evidence: []string{sym},
		Fixes:    fixes,
	}
}

func buildMissingLibrary(m []string) types.Diagnostic {
	name := m[1]
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E002",
		Message:  "cannot find library -l" + name,
		Evidence: []string{name},
		Fixes: []types.Fix{
			{
				Description: "install the development package providing lib" + name,
				Confidence:  types.ConfidenceMedium,
				Action:      types.FixAction{Kind: types.ActionSuggestPackage, Value: "lib" + name + "-dev"},
			},
			{
				Description: "add a search path for lib" + name,
				Confidence:  types.ConfidenceMedium,
				Action:      types.FixAction{Kind: types.ActionAddSearchPath, Value: ""},
			},
		},
	}
}

func buildDSOMissing(m []string) types.Diagnostic {
	path := m[1]
	name := soNameToLibName(path)
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E003",
		Message:  path + " needs to be named explicitly on the command line",
		Evidence: []string{path},
		Fixes: []types.Fix{{
			Description: "add -l" + name + " to name the DSO explicitly",
			Confidence:  types.ConfidenceHigh,
			Action:      types.FixAction{Kind: types.ActionAddFlag, Flag: types.Flag{Kind: types.FlagLinkLib, Lib: types.Named(name)}},
		}},
	}
}

func buildNeedsFPIC(m []string) types.Diagnostic {
	file := m[1]
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E004",
		Message:  file + " has a relocation that requires position-independent code",
		Evidence: []string{file},
		Fixes: []types.Fix{{
			Description: "recompile " + file + " with -fPIC",
			Confidence:  types.ConfidenceHigh,
			Action:      types.FixAction{Kind: types.ActionSuggestRecompile, File: file, Flags: []string{"-fPIC"}},
		}},
	}
}

func buildIncompatible(m []string) types.Diagnostic {
	what := firstNonEmpty(m[1:])
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E005",
		Message:  "incompatible object or architecture: " + what,
		Evidence: []string{what},
		Fixes: []types.Fix{{
			Description: "rebuild " + what + " for the target architecture",
			Confidence:  types.ConfidenceMedium,
			Action:      types.FixAction{Kind: types.ActionSuggestRecompile, File: what},
		}},
	}
}

func buildMultipleDefinition(m []string) types.Diagnostic {
	sym := m[1]
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E006",
		Message:  "multiple definition of " + sym,
		Evidence: []string{sym},
		Fixes: []types.Fix{{
			Description: "remove the duplicate definition of " + sym + " or mark one weak",
			Confidence:  types.ConfidenceLow,
			Action:      types.FixAction{Kind: types.ActionSuggestRecompile, File: sym},
		}},
	}
}

func buildFileNotRecognized(m []string) types.Diagnostic {
	file := m[1]
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E007",
		Message:  file + " is not a recognized object format",
		Evidence: []string{file},
		Fixes: []types.Fix{{
			Description: "rebuild " + file + " for the target architecture",
			Confidence:  types.ConfidenceMedium,
			Action:      types.FixAction{Kind: types.ActionSuggestRecompile, File: file},
		}},
	}
}

func buildNoEntrySymbol(m []string) types.Diagnostic {
	sym := m[1]
	return types.Diagnostic{
		Severity: types.SevWarning,
		Code:     "E008",
		Message:  "cannot find entry symbol " + sym,
		Evidence: []string{sym},
		Fixes: []types.Fix{{
			Description: "define " + sym + " or pass -e to select a different entry point",
			Confidence:  types.ConfidenceMedium,
			Action:      types.FixAction{Kind: types.ActionSuggestRecompile, Flags: []string{"-e", sym}},
		}},
	}
}

func buildVersionNotFound(m []string) types.Diagnostic {
	version, sym := m[1], m[2]
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E009",
		Message:  "symbol " + sym + " requires version " + version + " which was not found",
		Evidence: []string{sym, version},
	}
}

func buildHiddenSymbol(m []string) types.Diagnostic {
	sym := m[1]
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E010",
		Message:  "hidden symbol " + sym + " is referenced by a shared object",
		Evidence: []string{sym},
		Fixes: []types.Fix{{
			Description: "give " + sym + " default visibility",
			Confidence:  types.ConfidenceHigh,
			Action:      types.FixAction{Kind: types.ActionSuggestRecompile, File: sym, Flags: []string{"-fvisibility=default"}},
		}},
	}
}

func buildDiscardedSection(m []string) types.Diagnostic {
	sym := m[1]
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E011",
		Message:  sym + " is referenced from a section that was discarded",
		Evidence: []string{sym},
		Fixes: []types.Fix{{
			Description: "mark " + sym + " used or relink with --no-gc-sections",
			Confidence:  types.ConfidenceLow,
			Action:      types.FixAction{Kind: types.ActionAddFlag, Flag: types.Flag{Kind: types.FlagNoGCSections}},
		}},
	}
}

func buildTLSMismatch(m []string) types.Diagnostic {
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E012",
		Message:  "thread-local and non-thread-local references to the same symbol disagree",
		Evidence: []string{m[0]},
		Fixes: []types.Fix{{
			Description: "declare the symbol consistently as thread-local or not across all translation units",
			Confidence:  types.ConfidenceHigh,
			Action:      types.FixAction{Kind: types.ActionSuggestRecompile},
		}},
	}
}

func buildTextrel(m []string) types.Diagnostic {
	return types.Diagnostic{
		Severity: types.SevWarning,
		Code:     "E013",
		Message:  "the read-only segment has dynamic relocations (DT_TEXTREL)",
		Evidence: []string{m[0]},
		Fixes: []types.Fix{{
			Description: "rebuild the offending object with -fPIC",
			Confidence:  types.ConfidenceHigh,
			Action:      types.FixAction{Kind: types.ActionSuggestRecompile, Flags: []string{"-fPIC"}},
		}},
	}
}

func buildLTOMismatch(m []string) types.Diagnostic {
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E014",
		Message:  "LTO bitcode version mismatch or missing linker plugin",
		Evidence: []string{m[0]},
		Fixes: []types.Fix{
			{
				Description: "rebuild all LTO objects with the same compiler version",
				Confidence:  types.ConfidenceHigh,
				Action:      types.FixAction{Kind: types.ActionSuggestRecompile},
			},
			{
				Description: "add -fuse-linker-plugin",
				Confidence:  types.ConfidenceMedium,
				Action:      types.FixAction{Kind: types.ActionAddFlag, Flag: types.Flag{Kind: types.FlagLTO, Value: "fuse-linker-plugin"}},
			},
		},
	}
}

func buildCannotOpenOutput(m []string) types.Diagnostic {
	path := m[1]
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E015",
		Message:  "cannot open output file " + path,
		Evidence: []string{path},
	}
}

func buildRegionOverflow(m []string) types.Diagnostic {
	region := firstNonEmpty(m[1:])
	msg := "a linker-script memory region overflowed"
	evidence := m[0]
	if region != "" {
		msg = "memory region " + region + " overflowed"
		evidence = region
	}
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E016",
		Message:  msg,
		Evidence: []string{evidence},
		Fixes: []types.Fix{{
			Description: "shrink the image (e.g. -Os) or enlarge the region in the linker script",
			Confidence:  types.ConfidenceLow,
			Action:      types.FixAction{Kind: types.ActionSuggestRecompile, Flags: []string{"-Os"}},
		}},
	}
}

func buildGOTOverflow(m []string) types.Diagnostic {
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E017",
		Message:  "global offset table overflowed",
		Evidence: []string{m[0]},
		Fixes: []types.Fix{{
			Description: "use -mcmodel=medium and -fvisibility=hidden to shrink GOT usage",
			Confidence:  types.ConfidenceMedium,
			Action:      types.FixAction{Kind: types.ActionSuggestRecompile, Flags: []string{"-mcmodel=medium", "-fvisibility=hidden"}},
		}},
	}
}

func buildLinkerScriptSyntaxError(m []string) types.Diagnostic {
	script := m[1]
	return types.Diagnostic{
		Severity: types.SevError,
		Code:     "E018",
		Message:  "syntax error in linker script " + script,
		Evidence: []string{script},
	}
}

var cxxSymbolPrefixes = []string{"std::", "__cxa_", "__gxx_", "operator ", "typeinfo ", "vtable "}

func isCxxSymbol(sym string) bool {
	for _, p := range cxxSymbolPrefixes {
		if strings.HasPrefix(sym, p) {
			return true
		}
	}
	return false
}

var mathSymbolBases = map[string]bool{
	"sin": true, "cos": true, "tan": true, "asin": true, "acos": true, "atan": true, "atan2": true,
	"sinh": true, "cosh": true, "tanh": true, "asinh": true, "acosh": true, "atanh": true,
	"exp": true, "exp2": true, "expm1": true, "log": true, "log2": true, "log10": true, "log1p": true,
	"pow": true, "sqrt": true, "cbrt": true, "hypot": true, "fabs": true, "floor": true, "ceil": true,
	"round": true, "trunc": true, "fmod": true, "remainder": true, "copysign": true, "nextafter": true,
	"ldexp": true, "frexp": true, "modf": true, "scalbn": true, "ilogb": true, "logb": true,
	"erf": true, "erfc": true, "lgamma": true, "tgamma": true, "j0": true, "j1": true, "jn": true,
	"y0": true, "y1": true, "yn": true,
}

// isMathSymbol reports whether sym names a libm function, tolerating the
// float/long-double suffix convention (sinf, sinl).
func isMathSymbol(sym string) bool {
	if mathSymbolBases[sym] {
		return true
	}
	if n := len(sym); n > 1 && (sym[n-1] == 'f' || sym[n-1] == 'l') {
		return mathSymbolBases[sym[:n-1]]
	}
	return false
}

func isStackProtectorSymbol(sym string) bool {
	switch sym {
	case "__stack_chk_fail", "__stack_chk_guard", "__stack_smash_handler":
		return true
	default:
		return false
	}
}

// soNameToLibName derives the -l name from a shared object's basename:
// strip a leading "lib" and a trailing ".so[.N...]".
func soNameToLibName(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if idx := strings.Index(base, ".so"); idx >= 0 {
		base = base[:idx]
	}
	base = strings.TrimPrefix(base, "lib")
	return base
}

func firstNonEmpty(ss []string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
