package parse

import (
	"strings"

	"github.com/saint0x/jello/internal/types"
)

// queueRef lets the small per-flag recognizers pop a spaced value off the
// remaining token stream without each of them re-implementing bounds
// checks.
type queueRef struct {
	tokens *[]string
}

func (q queueRef) popValue(flagName string) (string, error) {
	if len(*q.tokens) == 0 {
		return "", &types.ParseError{Reason: "flag " + flagName + " requires a value"}
	}
	v := (*q.tokens)[0]
	*q.tokens = (*q.tokens)[1:]
	return v, nil
}

// takeValueFlag recognizes tok against a set of short (glue-without-
// separator allowed, e.g. "-l", "-L", "-T") and long (glue-with-"="-only,
// e.g. "--sysroot") aliases. Returns ok=false when tok matches none of
// them.
func takeValueFlag(tok string, q queueRef, shorts, longs []string) (value string, ok bool, err error) {
	for _, s := range shorts {
		if tok == s {
			v, perr := q.popValue(s)
			return v, true, perr
		}
		if strings.HasPrefix(tok, s) && len(tok) > len(s) {
			return tok[len(s):], true, nil
		}
	}
	for _, l := range longs {
		if tok == l {
			v, perr := q.popValue(l)
			return v, true, perr
		}
		if strings.HasPrefix(tok, l+"=") {
			return tok[len(l)+1:], true, nil
		}
	}
	return "", false, nil
}

// boolFlags maps every exact-match (no value) flag spelling, including
// aliases, to its canonical Flag kind.
var boolFlags = map[string]types.FlagKind{
	"--whole-archive":    types.FlagWholeArchive,
	"--no-whole-archive": types.FlagNoWholeArchive,
	"--start-group":      types.FlagStartGroup,
	"-(":                 types.FlagStartGroup,
	"--end-group":        types.FlagEndGroup,
	"-)":                 types.FlagEndGroup,
	"--as-needed":        types.FlagAsNeeded,
	"--no-as-needed":     types.FlagNoAsNeeded,
	"-Bstatic":           types.FlagBStatic,
	"--Bstatic":          types.FlagBStatic,
	"-Bdynamic":          types.FlagBDynamic,
	"--Bdynamic":         types.FlagBDynamic,
	"--push-state":       types.FlagPushState,
	"--pop-state":        types.FlagPopState,
	"--gc-sections":      types.FlagGCSections,
	"--no-gc-sections":   types.FlagNoGCSections,
	"--export-dynamic":   types.FlagExportDynamic,
	"-E":                 types.FlagExportDynamic,
	"-pie":               types.FlagPIE,
	"-no-pie":            types.FlagNoPIE,
	"--no-pie":           types.FlagNoPIE,
	"-shared":            types.FlagSetShared,
	"--shared":           types.FlagSetShared,
	"-static":            types.FlagSetStatic,
	"--static":           types.FlagSetStatic,
	"-nostdlib":          types.FlagNoStdlib,
	"-nostartfiles":      types.FlagNoStartFiles,
	"-nodefaultlibs":     types.FlagNoDefaultLibs,
	"-m32":               types.FlagM32,
	"-m64":               types.FlagM64,
	"--verbose":          types.FlagVerbose,
	"-v":                 types.FlagVerbose,
	"-t":                 types.FlagTrace,
	"--trace":            types.FlagTrace,
	"-M":                 types.FlagPrintMap,
	"--print-map":        types.FlagPrintMap,
	"-s":                 types.FlagStripAll,
	"--strip-all":        types.FlagStripAll,
	"-S":                 types.FlagStripDebug,
	"--strip-debug":      types.FlagStripDebug,
	"-g":                 types.FlagDebug,
}

// isFrontendOnly reports whether tok is a compiler-only flag that cannot
// affect linking and must be dropped. -Wl,... has already been
// expanded by the caller before this check runs, so any remaining -W... is
// a genuine compiler warning flag. -flto... and -fuse-ld=... are carved out
// of the -f... rule because the linker driver does understand them.
func isFrontendOnly(tok string) bool {
	switch {
	case tok == "-c" || tok == "-pipe":
		return true
	case strings.HasPrefix(tok, "-O"):
		return true
	case strings.HasPrefix(tok, "-W"):
		return true
	case strings.HasPrefix(tok, "-flto") || strings.HasPrefix(tok, "-fuse-ld="):
		return false
	case strings.HasPrefix(tok, "-f"):
		return true
	case strings.HasPrefix(tok, "-D"):
		return true
	case strings.HasPrefix(tok, "-I"):
		return true
	case strings.HasPrefix(tok, "-std="):
		return true
	default:
		return false
	}
}
