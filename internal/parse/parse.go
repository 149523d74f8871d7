package parse

import (
	"strings"

	"github.com/saint0x/jello/internal/types"
)

// Parse drives the left-to-right sweep over argv: macro forms
// (@file, -Wl,…, -Xlinker) expand back into the token stream; recognized
// flag shapes become typed Flag values; frontend-only compiler flags are
// dropped; everything else not starting with "-" is an Input.
func Parse(argv []string) (types.Invocation, error) {
	inv := types.Invocation{RawArgs: append([]string{}, argv...)}
	queue := append([]string{}, argv...)

	for len(queue) > 0 {
		tok := queue[0]
		queue = queue[1:]

		switch {
		case tok == "@" || (strings.HasPrefix(tok, "@") && len(tok) > 1):
			expanded, err := expandResponseFile(tok[1:])
			if err != nil {
				return types.Invocation{}, err
			}
			queue = prepend(queue, expanded)
			continue
		case strings.HasPrefix(tok, "-Wl,"):
			queue = prepend(queue, expandWl(tok))
			continue
		case tok == "-Xlinker":
			q := queueRef{tokens: &queue}
			v, err := q.popValue("-Xlinker")
			if err != nil {
				return types.Invocation{}, err
			}
			queue = prepend(queue, []string{v})
			continue
		}

		if isFrontendOnly(tok) {
			continue
		}

		if !strings.HasPrefix(tok, "-") || tok == "-" {
			inv.Inputs = append(inv.Inputs, classifyPositional(tok))
			continue
		}

		flag, err := recognizeFlag(tok, queueRef{tokens: &queue})
		if err != nil {
			return types.Invocation{}, err
		}
		applyFlag(&inv, flag)
	}

	inv.LinkMode = types.DeriveLinkMode(inv.Flags)
	return inv, nil
}

// classifyPositional turns a non-flag token into an Input, special-casing
// response files are never positional (handled above) and bare library
// names are never positional (only -l… is, handled as a flag).
func classifyPositional(tok string) types.Input {
	return types.ClassifyPath(tok)
}

// applyFlag appends flag to the invocation and updates the convenience
// projections (Output, ExplicitSearchPaths) that Plan and Resolve read
// directly instead of re-scanning Flags.
func applyFlag(inv *types.Invocation, flag types.Flag) {
	inv.Flags = append(inv.Flags, flag)
	switch flag.Kind {
	case types.FlagOutput:
		inv.Output = flag.Value
		inv.HasOutput = true
	case types.FlagSearchPath:
		inv.ExplicitSearchPaths = append(inv.ExplicitSearchPaths, flag.Value)
	}
}

// recognizeFlag matches tok (and, for spaced forms, consumes from q) against
// every flag shape jello understands, returning Passthrough for anything
// else.
func recognizeFlag(tok string, q queueRef) (types.Flag, error) {
	if kind, ok := boolFlags[tok]; ok {
		return types.Flag{Kind: kind}, nil
	}

	if v, ok, err := takeValueFlag(tok, q, []string{"-o"}, nil); ok {
		return types.Flag{Kind: types.FlagOutput, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, []string{"-l"}, nil); ok {
		return types.Flag{Kind: types.FlagLinkLib, Lib: types.Named(v)}, err
	}
	if v, ok, err := takeValueFlag(tok, q, []string{"-L"}, []string{"--library-path"}); ok {
		return types.Flag{Kind: types.FlagSearchPath, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, nil, []string{"--sysroot"}); ok {
		return types.Flag{Kind: types.FlagSysroot, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, []string{"-rpath"}, []string{"--rpath"}); ok {
		return types.Flag{Kind: types.FlagRpath, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, []string{"-rpath-link"}, []string{"--rpath-link"}); ok {
		return types.Flag{Kind: types.FlagRpathLink, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, []string{"-Map"}, nil); ok {
		return types.Flag{Kind: types.FlagMapFile, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, []string{"-T"}, nil); ok {
		return types.Flag{Kind: types.FlagLinkerScript, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, nil, []string{"--target"}); ok {
		return types.Flag{Kind: types.FlagTarget, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, nil, []string{"--version-script"}); ok {
		return types.Flag{Kind: types.FlagVersionScript, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, []string{"-soname", "-h"}, []string{"--soname"}); ok {
		return types.Flag{Kind: types.FlagSoname, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, nil, []string{"--dynamic-linker"}); ok {
		return types.Flag{Kind: types.FlagDynamicLinker, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, []string{"-z"}, nil); ok {
		return types.Flag{Kind: types.FlagZ, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, nil, []string{"--icf"}); ok {
		return types.Flag{Kind: types.FlagICF, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, []string{"-stdlib="}, nil); ok {
		return types.Flag{Kind: types.FlagStdlib, Value: v}, err
	}
	if v, ok, err := takeValueFlag(tok, q, []string{"-arch"}, nil); ok {
		return types.Flag{Kind: types.FlagArch, Value: v}, err
	}
	if strings.HasPrefix(tok, "-fuse-ld=") {
		return types.Flag{Kind: types.FlagUseLd, Value: tok[len("-fuse-ld="):]}, nil
	}
	if tok == "-flto" {
		return types.Flag{Kind: types.FlagLTO, Value: ""}, nil
	}
	if strings.HasPrefix(tok, "-flto=") {
		return types.Flag{Kind: types.FlagLTO, Value: tok[len("-flto="):]}, nil
	}

	return types.Passthrough(tok), nil
}
