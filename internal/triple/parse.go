// Package triple parses and detects target triples.
package triple

import (
	"regexp"
	"strings"

	"github.com/saint0x/jello/internal/types"
)

var versionSuffix = regexp.MustCompile(`[0-9][0-9.]*$`)

// canonicalizeOS strips a trailing digit/dot version suffix, e.g.
// "darwin24.3.0" -> "darwin".
func canonicalizeOS(s string) string {
	return versionSuffix.ReplaceAllString(s, "")
}

// Parse parses a triple string, tolerating 2-, 3-, and 4-field forms.
func Parse(s string) (types.Triple, bool) {
	fields := strings.Split(s, "-")
	switch len(fields) {
	case 2:
		return parse2(fields)
	case 3:
		return parse3(fields)
	case 4:
		return parse4(fields)
	default:
		return types.Triple{}, false
	}
}

func parse2(fields []string) (types.Triple, bool) {
	arch, ok := types.ParseArch(fields[0])
	if !ok {
		return types.Triple{}, false
	}
	os, ok := types.ParseOS(canonicalizeOS(fields[1]))
	if !ok {
		return types.Triple{}, false
	}
	return types.Triple{Arch: arch, OS: os}, true
}

// parse3 resolves the arch-?-? ambiguity by probing whether the middle
// token is a known OS (then arch-os-env) or not (then arch-vendor-os).
func parse3(fields []string) (types.Triple, bool) {
	arch, ok := types.ParseArch(fields[0])
	if !ok {
		return types.Triple{}, false
	}
	if os, ok := types.ParseOS(canonicalizeOS(fields[1])); ok {
		env, _ := types.ParseEnv(fields[2])
		return types.Triple{Arch: arch, OS: os, Env: env}, true
	}
	os, ok := types.ParseOS(canonicalizeOS(fields[2]))
	if !ok {
		return types.Triple{}, false
	}
	return types.Triple{Arch: arch, Vendor: fields[1], OS: os}, true
}

func parse4(fields []string) (types.Triple, bool) {
	arch, ok := types.ParseArch(fields[0])
	if !ok {
		return types.Triple{}, false
	}
	os, ok := types.ParseOS(canonicalizeOS(fields[2]))
	if !ok {
		return types.Triple{}, false
	}
	env, _ := types.ParseEnv(fields[3])
	return types.Triple{Arch: arch, Vendor: fields[1], OS: os, Env: env}, true
}
