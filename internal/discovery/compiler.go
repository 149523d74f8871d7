package discovery

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/saint0x/jello/internal/types"
)

// Lang distinguishes C from C++ compiler discovery.
type Lang uint8

const (
	LangC Lang = iota
	LangCxx
)

func candidateNames(lang Lang) []string {
	if lang == LangCxx {
		return []string{"c++", "g++", "clang++"}
	}
	return []string{"cc", "gcc", "clang"}
}

func envVar(lang Lang) string {
	if lang == LangCxx {
		return "CXX"
	}
	return "CC"
}

// Compiler finds a compiler for lang, honoring CC/CXX first.
func Compiler(lang Lang) (string, error) {
	if override := os.Getenv(envVar(lang)); override != "" {
		if path, ok := resolveCompilerPath(override); ok {
			return path, nil
		}
	}
	for _, name := range candidateNames(lang) {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", &types.DiscoveryError{Reason: "no compiler found"}
}

// RealCompiler is like Compiler but skips CC/CXX and filters out any
// resolved path whose basename is one of jello's own wrapper names, to
// prevent infinite recursion when jello is installed as CC/CXX and running
// in passthrough mode.
func RealCompiler(lang Lang) (string, error) {
	for _, name := range candidateNames(lang) {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		if isWrapperName(filepath.Base(path)) {
			continue
		}
		return path, nil
	}
	return "", &types.DiscoveryError{Reason: "no real compiler found"}
}

var wrapperNames = map[string]struct{}{
	"gelcc":  {},
	"gelc++": {},
	"geld":   {},
	"jello":  {},
}

func isWrapperName(base string) bool {
	_, ok := wrapperNames[base]
	return ok
}

func resolveCompilerPath(override string) (string, bool) {
	if path, err := exec.LookPath(override); err == nil {
		return path, true
	}
	return "", false
}
