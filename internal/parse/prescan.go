// Package parse turns a raw argv into a structured Invocation.
package parse

import "strings"

// CompileOnly is a cheap first pass over the untouched token list: it
// reports true if any token equals -c, -S, or -E. The driver uses this to
// short-circuit into passthrough mode before running the full pipeline.
func CompileOnly(argv []string) bool {
	for _, tok := range argv {
		if tok == "-c" || tok == "-S" || tok == "-E" {
			return true
		}
	}
	return false
}

var cxxSourceSuffixes = []string{".cpp", ".cc", ".cxx", ".c++", ".C"}

// IsCxxSource reports whether argv names at least one C++ source file, used
// alongside CompileOnly to pick the C++ compiler over the C one when a
// compile-only invocation short-circuits into passthrough.
func IsCxxSource(argv []string) bool {
	for _, tok := range argv {
		for _, suf := range cxxSourceSuffixes {
			if strings.HasSuffix(tok, suf) {
				return true
			}
		}
	}
	return false
}
