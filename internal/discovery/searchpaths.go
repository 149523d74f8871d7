package discovery

import (
	"context"
	"os/exec"
	"regexp"
	"runtime"
)

var searchDirPattern = regexp.MustCompile(`SEARCH_DIR\("=?([^"]+)"\)`)

// SearchPaths parses `ld --verbose` for SEARCH_DIR(...) directives, falling
// back to a platform-sensible default list when ld cannot be run or emits
// nothing useful.
func SearchPaths(ctx context.Context) []string {
	if out, err := exec.CommandContext(ctx, "ld", "--verbose").Output(); err == nil {
		matches := searchDirPattern.FindAllStringSubmatch(string(out), -1)
		if len(matches) > 0 {
			paths := make([]string, 0, len(matches))
			for _, m := range matches {
				paths = append(paths, m[1])
			}
			return paths
		}
	}
	return defaultSearchPaths()
}

func defaultSearchPaths() []string {
	paths := []string{"/usr/lib", "/usr/local/lib", "/lib"}
	if runtime.GOOS == "darwin" {
		paths = append(paths, "/Library/Developer/CommandLineTools/SDKs/MacOSX.sdk/usr/lib")
	}
	return paths
}
