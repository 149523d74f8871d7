package discovery

import (
	"os/exec"

	"github.com/saint0x/jello/internal/types"
)

// Nm locates an nm-equivalent binary: override if it exists, else
// llvm-nm, then nm.
func Nm(override string) (string, error) {
	if override != "" {
		if path, err := exec.LookPath(override); err == nil {
			return path, nil
		}
		if isAbsExisting(override) {
			return override, nil
		}
	}
	for _, name := range []string{"llvm-nm", "nm"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", &types.DiscoveryError{Reason: "nm not found"}
}
