package discovery

import (
	"context"
	"os/exec"
	"strings"
)

// Sysroot runs `<compiler> --print-sysroot` and accepts non-empty stdout.
func Sysroot(ctx context.Context, compilerPath string) (string, bool) {
	if compilerPath == "" {
		return "", false
	}
	out, err := exec.CommandContext(ctx, compilerPath, "--print-sysroot").Output()
	if err != nil {
		return "", false
	}
	sysroot := strings.TrimSpace(string(out))
	return sysroot, sysroot != ""
}
