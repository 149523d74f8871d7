// Package execute spawns the selected backend linker with the rendered
// LinkPlan arguments and classifies its termination.
package execute

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"syscall"

	"github.com/saint0x/jello/internal/types"
)

// Run builds <plan.BackendPath> <plan.BackendArgs>, spawns it, and captures
// stdout and stderr separately. A spawn failure (backend not executable,
// not found, etc.) returns a *types.ExecError instead of an ExecResult. A
// normal or abnormal exit is always reported through ExecResult.ExitCode,
// never as an error.
func Run(ctx context.Context, plan *types.LinkPlan) (types.ExecResult, error) {
	cmd := exec.CommandContext(ctx, plan.BackendPath, plan.BackendArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := types.ExecResult{
		Plan:   plan,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr == nil {
		result.ExitCode = 0
		return result, nil
	}

	exitErr, ok := runErr.(*exec.ExitError)
	if !ok {
		return types.ExecResult{}, &types.ExecError{ExitCode: 1, Stderr: runErr.Error()}
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		result.ExitCode = 128 + int(ws.Signal())
		return result, nil
	}

	result.ExitCode = exitErr.ExitCode()
	return result, nil
}

// DryRun renders the command jello would run as a single shell-quoted
// string, without spawning anything.
func DryRun(plan *types.LinkPlan) string {
	parts := make([]string, 0, len(plan.BackendArgs)+1)
	parts = append(parts, shellQuote(plan.BackendPath))
	for _, a := range plan.BackendArgs {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// RunCmd spawns an arbitrary command for the passthrough paths: jello
// invoked as gelcc/gelc++, and a compile-only invocation in the driver,
// forward argv to the real compiler driver and relay its exit status.
func RunCmd(ctx context.Context, cmd []string) (types.ExecResult, error) {
	if len(cmd) == 0 {
		return types.ExecResult{}, &types.ExecError{ExitCode: 1, Stderr: "empty command"}
	}
	plan := &types.LinkPlan{BackendPath: cmd[0], BackendArgs: cmd[1:]}
	return Run(ctx, plan)
}

// shellQuote wraps s in single quotes, escaping embedded single quotes the
// POSIX-shell way, unless s is already safe to leave bare.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if isShellSafe(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellSafe(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("_-./=:,@+", r):
		default:
			return false
		}
	}
	return true
}
