// Package emit serializes a LinkPlan and its diagnostics to a plan
// directory: a machine-readable linkplan.json, a replay script, and a
// diagnostics.json, all written atomically.
package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/saint0x/jello/internal/execute"
	"github.com/saint0x/jello/internal/types"
)

const (
	planFileName        = "linkplan.json"
	replayFileName      = "linkplan.sh"
	diagnosticsFileName = "diagnostics.json"
)

// WriteArtifacts creates dir if missing and writes linkplan.json,
// linkplan.sh, and diagnostics.json into it. Each file is written to a
// temp file in dir and renamed into place, so a reader never observes a
// partially written file.
func WriteArtifacts(dir string, plan *types.LinkPlan, diagnostics []types.Diagnostic) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("emit: create plan dir: %w", err)
	}

	planJSON, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("emit: marshal linkplan.json: %w", err)
	}
	if err := writeAtomic(dir, planFileName, append(planJSON, '\n'), 0o644); err != nil {
		return err
	}

	if err := writeAtomic(dir, replayFileName, []byte(replayScript(plan)), 0o755); err != nil {
		return err
	}

	diagsJSON, err := json.MarshalIndent(diagnostics, "", "  ")
	if err != nil {
		return fmt.Errorf("emit: marshal diagnostics.json: %w", err)
	}
	if err := writeAtomic(dir, diagnosticsFileName, append(diagsJSON, '\n'), 0o644); err != nil {
		return err
	}

	return nil
}

// replayScript renders a shell script that, when executed, runs the exact
// backend invocation the plan describes.
func replayScript(plan *types.LinkPlan) string {
	return fmt.Sprintf("#!/bin/sh\n# replay of the %s backend invocation planned by jello\nexec %s\n",
		plan.Backend, execute.DryRun(plan))
}

// writeAtomic writes data to name inside dir via a sibling temp file,
// fsyncs it, then renames it over the final path.
func writeAtomic(dir, name string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("emit: create temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("emit: write %s: %w", name, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("emit: chmod %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("emit: sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("emit: close %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("emit: rename %s into place: %w", name, err)
	}
	return nil
}
