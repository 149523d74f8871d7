package emit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saint0x/jello/internal/types"
)

func samplePlan() *types.LinkPlan {
	return &types.LinkPlan{
		Backend:     types.BackendLLD,
		BackendPath: "/usr/bin/ld.lld",
		Output:      "app",
		BackendArgs: []string{"-o", "app", "main.o"},
	}
}

func TestWriteArtifactsCreatesAllThreeFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plandir")
	plan := samplePlan()
	diags := []types.Diagnostic{{Severity: types.SevError, Code: "E001", Message: "undefined reference to sqrt"}}

	if err := WriteArtifacts(dir, plan, diags); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}

	for _, name := range []string{planFileName, replayFileName, diagnosticsFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}
}

func TestWriteArtifactsProducesRoundTrippableLinkplanJSON(t *testing.T) {
	dir := t.TempDir()
	plan := samplePlan()
	if err := WriteArtifacts(dir, plan, nil); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, planFileName))
	if err != nil {
		t.Fatalf("read linkplan.json: %v", err)
	}
	var got types.LinkPlan
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal linkplan.json: %v", err)
	}
	if got.Output != plan.Output || got.BackendPath != plan.BackendPath {
		t.Fatalf("got = %+v, want Output/BackendPath to match %+v", got, plan)
	}
}

func TestWriteArtifactsReplayScriptIsExecutableAndQuoted(t *testing.T) {
	dir := t.TempDir()
	plan := samplePlan()
	plan.BackendArgs = []string{"-o", "a out", "main.o"}
	if err := WriteArtifacts(dir, plan, nil); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, replayFileName))
	if err != nil {
		t.Fatalf("stat replay script: %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Fatalf("expected the replay script to be executable, mode = %v", info.Mode())
	}

	data, err := os.ReadFile(filepath.Join(dir, replayFileName))
	if err != nil {
		t.Fatalf("read replay script: %v", err)
	}
	script := string(data)
	if !strings.HasPrefix(script, "#!/bin/sh\n") {
		t.Fatalf("replay script missing shebang: %q", script)
	}
	if !strings.Contains(script, "lld") {
		t.Fatalf("replay script missing backend identifier: %q", script)
	}
	if !strings.Contains(script, "'a out'") {
		t.Fatalf("replay script did not quote the argument with a space: %q", script)
	}
}

func TestWriteArtifactsCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "plan", "dir")
	if err := WriteArtifacts(dir, samplePlan(), nil); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected dir to be created: %v", err)
	}
}

func TestWriteArtifactsLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	if err := WriteArtifacts(dir, samplePlan(), nil); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("leftover temp file: %s", e.Name())
		}
	}
}
