package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsHaveSensibleValues(t *testing.T) {
	d := Defaults()
	if d.PlanDir != ".jello" || d.FixMode != "suggest" || d.NM != "nm" {
		t.Fatalf("Defaults() = %+v", d)
	}
}

func TestLoadWithNoFilesReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "no-xdg-config"))
	clearJelloEnv(t)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Defaults()
	if cfg.PlanDir != want.PlanDir || cfg.FixMode != want.FixMode || cfg.NM != want.NM ||
		cfg.LogLevel != want.LogLevel || cfg.Jobs != want.Jobs || cfg.Backend != want.Backend ||
		cfg.EmitPlan != want.EmitPlan || cfg.Explain != want.Explain || cfg.DryRun != want.DryRun ||
		cfg.Silent != want.Silent || len(cfg.SearchPaths) != 0 || len(cfg.BackendPreference) != 0 {
		t.Fatalf("Load() = %+v, want Defaults()", cfg)
	}
}

func TestLoadReadsProjectTomlWalkingUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := "backend = \"lld\"\nplan_dir = \".build/plan\"\nsearch_paths = [\"/opt/lib\"]\n"
	if err := os.WriteFile(filepath.Join(root, ProjectFileName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "no-xdg-config"))
	clearJelloEnv(t)

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "lld" || cfg.PlanDir != ".build/plan" || len(cfg.SearchPaths) != 1 || cfg.SearchPaths[0] != "/opt/lib" {
		t.Fatalf("Load() = %+v", cfg)
	}
}

func TestLoadReadsAltJSONProjectFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, AltProjectFileName), []byte(`{"backend":"gold","silent":true}`), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "no-xdg-config"))
	clearJelloEnv(t)

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "gold" || !cfg.Silent {
		t.Fatalf("Load() = %+v", cfg)
	}
}

func TestEnvOverridesProjectFile(t *testing.T) {
	root := t.TempDir()
	manifest := "backend = \"lld\"\n"
	if err := os.WriteFile(filepath.Join(root, ProjectFileName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "no-xdg-config"))
	clearJelloEnv(t)
	t.Setenv("JELLO_BACKEND", "mold")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "mold" {
		t.Fatalf("Backend = %q, want env override mold", cfg.Backend)
	}
}

func TestEnvBoolParsingAcceptsAliases(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"true", true}, {"1", true}, {"yes", true},
		{"false", false}, {"0", false}, {"no", false},
	}
	for _, tc := range cases {
		root := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "no-xdg-config"))
		clearJelloEnv(t)
		t.Setenv("JELLO_SILENT", tc.value)

		cfg, err := Load(root)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Silent != tc.want {
			t.Fatalf("JELLO_SILENT=%q => Silent = %v, want %v", tc.value, cfg.Silent, tc.want)
		}
	}
}

func TestEnvSearchPathsAcceptsColonOrComma(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "no-xdg-config"))
	clearJelloEnv(t)
	t.Setenv("JELLO_SEARCH_PATHS", "/a:/b")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.SearchPaths) != 2 || cfg.SearchPaths[0] != "/a" || cfg.SearchPaths[1] != "/b" {
		t.Fatalf("SearchPaths = %v", cfg.SearchPaths)
	}
}

func TestEnvJobsNarrowsInt64ToInt(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "no-xdg-config"))
	clearJelloEnv(t)
	t.Setenv("JELLO_JOBS", "4")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Jobs != 4 {
		t.Fatalf("Jobs = %d, want 4", cfg.Jobs)
	}
}

func clearJelloEnv(t *testing.T) {
	t.Helper()
	for _, suffix := range []string{
		"BACKEND", "BACKEND_PREFERENCE", "FIX_MODE", "EMIT_PLAN", "PLAN_DIR",
		"EXPLAIN", "DRY_RUN", "SEARCH_PATHS", "NM", "LOG_LEVEL", "SILENT", "JOBS",
	} {
		name := "JELLO_" + suffix
		prev, had := os.LookupEnv(name)
		os.Unsetenv(name)
		t.Cleanup(func() {
			if had {
				os.Setenv(name, prev)
			}
		})
	}
}
