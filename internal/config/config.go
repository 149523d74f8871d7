// Package config loads jello's layered configuration: environment
// variables, a project config file walked up from the working directory,
// a user-level config file, and built-in defaults, highest precedence
// first.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"fortio.org/safecast"

	"github.com/saint0x/jello/internal/types"
)

// EnvPrefix is the deployment name used to derive JELLO_… variable names.
const EnvPrefix = "JELLO"

// ProjectFileName is the primary project manifest, walked up from CWD.
const ProjectFileName = "jello.toml"

// AltProjectFileName is the JSON alternate accepted for tool interop.
const AltProjectFileName = ".jello.json"

// Config is the fully merged configuration the driver runs with. Every
// field is optional at each layer; Load overlays layers so only fields a
// layer actually sets take effect.
type Config struct {
	Backend           string
	BackendPreference []string
	FixMode           string
	EmitPlan          bool
	PlanDir           string
	Explain           bool
	DryRun            bool
	SearchPaths       []string
	NM                string
	LogLevel          string
	Silent            bool
	Jobs              int
}

// Defaults returns jello's built-in configuration, the lowest-precedence
// layer.
func Defaults() Config {
	return Config{
		FixMode:  types.FixModeSuggest.String(),
		EmitPlan: true,
		PlanDir:  ".jello",
		LogLevel: "info",
		NM:       "nm",
		Jobs:     0,
	}
}

// projectFile mirrors the optional-field decode pattern of a TOML project
// manifest: every field is a pointer so Load can tell "absent" from
// "explicitly zero".
type projectFile struct {
	Backend           *string  `toml:"backend" json:"backend"`
	BackendPreference []string `toml:"backend_preference" json:"backend_preference"`
	FixMode           *string  `toml:"fix_mode" json:"fix_mode"`
	EmitPlan          *bool    `toml:"emit_plan" json:"emit_plan"`
	PlanDir           *string  `toml:"plan_dir" json:"plan_dir"`
	Explain           *bool    `toml:"explain" json:"explain"`
	DryRun            *bool    `toml:"dry_run" json:"dry_run"`
	SearchPaths       []string `toml:"search_paths" json:"search_paths"`
	NM                *string  `toml:"nm" json:"nm"`
	LogLevel          *string  `toml:"log_level" json:"log_level"`
	Silent            *bool    `toml:"silent" json:"silent"`
	Jobs              *int64   `toml:"jobs" json:"jobs"`
}

// Load builds the merged Config for a run rooted at cwd: env vars overlay
// the project file (found by walking upward from cwd, jello.toml preferred
// over .jello.json) which overlays the user file which overlays Defaults.
func Load(cwd string) (Config, error) {
	cfg := Defaults()

	if path, ok, err := findUserFile(); err != nil {
		return cfg, err
	} else if ok {
		pf, err := decodeJSONFile(path)
		if err != nil {
			return cfg, err
		}
		applyProjectFile(&cfg, pf)
	}

	if path, ok, err := findProjectFile(cwd); err != nil {
		return cfg, err
	} else if ok {
		pf, err := decodeProjectFile(path)
		if err != nil {
			return cfg, err
		}
		applyProjectFile(&cfg, pf)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// findProjectFile walks upward from startDir looking for jello.toml, then
// .jello.json, at each level.
func findProjectFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("config: resolve start directory: %w", err)
	}
	for {
		for _, name := range []string{ProjectFileName, AltProjectFileName} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("config: stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func findUserFile() (string, bool, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, nil
		}
		base = filepath.Join(home, ".config")
	}
	path := filepath.Join(base, "jello", "config.json")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("config: stat %q: %w", path, err)
	}
	return path, true, nil
}

func decodeProjectFile(path string) (projectFile, error) {
	if strings.HasSuffix(path, ".json") {
		return decodeJSONFile(path)
	}
	var pf projectFile
	if _, err := toml.DecodeFile(path, &pf); err != nil {
		return projectFile{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return pf, nil
}

func decodeJSONFile(path string) (projectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return projectFile{}, fmt.Errorf("%s: %w", path, err)
	}
	var pf projectFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return projectFile{}, fmt.Errorf("%s: failed to parse JSON: %w", path, err)
	}
	return pf, nil
}

func applyProjectFile(cfg *Config, pf projectFile) {
	if pf.Backend != nil {
		cfg.Backend = *pf.Backend
	}
	if len(pf.BackendPreference) > 0 {
		cfg.BackendPreference = pf.BackendPreference
	}
	if pf.FixMode != nil {
		cfg.FixMode = *pf.FixMode
	}
	if pf.EmitPlan != nil {
		cfg.EmitPlan = *pf.EmitPlan
	}
	if pf.PlanDir != nil {
		cfg.PlanDir = *pf.PlanDir
	}
	if pf.Explain != nil {
		cfg.Explain = *pf.Explain
	}
	if pf.DryRun != nil {
		cfg.DryRun = *pf.DryRun
	}
	if len(pf.SearchPaths) > 0 {
		cfg.SearchPaths = pf.SearchPaths
	}
	if pf.NM != nil {
		cfg.NM = *pf.NM
	}
	if pf.LogLevel != nil {
		cfg.LogLevel = *pf.LogLevel
	}
	if pf.Silent != nil {
		cfg.Silent = *pf.Silent
	}
	if pf.Jobs != nil {
		if n, err := safecast.Conv[int](*pf.Jobs); err == nil {
			cfg.Jobs = n
		}
	}
}

// applyEnv overlays JELLO_* environment variables, the highest-precedence
// layer.
func applyEnv(cfg *Config) {
	if v, ok := lookupEnv("BACKEND"); ok {
		cfg.Backend = v
	}
	if v, ok := lookupEnv("BACKEND_PREFERENCE"); ok {
		cfg.BackendPreference = splitList(v)
	}
	if v, ok := lookupEnv("FIX_MODE"); ok {
		cfg.FixMode = v
	}
	if v, ok := lookupEnv("EMIT_PLAN"); ok {
		cfg.EmitPlan = parseBool(v, cfg.EmitPlan)
	}
	if v, ok := lookupEnv("PLAN_DIR"); ok {
		cfg.PlanDir = v
	}
	if v, ok := lookupEnv("EXPLAIN"); ok {
		cfg.Explain = parseBool(v, cfg.Explain)
	}
	if v, ok := lookupEnv("DRY_RUN"); ok {
		cfg.DryRun = parseBool(v, cfg.DryRun)
	}
	if v, ok := lookupEnv("SEARCH_PATHS"); ok {
		cfg.SearchPaths = splitList(v)
	}
	if v, ok := lookupEnv("NM"); ok {
		cfg.NM = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookupEnv("SILENT"); ok {
		cfg.Silent = parseBool(v, cfg.Silent)
	}
	if v, ok := lookupEnv("JOBS"); ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			if n, err := safecast.Conv[int](parsed); err == nil {
				cfg.Jobs = n
			}
		}
	}
}

func lookupEnv(suffix string) (string, bool) {
	return os.LookupEnv(EnvPrefix + "_" + suffix)
}

// splitList accepts both colon- and comma-separated lists.
func splitList(v string) []string {
	sep := ":"
	if strings.Contains(v, ",") {
		sep = ","
	}
	var out []string
	for _, part := range strings.Split(v, sep) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseBool accepts true/1/yes and false/0/no, case-insensitively, and
// falls back to cur for anything else.
func parseBool(v string, cur bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return cur
	}
}
