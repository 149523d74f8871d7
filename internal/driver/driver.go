// Package driver sequences Parse, Normalize, Discovery, Resolve, Reorder,
// Plan, Execute, and Diagnose into the full jello pipeline, and applies the
// fix-mode policy that decides whether a Reorder AddGroup fix is applied.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/saint0x/jello/internal/config"
	"github.com/saint0x/jello/internal/diagnose"
	"github.com/saint0x/jello/internal/discovery"
	"github.com/saint0x/jello/internal/emit"
	"github.com/saint0x/jello/internal/execute"
	"github.com/saint0x/jello/internal/normalize"
	"github.com/saint0x/jello/internal/parse"
	"github.com/saint0x/jello/internal/plan"
	"github.com/saint0x/jello/internal/reorder"
	"github.com/saint0x/jello/internal/resolve"
	"github.com/saint0x/jello/internal/symbols"
	"github.com/saint0x/jello/internal/triple"
	"github.com/saint0x/jello/internal/types"
	"github.com/saint0x/jello/internal/ui"
)

// Options configures one run of the pipeline. Cfg supplies the
// already-merged layered configuration; the flag fields below override it
// the way a link subcommand's own flags outrank its config file.
type Options struct {
	Argv            []string
	Cfg             config.Config
	BackendOverride string
	Mode            types.FixMode
	DryRun          bool
	Explain         bool
	EmitPlan        bool
	PlanDir         string
	Silent          bool
	Stdout          io.Writer
	Stderr          io.Writer
}

// Result is everything a caller (a CLI subcommand, a test) might want to
// inspect after a run.
type Result struct {
	Plan        *types.LinkPlan
	Exec        types.ExecResult
	Diagnostics []types.Diagnostic
	ExitCode    int
}

// Run executes the full pipeline for one invocation of geld/jello link.
func Run(ctx context.Context, opts Options) (Result, error) {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	if parse.CompileOnly(opts.Argv) {
		return runCompilePassthrough(ctx, opts.Argv, stdout, stderr)
	}

	inv, err := parse.Parse(opts.Argv)
	if err != nil {
		return Result{}, err
	}
	inv = normalize.Invocation(inv)

	compilerPath, err := discovery.Compiler(discovery.LangC)
	if err != nil {
		return Result{}, err
	}
	tr := triple.Detect(ctx, compilerPath)

	preferred := useLdValue(inv.Flags)
	backendOverride := opts.BackendOverride
	if backendOverride == "" {
		backendOverride = opts.Cfg.Backend
	}
	backend, backendPath, err := discovery.Backend(backendOverride, preferred, parseBackendPreference(opts.Cfg.BackendPreference))
	if err != nil {
		return Result{}, err
	}

	searchPaths := append(append([]string{}, opts.Cfg.SearchPaths...), inv.ExplicitSearchPaths...)
	resolvedLibs, resolveErr := resolve.Libs(ctx, inv, searchPaths)
	if resolveErr != nil {
		fmt.Fprintf(stderr, "jello: warning: %s\n", resolveErr)
		resolvedLibs = nil
	}

	archivePaths := staticArchivePaths(inv.Inputs, resolvedLibs)
	nmPath, err := discovery.Nm(opts.Cfg.NM)
	if err != nil {
		nmPath = "nm"
	}
	archiveOrder, reorderFixes, err := reorder.Libs(ctx, nmPath, archivePaths, symbolCache(opts.Cfg.PlanDir), opts.Cfg.Jobs)
	if err != nil {
		return Result{}, err
	}

	var groupFix *types.Fix
	if len(reorderFixes) > 0 && applyGroupFix(opts.modeOrDefault()) {
		groupFix = &reorderFixes[0]
	}

	builtPlan := plan.Build(plan.BuildInput{
		Invocation:   inv,
		Triple:       tr,
		Backend:      backend,
		BackendPath:  backendPath,
		ResolvedLibs: resolvedLibs,
		SearchPaths:  searchPaths,
		ArchiveOrder: archiveOrder,
		GroupFix:     groupFix,
	})

	if opts.Explain {
		fmt.Fprint(stderr, ExplainTrace(&builtPlan, tr, reorderFixes))
	}

	planDir := opts.PlanDir
	if planDir == "" {
		planDir = opts.Cfg.PlanDir
	}
	if opts.EmitPlan {
		if err := emit.WriteArtifacts(planDir, &builtPlan, nil); err != nil {
			fmt.Fprintf(stderr, "jello: warning: %s\n", err)
		}
	}

	if opts.DryRun {
		fmt.Fprintln(stdout, execute.DryRun(&builtPlan))
		return Result{Plan: &builtPlan, ExitCode: 0}, nil
	}

	execResult, err := execute.Run(ctx, &builtPlan)
	if err != nil {
		return Result{}, err
	}

	var diags []types.Diagnostic
	if execResult.ExitCode != 0 || opts.modeOrDefault() == types.FixModeHardFail {
		diags = diagnose.Errors(execResult)
		execResult = execResult.WithPostDiagnostics(diags)
	}

	if !opts.Silent {
		ui.PrintDiagnostics(stderr, diags)
	}

	exitCode := execResult.ExitCode
	if exitCode == 0 && opts.modeOrDefault() == types.FixModeHardFail && hasSevError(diags) {
		exitCode = 1
	}

	return Result{Plan: &builtPlan, Exec: execResult, Diagnostics: diags, ExitCode: exitCode}, nil
}

func (o Options) modeOrDefault() types.FixMode {
	return o.Mode
}

// runCompilePassthrough forwards a compile-only invocation (-c/-S/-E) to a
// real compiler instead of entering the link pipeline: the driver occupies
// a CC/CXX slot and must behave like the compiler it wraps whenever it is
// not actually being asked to link.
func runCompilePassthrough(ctx context.Context, argv []string, stdout, stderr io.Writer) (Result, error) {
	lang := discovery.LangC
	if parse.IsCxxSource(argv) {
		lang = discovery.LangCxx
	}
	compiler, err := discovery.RealCompiler(lang)
	if err != nil {
		return Result{}, err
	}

	execResult, err := execute.RunCmd(ctx, append([]string{compiler}, argv...))
	if err != nil {
		return Result{}, err
	}
	fmt.Fprint(stdout, execResult.Stdout)
	fmt.Fprint(stderr, execResult.Stderr)
	return Result{Exec: execResult, ExitCode: execResult.ExitCode}, nil
}

// applyGroupFix reports whether the active fix-mode policy applies
// Reorder's AddGroup fix to the plan instead of merely suggesting it.
// Auto_fix applies it; Suggest and Hard_fail never mutate the plan.
func applyGroupFix(mode types.FixMode) bool {
	return mode == types.FixModeAuto
}

func hasSevError(diags []types.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == types.SevError {
			return true
		}
	}
	return false
}

func useLdValue(flags []types.Flag) string {
	for _, f := range flags {
		if f.Kind == types.FlagUseLd {
			return f.Value
		}
	}
	return ""
}

func parseBackendPreference(names []string) []types.Backend {
	var out []types.Backend
	for _, n := range names {
		if b, ok := types.ParseBackend(n); ok {
			out = append(out, b)
		}
	}
	return out
}

// staticArchivePaths collects every path Reorder should consider: Archive
// inputs plus resolved libraries that turned out to be static.
func staticArchivePaths(inputs []types.Input, resolved []types.ResolvedLib) []string {
	var paths []string
	for _, in := range inputs {
		if in.Kind == types.InputArchive {
			paths = append(paths, in.Path)
		}
	}
	for _, lib := range resolved {
		if lib.Kind == types.LibKindStatic {
			paths = append(paths, lib.ResolvedPath)
		}
	}
	sort.Strings(paths)
	return paths
}

// symbolCache opens the advisory on-disk symbol cache under planDir. A
// failure to open it (e.g. an unwritable plan directory) just means no
// caching this run, never a pipeline failure.
func symbolCache(planDir string) *symbols.Cache {
	if planDir == "" {
		return nil
	}
	cache, err := symbols.OpenCache(planDir + "/symcache")
	if err != nil {
		return nil
	}
	return cache
}
