package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saint0x/jello/internal/config"
	"github.com/saint0x/jello/internal/driver"
	"github.com/saint0x/jello/internal/types"
)

var (
	linkDryRun  bool
	linkExplain bool
	linkNoPlan  bool
	linkPlanDir string
	linkMode    string
	linkBackend string
)

func init() {
	linkCmd.Flags().BoolVarP(&linkDryRun, "dry-run", "n", false, "print the backend command without running it")
	linkCmd.Flags().BoolVar(&linkExplain, "explain", false, "write a reasoning trace to stderr")
	linkCmd.Flags().BoolVar(&linkNoPlan, "no-plan", false, "do not write plan artifacts")
	linkCmd.Flags().StringVar(&linkPlanDir, "plan-dir", "", "artifact directory (default .jello)")
	linkCmd.Flags().StringVar(&linkMode, "mode", "", "fix-mode policy (auto|suggest|strict)")
	linkCmd.Flags().StringVar(&linkBackend, "backend", "", "force a backend linker (mold|lld|gold|bfd|system)")
	linkCmd.Flags().SetInterspersed(false)
}

var linkCmd = &cobra.Command{
	Use:   "link [options] <args...>",
	Short: "Run the jello pipeline over a cc/ld-style argument list",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		code := runPipeline(args, pipelineFlags{
			dryRun:  linkDryRun,
			explain: linkExplain,
			noPlan:  linkNoPlan,
			planDir: linkPlanDir,
			mode:    linkMode,
			backend: linkBackend,
		})
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

type pipelineFlags struct {
	dryRun  bool
	explain bool
	noPlan  bool
	planDir string
	mode    string
	backend string
}

// runPipeline loads configuration, overlays the subcommand's own flags over
// it, and runs the driver pipeline, returning the process exit code.
func runPipeline(argv []string, flags pipelineFlags) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jello: %s\n", err)
		return 1
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jello: %s\n", err)
		return 1
	}

	mode := types.FixModeSuggest
	if flags.mode != "" {
		if m, ok := types.ParseFixMode(flags.mode); ok {
			mode = m
		}
	} else if m, ok := types.ParseFixMode(cfg.FixMode); ok {
		mode = m
	}

	opts := driver.Options{
		Argv:            argv,
		Cfg:             cfg,
		BackendOverride: flags.backend,
		Mode:            mode,
		DryRun:          flags.dryRun || cfg.DryRun,
		Explain:         flags.explain || cfg.Explain,
		EmitPlan:        cfg.EmitPlan && !flags.noPlan,
		PlanDir:         flags.planDir,
		Silent:          cfg.Silent,
	}

	res, err := driver.Run(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jello: %s\n", err)
		return 1
	}
	return res.ExitCode
}

// runLinkerReplacement is the geld basename entry point: the full pipeline
// runs on the raw argument list, with no subcommand parsing at all.
func runLinkerReplacement(argv []string) int {
	return runPipeline(argv, pipelineFlags{})
}
