package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saint0x/jello/internal/config"
	"github.com/saint0x/jello/internal/discovery"
	"github.com/saint0x/jello/internal/symbols"
	"github.com/saint0x/jello/internal/triple"
	"github.com/saint0x/jello/internal/types"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Print the detected toolchain and active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd, context.Background())
	},
}

func runDoctor(cmd *cobra.Command, ctx context.Context) error {
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "compilers:")
	for _, lang := range []struct {
		name string
		lang discovery.Lang
	}{{"cc", discovery.LangC}, {"c++", discovery.LangCxx}} {
		path, err := discovery.Compiler(lang.lang)
		if err != nil {
			fmt.Fprintf(out, "  %s: not found (%s)\n", lang.name, err)
			continue
		}
		fmt.Fprintf(out, "  %s: %s\n", lang.name, path)

		tr := triple.Detect(ctx, path)
		fmt.Fprintf(out, "    triple: %s\n", tr)
		if sysroot, ok := discovery.Sysroot(ctx, path); ok {
			fmt.Fprintf(out, "    sysroot: %s\n", sysroot)
		}
	}

	fmt.Fprintln(out, "backends:")
	for _, b := range types.DefaultBackendPreference() {
		_, path, err := discovery.Backend(b.String(), "", nil)
		if err != nil {
			fmt.Fprintf(out, "  %s: not found\n", b)
			continue
		}
		version, verr := discovery.LinkerVersion(ctx, path)
		if verr != nil {
			version = "unknown"
		}
		fmt.Fprintf(out, "  %s: %s (%s)\n", b, path, version)
	}

	nmPath, err := discovery.Nm(cfg.NM)
	if err != nil {
		fmt.Fprintf(out, "nm: not found (%s)\n", err)
	} else {
		fmt.Fprintf(out, "nm: %s\n", nmPath)
	}

	fmt.Fprintln(out, "search paths:")
	for _, p := range discovery.SearchPaths(ctx) {
		fmt.Fprintf(out, "  %s\n", p)
	}

	if cache, err := symbols.OpenCache(cfg.PlanDir + "/symcache"); err == nil {
		dir, entries := cache.Stats()
		fmt.Fprintf(out, "symbol cache: %s (%d entries)\n", dir, entries)
	}

	fmt.Fprintln(out, "active configuration:")
	fmt.Fprintf(out, "  backend: %s\n", valueOrDefault(cfg.Backend, "(auto)"))
	fmt.Fprintf(out, "  fix_mode: %s\n", cfg.FixMode)
	fmt.Fprintf(out, "  plan_dir: %s\n", cfg.PlanDir)
	fmt.Fprintf(out, "  log_level: %s\n", cfg.LogLevel)
	fmt.Fprintf(out, "  silent: %v\n", cfg.Silent)

	return nil
}

func valueOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
