package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saint0x/jello/internal/discovery"
	"github.com/saint0x/jello/internal/execute"
	"github.com/saint0x/jello/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "jello",
	Short: "jello is a deterministic linker driver",
	Long:  `jello normalizes, resolves, reorders, and links the way cc/ld would, explaining every decision it made along the way.`,
}

func main() {
	switch basenameMode(os.Args[0]) {
	case modeCompilerWrapperC:
		os.Exit(runPassthrough(discovery.LangC))
	case modeCompilerWrapperCxx:
		os.Exit(runPassthrough(discovery.LangCxx))
	case modeLinker:
		os.Exit(runLinkerReplacement(os.Args[1:]))
	}

	rootCmd.Version = version.Version
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type invocationMode int

const (
	modeDirect invocationMode = iota
	modeCompilerWrapperC
	modeCompilerWrapperCxx
	modeLinker
)

// basenameMode determines the invocation mode from argv[0]'s basename, per
// how jello is installed: as gelcc/gelc++ it is a transparent compiler
// wrapper, as geld it replaces the linker, otherwise it is the jello CLI.
func basenameMode(arg0 string) invocationMode {
	base := filepath.Base(arg0)
	switch {
	case base == "gelcc" || strings.HasPrefix(base, "gelcc-"):
		return modeCompilerWrapperC
	case base == "gelc++" || strings.HasPrefix(base, "gelc++-"):
		return modeCompilerWrapperCxx
	case base == "geld":
		return modeLinker
	default:
		return modeDirect
	}
}

// runPassthrough forwards argv verbatim to a real compiler, entering no
// part of the pipeline: the wrapper-mode contract is exit-code fidelity,
// nothing else.
func runPassthrough(lang discovery.Lang) int {
	compiler, err := discovery.RealCompiler(lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jello: %s\n", err)
		return 1
	}
	result, err := execute.RunCmd(context.Background(), append([]string{compiler}, os.Args[1:]...))
	if err != nil {
		fmt.Fprintf(os.Stderr, "jello: %s\n", err)
		return 1
	}
	fmt.Print(result.Stdout)
	fmt.Fprint(os.Stderr, result.Stderr)
	return result.ExitCode
}
