package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saint0x/jello/internal/version"
)

var (
	versionShowHash bool
	versionShowDate bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show jello build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		v := strings.TrimSpace(version.Version)
		if v == "" {
			v = "dev"
		}
		fmt.Fprintf(out, "jello %s\n", v)
		if versionShowHash {
			fmt.Fprintf(out, "commit: %s\n", valueOrDefault(version.GitCommit, "unknown"))
		}
		if versionShowDate {
			fmt.Fprintf(out, "built:  %s\n", valueOrDefault(version.BuildDate, "unknown"))
		}
		return nil
	},
}
