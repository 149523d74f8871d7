package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saint0x/jello/internal/config"
	"github.com/saint0x/jello/internal/driver"
	"github.com/saint0x/jello/internal/execute"
)

var planFormat string

func init() {
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "json", "output format (json|shell)")
}

var planCmd = &cobra.Command{
	Use:   "plan <args...>",
	Short: "Run the pipeline without executing and print the serialized plan",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch planFormat {
		case "json", "shell":
		default:
			return fmt.Errorf("unsupported format %q (must be json or shell)", planFormat)
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		cfg, err := config.Load(cwd)
		if err != nil {
			return err
		}

		var discarded bytes.Buffer
		res, err := driver.Run(context.Background(), driver.Options{
			Argv:     args,
			Cfg:      cfg,
			DryRun:   true,
			EmitPlan: false,
			Silent:   true,
			Stdout:   &discarded,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if planFormat == "shell" {
			fmt.Fprintln(out, execute.DryRun(res.Plan))
			return nil
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Plan)
	},
}
