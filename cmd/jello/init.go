package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saint0x/jello/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default jello.toml in the target directory",
	Long: `Write a default jello.toml project configuration file. If [path] is
omitted, initializes the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	if !filepath.IsAbs(target) {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = filepath.Join(wd, target)
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, config.ProjectFileName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(defaultManifest), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", manifestPath)

	if err := appendGitignoreEntry(target); err != nil {
		return err
	}

	return nil
}

// appendGitignoreEntry adds a ".jello/" line to .gitignore if the file
// exists and doesn't already ignore it; a missing .gitignore is left
// uncreated, since not every project uses git.
func appendGitignoreEntry(target string) error {
	gitignorePath := filepath.Join(target, ".gitignore")
	data, err := os.ReadFile(gitignorePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if bytesContainsLine(data, ".jello/") {
		return nil
	}
	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString("\n.jello/\n")
	return err
}

func bytesContainsLine(data []byte, line string) bool {
	for _, l := range strings.Split(string(data), "\n") {
		if strings.TrimRight(l, "\r") == line {
			return true
		}
	}
	return false
}

const defaultManifest = `# jello project configuration
backend = "system"
fix_mode = "suggest"
plan_dir = ".jello"
log_level = "info"
`
