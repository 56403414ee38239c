// Package main implements asterc, the command-line driver for the aster
// ahead-of-time compiler: module resolution, parsing, name/noalloc
// analysis, code generation, and the content-addressed build cache, wired
// behind `build` and `cache` subcommands (spec.md §6). The subcommand
// layout and Execute() entry point follow the teacher's fatih/color output
// style, upgraded to github.com/spf13/cobra subcommands in the shape of
// Consensys-go-corset's pkg/cmd/zkc/root.go.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "asterc",
	Short: "An ahead-of-time compiler for the aster language.",
	Long:  "asterc resolves modules, parses, analyzes, and emits textual SSA for aster programs.",
}

// Execute runs the root command; main() is kept to this one call so the
// whole CLI surface lives in this package's other files (build.go,
// cache.go), matching the teacher's one-binary-many-subcommands shape.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
		os.Exit(1)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", red("error:"), fmt.Sprintf(format, args...))
	os.Exit(1)
}
