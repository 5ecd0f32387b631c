package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/reactive/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦═╗┌─┐┌─┐┌─┐┌┬┐┬┬  ┬┌─┐
  ╠╦╝├┤ ├─┤│   │ │└┐┌┘├┤
  ╩╚═└─┘┴ ┴└─┘ ┴ ┴ └┘ └─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "reactive",
		Short: "Tools for the reactive dependency-tracking engine",
		Long: `Reactive is a fine-grained dependency-tracking engine for Go.

Wrap plain records, lists, and keyed collections so reads and
writes become observable, then attach effects that re-run when
the data they touched changes. This CLI ships the supporting
tools:

  • bench    Measure tracking and trigger throughput
  • inspect  Serve a live dependency-graph inspector
  • init     Create a reactive.json project file`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(
		initCmd(),
		benchCmd(),
		inspectCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
