// Package main provides the astviewer CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astviewer/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)

	a.close(context.Background())
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "astviewer",
		Short: "Inspect the syntax trees of Java source files",
		Long: `astviewer parses and analyzes a Java source file and shows the resulting
tree: every declaration, statement and expression with its kind, symbol,
resolved type and source span.

Commands:
  view      Browse the tree interactively
  dump      Print the tree as an outline, JSON or YAML
  stats     Summarize node kinds and coverage
  diff      Compare the outlines of two files
  validate  Check a JSON dump against the schema
  watch     Rebuild and print the tree on every save`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./astviewer.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(viewCmd(a))
	rootCmd.AddCommand(dumpCmd(a))
	rootCmd.AddCommand(statsCmd(a))
	rootCmd.AddCommand(diffCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(watchCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "astviewer %s\n", version.String())
		},
	}
}
