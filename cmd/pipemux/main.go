// Package main provides the entry point for the pipemux CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipemux/pipemux/cmd/pipemux/commands"
	"github.com/pipemux/pipemux/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pipemux",
		Short: "pipemux - reorder tagged record streams into per-pipeline reports",
		Long: `pipemux ingests a stream of tagged, out-of-order records, groups them
into independent pipelines, reorders each pipeline by record id, and
emits every pipeline's records in ascending order.

Commands:
  run       Ingest a record stream and render the ordered report`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "pipemux %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
