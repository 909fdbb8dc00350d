package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	VERSION      = "1.0.0"
	PHRED_OFFSET = 33
)

// Define color functions
var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// exitFunc is replaced in tests
var exitFunc = os.Exit

// newRootCommand builds the command tree. Without a subcommand the root
// runs the report with the built-in configuration.
func newRootCommand() *cobra.Command {
	var version bool
	opts := &reportOptions{}

	rootCmd := &cobra.Command{
		Use:           "readqual",
		Short:         bold("Per-read length and average quality report for FASTQ collections"),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if version {
				fmt.Fprintf(cmd.OutOrStdout(), "readqual %s\n", VERSION)
				return nil
			}
			return opts.run(cmd, args)
		},
	}

	bindReportFlags(rootCmd, opts)
	rootCmd.Flags().BoolVarP(&version, "version", "v", false, "Show version information")

	rootCmd.AddCommand(ReportCommand())
	rootCmd.AddCommand(SummaryCommand())
	rootCmd.AddCommand(ConfigCommand())

	rootCmd.SetHelpFunc(helpFunc)
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		fmt.Fprintln(os.Stderr, red("Try 'readqual --help' for more information"))
		exitFunc(1)
	}
}
