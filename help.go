package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Custom help function used
// It provides nicely formatted help messages for the root command and other subcommands
func helpFunc(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()

	// Specialized help for subcommands
	switch cmd.Name() {
	case "report":
		fmt.Fprintf(out, `
%s

%s
  Walk every experiment directory, read the FASTQ files inside its barcode
  subdirectories and write one row per read with its length, average Phred
  quality and sampling location. Reads without quality scores are skipped.

%s
  %s
  %s
  %s
  %s
  %s

%s
  %s
  %s

`,
			bold(cyan("readqual report")+" - Per-read quality report"),
			bold(yellow("Description:")),
			bold(yellow("Flags:")),
			cyan("-c, --config")+" <string>    : YAML run configuration (default, built-in experiments)",
			cyan("-o, --out")+" <string>       : Output report file (default, 'qualityInfo0801.txt'; '-' for stdout)",
			cyan("-d, --dir-match")+" <string> : Substring marking sample directories (default, 'barcode')",
			cyan("-e, --ext")+" <string>       : Read file extension (default, '.fastq')",
			cyan("-z, --compress")+" <int>     : ZSTD level for '.zst' output (0=by file suffix, 1-22)",
			bold(yellow("Examples:")),
			cyan("readqual report --config runs.yaml --out quality.tsv.gz"),
			cyan("readqual report --out quality.tsv.zst --compress 19"),
		)
		return
	case "summary":
		fmt.Fprintf(out, `
%s

%s
  Summarise a report by experiment and sampling location: number of reads
  and bases, read length (mean, median, min, max) and read quality
  (mean, median).

%s
  %s
  %s

%s
  %s

`,
			bold(cyan("readqual summary")+" - Per-location statistics of a report"),
			bold(yellow("Description:")),
			bold(yellow("Flags:")),
			cyan("-i, --in")+" <string>  : Input report file (default, 'qualityInfo0801.txt'; '-' for stdin)",
			cyan("-o, --out")+" <string> : Output summary file (default, stdout)",
			bold(yellow("Examples:")),
			cyan("readqual summary -i quality.tsv.gz -o summary.tsv"),
		)
		return
	case "config":
		fmt.Fprintf(out, `
%s

%s
  Print the run configuration as YAML. Edit the output and pass it back
  with 'readqual report --config'.

%s
  %s

`,
			bold(cyan("readqual config")+" - Show the run configuration"),
			bold(yellow("Description:")),
			bold(yellow("Flags:")),
			cyan("-c, --config")+" <string> : YAML configuration to validate and print (default, built-in)",
		)
		return
	}

	// Default: root command help
	fmt.Fprintf(out, `
%s

%s
  Average quality is computed through error probabilities: every Phred score
  is turned into 10^(-q/10), the probabilities are averaged and the mean is
  converted back to the Phred scale.

%s
  %s
  %s
  %s
  %s
  %s
  %s
  %s

%s
  %s
  %s
  %s

%s
  # Run with the built-in experiments, write qualityInfo0801.txt
  %s

  # Use another set of experiments
  %s

  # Summarise the report per sampling location
  %s

`,
		bold(cyan("readqual")+" v."+VERSION+" - Per-read length and average quality for FASTQ collections"),
		bold(yellow("Quality:")),
		bold(yellow("Flags:")),
		cyan("-c, --config")+" <string>    : YAML run configuration (default, built-in experiments)",
		cyan("-o, --out")+" <string>       : Output report file (default, 'qualityInfo0801.txt')",
		cyan("-d, --dir-match")+" <string> : Substring marking sample directories (default, 'barcode')",
		cyan("-e, --ext")+" <string>       : Read file extension (default, '.fastq')",
		cyan("-z, --compress")+" <int>     : ZSTD level for '.zst' output (0=by file suffix, 1-22)",
		cyan("-h, --help")+"               : Show help message",
		cyan("-v, --version")+"            : Show version information",
		bold(yellow("Subcommands:")),
		cyan("report")+"  : Write the per-read quality report (default)",
		cyan("summary")+" : Summarise a report by experiment and location",
		cyan("config")+"  : Print the run configuration as YAML",
		bold(yellow("Usage examples:")),
		cyan("readqual"),
		cyan("readqual config > runs.yaml && readqual --config runs.yaml"),
		cyan("readqual summary -i qualityInfo0801.txt"),
	)
}
