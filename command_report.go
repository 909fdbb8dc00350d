// Subcommand (`readqual report`) that walks the experiment directories and
// writes one report row per read. Also the default action of the root command.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
)

// reportOptions holds the optional overrides of the report run
type reportOptions struct {
	configFile string
	outFile    string
	dirMatch   string
	readExt    string
	compLevel  int
}

// bindReportFlags registers the report flags on cmd
func bindReportFlags(cmd *cobra.Command, opts *reportOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML run configuration (default: built-in experiments)")
	flags.StringVarP(&opts.outFile, "out", "o", DEFAULT_OUTPUT, "Output report file (use - for stdout)")
	flags.StringVarP(&opts.dirMatch, "dir-match", "d", DEFAULT_DIR_MATCH, "Substring marking sample (barcode) directories")
	flags.StringVarP(&opts.readExt, "ext", "e", DEFAULT_READ_EXT, "Extension of read files")
	flags.IntVarP(&opts.compLevel, "compress", "z", 0, "ZSTD level for .zst output (0=chosen by file suffix, 1-22)")
}

// resolveConfig loads the run configuration and applies explicitly set flags
func (opts *reportOptions) resolveConfig(cmd *cobra.Command) (*Config, error) {
	cfg := DefaultConfig()
	if opts.configFile != "" {
		var err error
		if cfg, err = LoadConfig(opts.configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output = opts.outFile
	}
	if flags.Changed("dir-match") {
		cfg.SampleDirMatch = opts.dirMatch
	}
	if flags.Changed("ext") {
		cfg.ReadFileExt = opts.readExt
	}

	if opts.compLevel < 0 || opts.compLevel > 22 {
		return nil, fmt.Errorf("compression level must be between 0 and 22")
	}
	return cfg, cfg.Validate()
}

func (opts *reportOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := opts.resolveConfig(cmd)
	if err != nil {
		return err
	}
	return runReport(cfg, opts.compLevel, newConsole(cmd.OutOrStdout(), cmd.ErrOrStderr()))
}

// ReportCommand creates the `report` subcommand
func ReportCommand() *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write per-read length and average quality for all experiments",
		Long: `Walk every configured experiment directory, read each FASTQ file found in its
barcode subdirectories and write one tab-separated row per read with the read
length, its average Phred quality and the sampling location of the barcode.
Reads without quality scores are skipped.`,
		Args: cobra.NoArgs,
		RunE: opts.run,
	}
	bindReportFlags(cmd, opts)
	return cmd
}

// runReport performs a complete run: the sink is opened once, truncated,
// filled in traversal order and closed before completion is announced
func runReport(cfg *Config, compLevel int, con *console) error {
	sink, err := openReportSink(cfg.Output, compLevel)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}

	rw, err := newReportWriter(sink)
	if err == nil {
		d := &reportDriver{
			cfg:       cfg,
			locations: NewLocationMapping(cfg.Experiments),
			rows:      rw,
			con:       con,
		}
		err = d.run()
	}
	if cerr := sink.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("error closing output file: %w", cerr)
	}
	if err != nil {
		return err
	}

	con.Event("Processing complete")
	return nil
}

// reportDriver walks experiment -> sample directory -> read file -> read
type reportDriver struct {
	cfg       *Config
	locations *LocationMapping
	rows      *reportWriter
	con       *console
}

func (d *reportDriver) run() error {
	for _, e := range d.cfg.Experiments {
		if err := d.processExperiment(e); err != nil {
			return err
		}
	}
	return nil
}

func (d *reportDriver) processExperiment(e Experiment) error {
	d.con.Event("%s start:", e.ID)

	exists, err := pathutil.DirExists(e.Path)
	if err != nil {
		return fmt.Errorf("experiment %s: %w", e.ID, err)
	}
	if !exists {
		return fmt.Errorf("experiment %s: directory does not exist: %s", e.ID, e.Path)
	}

	names, err := listDir(e.Path)
	if err != nil {
		return fmt.Errorf("experiment %s: %w", e.ID, err)
	}

	for _, name := range names {
		if !strings.Contains(name, d.cfg.SampleDirMatch) {
			continue
		}
		samplePath := filepath.Join(e.Path, name)
		if fi, err := os.Stat(samplePath); err != nil || !fi.IsDir() {
			continue
		}
		if err := d.processSample(e, name, samplePath); err != nil {
			return err
		}
	}
	return nil
}

func (d *reportDriver) processSample(e Experiment, barcode, samplePath string) error {
	d.con.Event("%s start", barcode)

	names, err := listDir(samplePath)
	if err != nil {
		return fmt.Errorf("experiment %s, sample %s: %w", e.ID, barcode, err)
	}

	for _, name := range names {
		if !strings.HasSuffix(name, d.cfg.ReadFileExt) {
			continue
		}
		if err := d.processFile(e, barcode, samplePath, name); err != nil {
			return err
		}
	}
	return nil
}

// processFile writes a row for every read with quality scores. Problems
// reading the file are reported and end the file early.
func (d *reportDriver) processFile(e Experiment, barcode, samplePath, name string) error {
	path := filepath.Join(samplePath, name)
	onErr := func(err error) {
		d.con.Error("Error processing file: %v", fmt.Errorf("%s: %w", path, err))
	}

	for read := range readFastq(path, onErr) {
		quality, ok := averageQuality(read.Quals)
		if !ok {
			continue
		}
		err := d.rows.Write(ReportRow{
			ReadID:       read.ID,
			ExperimentID: e.ID,
			Barcode:      barcode,
			Location:     d.locations.Label(e.ID, barcode),
			Fastq:        name,
			Length:       read.Length,
			Quality:      quality,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// listDir returns the entry names of a directory in natural order
func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	sort.Slice(names, func(i, j int) bool {
		return natural.Less(names[i], names[j])
	})
	return names, nil
}
