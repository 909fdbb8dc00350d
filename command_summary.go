// Subcommand (`readqual summary`) for per-location statistics of a finished report

package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/maruel/natural"
	"github.com/montanaflynn/stats"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

// reportRecord is a report row as read back from disk
type reportRecord struct {
	ReadID       string  `csv:"Read_ID"`
	ExperimentID string  `csv:"Experiment_ID"`
	Barcode      string  `csv:"Samples(Barcodes)"`
	Location     string  `csv:"Location"`
	Fastq        string  `csv:"Fastq"`
	Length       int     `csv:"Read_length"`
	Quality      float64 `csv:"Read_quality"`
}

// GroupSummary holds read statistics of one experiment/location pair
type GroupSummary struct {
	ExperimentID  string
	Location      string
	Reads         int
	Bases         int
	MeanLength    float64
	MedianLength  float64
	MinLength     float64
	MaxLength     float64
	MeanQuality   float64
	MedianQuality float64
}

var summaryHeader = []string{
	"Experiment_ID",
	"Location",
	"Reads",
	"Bases",
	"Mean_length",
	"Median_length",
	"Min_length",
	"Max_length",
	"Mean_quality",
	"Median_quality",
}

// SummaryCommand creates the `summary` subcommand
func SummaryCommand() *cobra.Command {
	var (
		inFile  string
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarise a report by experiment and sampling location",
		Long: `Read a report produced by 'readqual report' and print, for every experiment and
sampling location, the number of reads and bases together with read length and
average quality statistics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(inFile, outFile)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&inFile, "in", "i", DEFAULT_OUTPUT, "Input report file (use - for stdin)")
	flags.StringVarP(&outFile, "out", "o", "-", "Output summary file (default: stdout)")

	return cmd
}

func runSummary(inFile, outFile string) error {
	infh, err := xopen.Ropen(inFile)
	if err != nil {
		return fmt.Errorf("error opening report: %w", err)
	}
	defer infh.Close()

	records, err := readReport(infh)
	if err != nil {
		return err
	}

	summaries, err := summarizeReport(records)
	if err != nil {
		return err
	}

	outfh, err := xopen.Wopen(outFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := writeSummary(outfh, summaries); err != nil {
		outfh.Close()
		return err
	}
	return outfh.Close()
}

func init() {
	// Reports are tab-separated
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		reader := csv.NewReader(in)
		reader.Comma = '\t'
		reader.LazyQuotes = true
		return reader
	})
}

// readReport decodes a tab-separated report. An empty input has no records.
func readReport(r io.Reader) ([]reportRecord, error) {
	br := bufio.NewReader(r)

	var records []reportRecord
	if _, err := br.Peek(1); err != nil {
		if err == io.EOF {
			return records, nil
		}
		return nil, fmt.Errorf("error reading report: %w", err)
	}
	if err := gocsv.Unmarshal(br, &records); err != nil {
		return nil, fmt.Errorf("error parsing report: %w", err)
	}
	return records, nil
}

type groupKey struct {
	experiment string
	location   string
}

// summarizeReport groups records by experiment and location, ordering
// groups naturally by experiment first
func summarizeReport(records []reportRecord) ([]GroupSummary, error) {
	lengths := make(map[groupKey][]int)
	quals := make(map[groupKey][]float64)
	var keys []groupKey

	for _, rec := range records {
		k := groupKey{experiment: rec.ExperimentID, location: rec.Location}
		if _, seen := lengths[k]; !seen {
			keys = append(keys, k)
		}
		lengths[k] = append(lengths[k], rec.Length)
		quals[k] = append(quals[k], rec.Quality)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].experiment != keys[j].experiment {
			return natural.Less(keys[i].experiment, keys[j].experiment)
		}
		return natural.Less(keys[i].location, keys[j].location)
	})

	summaries := make([]GroupSummary, 0, len(keys))
	for _, k := range keys {
		s, err := summarizeGroup(k, lengths[k], quals[k])
		if err != nil {
			return nil, fmt.Errorf("summarising %s/%s: %w", k.experiment, k.location, err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func summarizeGroup(k groupKey, lengths []int, quals []float64) (GroupSummary, error) {
	s := GroupSummary{
		ExperimentID: k.experiment,
		Location:     k.location,
		Reads:        len(lengths),
	}
	for _, l := range lengths {
		s.Bases += l
	}

	lengthData := stats.LoadRawData(lengths)
	qualData := stats.Float64Data(quals)

	var err error
	if s.MeanLength, err = stats.Mean(lengthData); err != nil {
		return s, err
	}
	if s.MedianLength, err = stats.Median(lengthData); err != nil {
		return s, err
	}
	if s.MinLength, err = stats.Min(lengthData); err != nil {
		return s, err
	}
	if s.MaxLength, err = stats.Max(lengthData); err != nil {
		return s, err
	}
	if s.MeanQuality, err = stats.Mean(qualData); err != nil {
		return s, err
	}
	if s.MedianQuality, err = stats.Median(qualData); err != nil {
		return s, err
	}
	return s, nil
}

func writeSummary(w io.Writer, summaries []GroupSummary) error {
	if _, err := fmt.Fprintln(w, strings.Join(summaryHeader, "\t")); err != nil {
		return err
	}
	for _, s := range summaries {
		_, err := fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%.1f\t%.0f\t%.0f\t%.4f\t%.4f\n",
			s.ExperimentID,
			s.Location,
			s.Reads,
			s.Bases,
			s.MeanLength,
			s.MedianLength,
			s.MinLength,
			s.MaxLength,
			s.MeanQuality,
			s.MedianQuality,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
