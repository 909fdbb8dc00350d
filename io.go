// I/O utilities: lazy FASTQ read source and the report sink

package main

import (
	"fmt"
	"io"
	"iter"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

// Read holds the parts of a FASTQ record that end up in the report
type Read struct {
	ID     string
	Length int
	Quals  []int
}

func newRead(record *fastx.Record) Read {
	return Read{
		ID:     string(record.ID),
		Length: len(record.Seq.Seq),
		Quals:  decodeQuals(record.Seq.Qual),
	}
}

// readFastq returns a lazy sequence of reads from a FASTQ file.
//
// Any error while opening or parsing the file is handed to onErr and ends
// the sequence. To the caller, a truncated file looks exactly like one that
// was read to the end. The underlying reader is closed when the sequence
// ends or when the caller stops ranging over it.
func readFastq(path string, onErr func(error)) iter.Seq[Read] {
	return func(yield func(Read) bool) {
		reader, err := fastx.NewReader(seq.Unlimit, path, fastx.DefaultIDRegexp)
		if err != nil {
			onErr(err)
			return
		}
		defer reader.Close()

		for {
			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				onErr(err)
				return
			}
			if !yield(newRead(record)) {
				return
			}
		}
	}
}

// zstdSink writes a zstd stream straight to a file at a chosen level
type zstdSink struct {
	enc  *zstd.Encoder
	file *os.File
}

func (s *zstdSink) Write(p []byte) (int, error) { return s.enc.Write(p) }

func (s *zstdSink) Close() error {
	err := s.enc.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// openReportSink opens the report for writing, truncating any existing file.
// With level > 0 and a ".zst" path the output is zstd-compressed at that
// level; otherwise xopen picks the format from the file suffix ("-" is stdout).
func openReportSink(path string, level int) (io.WriteCloser, error) {
	if level > 0 && strings.HasSuffix(path, ".zst") {
		fh, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		enc, err := zstd.NewWriter(fh, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		if err != nil {
			fh.Close()
			return nil, fmt.Errorf("error creating ZSTD encoder: %w", err)
		}
		return &zstdSink{enc: enc, file: fh}, nil
	}
	outfh, err := xopen.Wopen(path)
	if err != nil {
		return nil, err
	}
	return outfh, nil
}

// ReportHeader is the first line of every report
var ReportHeader = []string{
	"Read_ID",
	"Experiment_ID",
	"Samples(Barcodes)",
	"Location",
	"Fastq",
	"Read_length",
	"Read_quality",
}

// ReportRow is one line of the report, describing a single read
type ReportRow struct {
	ReadID       string
	ExperimentID string
	Barcode      string
	Location     string
	Fastq        string
	Length       int
	Quality      float64
}

// reportWriter appends tab-separated rows to the report sink
type reportWriter struct {
	w io.Writer
}

func newReportWriter(w io.Writer) (*reportWriter, error) {
	rw := &reportWriter{w: w}
	if _, err := fmt.Fprintln(w, strings.Join(ReportHeader, "\t")); err != nil {
		return nil, fmt.Errorf("error writing report header: %w", err)
	}
	return rw, nil
}

func (rw *reportWriter) Write(row ReportRow) error {
	_, err := fmt.Fprintf(rw.w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
		row.ReadID,
		row.ExperimentID,
		row.Barcode,
		row.Location,
		row.Fastq,
		row.Length,
		formatQuality(row.Quality),
	)
	if err != nil {
		return fmt.Errorf("error writing report row for %s: %w", row.ReadID, err)
	}
	return nil
}

// formatQuality renders a quality value in its shortest exact decimal form,
// keeping a ".0" on whole numbers
func formatQuality(q float64) string {
	s := strconv.FormatFloat(q, 'f', -1, 64)
	if math.IsInf(q, 0) || math.IsNaN(q) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
