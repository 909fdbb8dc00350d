package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Helper function to create test FASTX records
func createTestRecord(name string, sequence string, quality string) *fastx.Record {
	return &fastx.Record{
		ID:   []byte(strings.Fields(name)[0]),
		Name: []byte(name),
		Seq: &seq.Seq{
			Seq:  []byte(sequence),
			Qual: []byte(quality),
		},
	}
}

// writeTestFile creates a file with the given content inside dir
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewRead(t *testing.T) {
	got := newRead(createTestRecord("read1 runid=abc ch=7", "ACGTA", "!+5?I"))
	want := Read{ID: "read1", Length: 5, Quals: []int{0, 10, 20, 30, 40}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("newRead() = %+v, want %+v", got, want)
	}
}

func TestReadFastq(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "reads.fastq",
		"@read1 runid=abc\nACGT\n+\nIIII\n"+
			"@read2\nACG\n+\n?5?\n"+
			"@read3\nACGTAC\n+\n!!!!!!\n")

	var errs []error
	var got []Read
	for read := range readFastq(path, func(err error) { errs = append(errs, err) }) {
		got = append(got, read)
	}

	want := []Read{
		{ID: "read1", Length: 4, Quals: []int{40, 40, 40, 40}},
		{ID: "read2", Length: 3, Quals: []int{30, 20, 30}},
		{ID: "read3", Length: 6, Quals: []int{0, 0, 0, 0, 0, 0}},
	}
	if len(errs) != 0 {
		t.Fatalf("readFastq() reported errors: %v", errs)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("readFastq() = %+v, want %+v", got, want)
	}
}

func TestReadFastqStopsEarly(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "reads.fastq",
		"@read1\nACGT\n+\nIIII\n@read2\nACGT\n+\nIIII\n")

	var ids []string
	for read := range readFastq(path, func(err error) { t.Errorf("unexpected error: %v", err) }) {
		ids = append(ids, read.ID)
		break
	}
	if !reflect.DeepEqual(ids, []string{"read1"}) {
		t.Errorf("got reads %v, want [read1]", ids)
	}
}

func TestReadFastqErrorsEndSequence(t *testing.T) {
	dir := t.TempDir()
	truncated := writeTestFile(t, dir, "truncated.fastq", "@a\nACG\n+\nIII\n@b\nACG\n+\n")

	tests := []struct {
		name    string
		path    string
		wantIDs []string
	}{
		{"Missing file", filepath.Join(dir, "missing.fastq"), nil},
		{"Directory", func() string {
			p := filepath.Join(dir, "folder.fastq")
			if err := os.Mkdir(p, 0755); err != nil {
				t.Fatal(err)
			}
			return p
		}(), nil},
		{"Truncated after first read", truncated, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errs []error
			var ids []string
			for read := range readFastq(tt.path, func(err error) { errs = append(errs, err) }) {
				ids = append(ids, read.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("got reads %v, want %v", ids, tt.wantIDs)
			}
			if len(errs) != 1 {
				t.Errorf("got %d errors, want 1: %v", len(errs), errs)
			}
		})
	}
}

// Sequence letters are not checked, only counted
func TestReadFastqAnyLetters(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "rna.fastq", "@r1\nacgu\n+\nIIII\n@r2\nXJZB\n+\n5555\n")

	var got []Read
	for read := range readFastq(path, func(err error) { t.Errorf("unexpected error: %v", err) }) {
		got = append(got, read)
	}
	want := []Read{
		{ID: "r1", Length: 4, Quals: []int{40, 40, 40, 40}},
		{ID: "r2", Length: 4, Quals: []int{20, 20, 20, 20}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("readFastq() = %+v, want %+v", got, want)
	}
}

func TestReportWriter(t *testing.T) {
	var buf bytes.Buffer
	rw, err := newReportWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}

	rows := []ReportRow{
		{"read1", "LB_1", "barcode01", "NHM 0m", "chunk_0.fastq", 4, 40},
		{"read2", "LC_3", "barcode12", "Trafalgar Square", "chunk_1.fastq", 3, 14.25},
	}
	for _, row := range rows {
		if err := rw.Write(row); err != nil {
			t.Fatal(err)
		}
	}

	want := "Read_ID\tExperiment_ID\tSamples(Barcodes)\tLocation\tFastq\tRead_length\tRead_quality\n" +
		"read1\tLB_1\tbarcode01\tNHM 0m\tchunk_0.fastq\t4\t40.0\n" +
		"read2\tLC_3\tbarcode12\tTrafalgar Square\tchunk_1.fastq\t3\t14.25\n"
	if got := buf.String(); got != want {
		t.Errorf("report =\n%q\nwant\n%q", got, want)
	}
}

func TestOpenReportSink(t *testing.T) {
	dir := t.TempDir()
	content := "Read_ID\tExperiment_ID\nread1\tLB_1\n"

	tests := []struct {
		name  string
		file  string
		level int
		zstd  bool
	}{
		{"Plain text", "report.txt", 0, false},
		{"Plain text ignores level", "report.tsv", 5, false},
		{"ZSTD with level", "report.tsv.zst", 19, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)

			// existing content must be truncated
			if err := os.WriteFile(path, []byte(strings.Repeat("old\n", 100)), 0644); err != nil {
				t.Fatal(err)
			}

			sink, err := openReportSink(path, tt.level)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := io.WriteString(sink, content); err != nil {
				t.Fatal(err)
			}
			if err := sink.Close(); err != nil {
				t.Fatal(err)
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			got := raw
			if tt.zstd {
				dec, err := zstd.NewReader(bytes.NewReader(raw))
				if err != nil {
					t.Fatal(err)
				}
				defer dec.Close()
				if got, err = io.ReadAll(dec); err != nil {
					t.Fatal(err)
				}
			}
			if string(got) != content {
				t.Errorf("sink content = %q, want %q", got, content)
			}
		})
	}
}

func TestFormatQuality(t *testing.T) {
	tests := []struct {
		q    float64
		want string
	}{
		{30, "30.0"},
		{0, "0.0"},
		{14.25, "14.25"},
		{0.5, "0.5"},
		{12345678, "12345678.0"},
	}

	for _, tt := range tests {
		if got := formatQuality(tt.q); got != tt.want {
			t.Errorf("formatQuality(%v) = %q, want %q", tt.q, got, tt.want)
		}
	}
}
