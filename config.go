package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/carbocation/pfx"
	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_OUTPUT    = "qualityInfo0801.txt"
	DEFAULT_DIR_MATCH = "barcode"
	DEFAULT_READ_EXT  = ".fastq"
)

// Experiment is one sequencing run: where its reads live and which
// sampling location each barcode stands for
type Experiment struct {
	ID       string            `yaml:"id"`
	Path     string            `yaml:"path"`
	Barcodes map[string]string `yaml:"barcodes,omitempty"`
}

// Config describes a complete report run. Experiments are processed in
// the order they are listed.
type Config struct {
	Output         string       `yaml:"output"`
	SampleDirMatch string       `yaml:"sample_dir_match"`
	ReadFileExt    string       `yaml:"read_file_ext"`
	Experiments    []Experiment `yaml:"experiments"`
}

// LocationMapping resolves (experiment, barcode) pairs to location labels.
// It is built once from a Config and never modified afterwards.
type LocationMapping struct {
	labels map[string]map[string]string
}

// NewLocationMapping copies the barcode tables out of the experiments
func NewLocationMapping(experiments []Experiment) *LocationMapping {
	labels := make(map[string]map[string]string, len(experiments))
	for _, e := range experiments {
		barcodes := make(map[string]string, len(e.Barcodes))
		for bc, loc := range e.Barcodes {
			barcodes[bc] = loc
		}
		labels[e.ID] = barcodes
	}
	return &LocationMapping{labels: labels}
}

// Label returns the location for a barcode, or the barcode itself when
// the experiment or the barcode has no entry
func (m *LocationMapping) Label(experimentID, barcode string) string {
	if loc, ok := m.labels[experimentID][barcode]; ok {
		return loc
	}
	return barcode
}

const sampleRoot = "/mnt/shared/projects/nhm/clark-student/LondonLocationSampling/"

// DefaultConfig returns the London air sampling runs
func DefaultConfig() *Config {
	return &Config{
		Output:         DEFAULT_OUTPUT,
		SampleDirMatch: DEFAULT_DIR_MATCH,
		ReadFileExt:    DEFAULT_READ_EXT,
		Experiments: []Experiment{
			{
				ID:   "LB_1",
				Path: sampleRoot + "London_part1/subsample/subbarcodes_marti/fastq_chunks/",
				Barcodes: map[string]string{
					"barcode01": "NHM 0m",
					"barcode02": "Vauxhall",
					"barcode03": "Pimlico",
					"barcode04": "Victoria",
					"barcode05": "St. James’s Park",
					"barcode06": "Water blank",
					"barcode07": "Regent’s Park",
				},
			},
			{
				ID:   "LB_2",
				Path: sampleRoot + "London_part2/subsample/subbarcodes_marti/fastq_chunks/",
				Barcodes: map[string]string{
					"barcode01": "St. Mary’s Hospital",
					"barcode02": "Marylebone",
					"barcode03": "Piccadilly",
					"barcode04": "Trafalgar Square",
					"barcode05": "Embankment",
					"barcode06": "Monument",
					"barcode07": "Liverpool Street",
				},
			},
			{
				ID:   "LC_1",
				Path: sampleRoot + "DARPA_LonCol_Pool1_12092019/subsample/subbarcodes_marti/fastq_chunks/",
				Barcodes: map[string]string{
					"barcode01": "NHM 30m",
					"barcode02": "NHM 15m",
					"barcode03": "NHM 0m",
					"barcode04": "Vauxhall",
					"barcode05": "Pimlico",
				},
			},
			{
				ID:   "LC_2",
				Path: sampleRoot + "DARPA_LonCol_Pool2_12092019/subsample/subbarcodes_marti/fastq_chunks/",
				Barcodes: map[string]string{
					"barcode06": "Victoria",
					"barcode07": "St. James’s Park",
					"barcode08": "Regent’s Park",
					"barcode09": "St. Mary’s Hospital",
					"barcode10": "Marylebone",
				},
			},
			{
				ID:   "LC_3",
				Path: sampleRoot + "DARPA_LonCol_Pool3_12092019/subsample/subbarcodes_marti/fastq_chunks/",
				Barcodes: map[string]string{
					"barcode11": "Piccadilly",
					"barcode12": "Trafalgar Square",
					"barcode01": "Embankment",
					"barcode02": "Monument",
					"barcode03": "Liverpool Street",
				},
			},
		},
	}
}

// LoadConfig reads a YAML run configuration. Scalar fields left out of
// the file keep their defaults; the experiment list is taken as given,
// with surrounding spaces stripped from the ids.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	return parseConfig(f)
}

func parseConfig(r io.Reader) (*Config, error) {
	def := DefaultConfig()
	cfg := &Config{
		Output:         def.Output,
		SampleDirMatch: def.SampleDirMatch,
		ReadFileExt:    def.ReadFileExt,
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, pfx.Err(fmt.Errorf("invalid config: %w", err))
	}
	for i := range cfg.Experiments {
		cfg.Experiments[i].ID = strings.TrimSpace(cfg.Experiments[i].ID)
	}

	if err := cfg.Validate(); err != nil {
		return nil, pfx.Err(err)
	}
	return cfg, nil
}

// Validate checks that every experiment can be addressed unambiguously
func (c *Config) Validate() error {
	if len(c.Experiments) == 0 {
		return fmt.Errorf("no experiments configured")
	}
	if c.Output == "" {
		return fmt.Errorf("output path is empty")
	}
	seen := make(map[string]bool, len(c.Experiments))
	for i, e := range c.Experiments {
		id := e.ID
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("experiment %d has no id", i+1)
		}
		if seen[id] {
			return fmt.Errorf("duplicate experiment id: %s", id)
		}
		seen[id] = true
		if e.Path == "" {
			return fmt.Errorf("experiment %s has no path", id)
		}
	}
	return nil
}

// WriteYAML dumps the configuration in the schema LoadConfig accepts
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return pfx.Err(err)
	}
	return pfx.Err(enc.Close())
}
