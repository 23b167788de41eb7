// Package report writes a YAML record of a batch run.
package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imagebatch/imagebatch/internal/batch"
	"github.com/imagebatch/imagebatch/internal/config"
)

// RunConfig is the configuration section of the report
type RunConfig struct {
	Root         string   `yaml:"root"`
	Mapping      string   `yaml:"mapping"`
	OutputSubdir string   `yaml:"outputsubdir"`
	Vertical     string   `yaml:"vertical"`
	Horizontal   string   `yaml:"horizontal"`
	Extensions   []string `yaml:"extensions"`
	DryRun       bool     `yaml:"dryrun,omitempty"`
	Timestamp    string   `yaml:"timestamp"`
}

// Totals holds run counters
type Totals struct {
	Dirs         int `yaml:"dirs"`
	UnmappedDirs int `yaml:"unmappeddirs"`
	FailedDirs   int `yaml:"faileddirs"`
	Written      int `yaml:"written"`
	Failed       int `yaml:"failed"`
}

// FileEntry is one processed source file
type FileEntry struct {
	Source string `yaml:"source"`
	Output string `yaml:"output,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// DirEntry is one code directory
type DirEntry struct {
	Code      string      `yaml:"code"`
	ProductNo string      `yaml:"productno,omitempty"`
	Unmapped  bool        `yaml:"unmapped,omitempty"`
	Error     string      `yaml:"error,omitempty"`
	Files     []FileEntry `yaml:"files,omitempty"`
}

// Report is the complete document
type Report struct {
	Config  RunConfig  `yaml:"config"`
	Totals  Totals     `yaml:"totals"`
	Results []DirEntry `yaml:"results"`
}

// Build converts a run summary into a report.
func Build(cfg *config.Config, summary *batch.Summary, now time.Time) Report {
	r := Report{
		Config: RunConfig{
			Root:         cfg.Root,
			Mapping:      cfg.MappingPath,
			OutputSubdir: cfg.OutputSubdir,
			Vertical:     cfg.Vertical.String(),
			Horizontal:   cfg.Horizontal.String(),
			Extensions:   cfg.Extensions,
			DryRun:       cfg.DryRun,
			Timestamp:    now.Format("2006-01-02_15-04-05"),
		},
		Totals: Totals{
			Dirs:         summary.Dirs,
			UnmappedDirs: summary.UnmappedDirs,
			FailedDirs:   summary.FailedDirs,
			Written:      summary.Written,
			Failed:       summary.Failed,
		},
		Results: make([]DirEntry, 0, len(summary.Results)),
	}

	for _, d := range summary.Results {
		entry := DirEntry{
			Code:      d.Code,
			ProductNo: d.ProductNo,
			Unmapped:  d.Unmapped,
		}
		if d.Err != nil {
			entry.Error = d.Err.Error()
		}
		for _, f := range d.Files {
			fe := FileEntry{Source: f.Source, Output: f.Output}
			if f.Err != nil {
				fe.Error = f.Err.Error()
			}
			entry.Files = append(entry.Files, fe)
		}
		r.Results = append(r.Results, entry)
	}

	return r
}

// Write saves the report for summary to path.
func Write(path string, cfg *config.Config, summary *batch.Summary) error {
	data, err := yaml.Marshal(Build(cfg, summary, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}
