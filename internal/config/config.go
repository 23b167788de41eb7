// Package config holds runtime settings for a batch run: target sizes,
// accepted extensions, mapping column layout and output naming. Values start
// from DefaultConfig, may be overridden by a YAML file and finally by CLI
// flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Size is a pixel width and height.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Config holds all runtime settings.
type Config struct {
	// Paths (set from flags or environment).
	Root        string `yaml:"root,omitempty"`
	MappingPath string `yaml:"mapping,omitempty"`

	// Output naming.
	OutputSubdir string `yaml:"output_subdir"`

	// Target sizes. Vertical is used when the source is strictly taller than wide.
	Vertical   Size `yaml:"vertical"`
	Horizontal Size `yaml:"horizontal"`

	// Extensions lists accepted source extensions, lowercase with leading dot.
	Extensions []string `yaml:"extensions"`

	// Mapping layout. Columns are 1-indexed.
	Sheet         string `yaml:"sheet"`
	CodeColumn    int    `yaml:"code_column"`
	ProductColumn int    `yaml:"product_column"`
	HeaderRows    int    `yaml:"header_rows"`

	// Encoding.
	JPEGQuality int  `yaml:"jpeg_quality"`
	AutoOrient  bool `yaml:"auto_orient"`

	// Behavior flags (CLI only).
	DryRun     bool   `yaml:"-"`
	Verbose    bool   `yaml:"-"`
	ReportPath string `yaml:"-"`
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		OutputSubdir:  "resize",
		Vertical:      Size{Width: 1050, Height: 1400},
		Horizontal:    Size{Width: 1400, Height: 1050},
		Extensions:    []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"},
		CodeColumn:    6,
		ProductColumn: 7,
		HeaderRows:    1,
		JPEGQuality:   95,
	}
}

// Load reads a YAML file on top of DefaultConfig. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Extensions = NormalizeExtensions(cfg.Extensions)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// NormalizeExtensions lowercases entries and adds a missing leading dot.
// Empty entries and duplicates are dropped.
func NormalizeExtensions(exts []string) []string {
	seen := make(map[string]bool, len(exts))
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// ExtensionSet returns Extensions as a lookup set.
func (c *Config) ExtensionSet() map[string]bool {
	set := make(map[string]bool, len(c.Extensions))
	for _, e := range NormalizeExtensions(c.Extensions) {
		set[e] = true
	}
	return set
}

// Validate checks sizes, extensions, column layout and output naming.
// Paths are checked separately by the command since their errors are fatal
// with dedicated messages.
func (c *Config) Validate() error {
	if c.Vertical.Width <= 0 || c.Vertical.Height <= 0 {
		return fmt.Errorf("vertical size must be positive (got %s)", c.Vertical)
	}
	if c.Horizontal.Width <= 0 || c.Horizontal.Height <= 0 {
		return fmt.Errorf("horizontal size must be positive (got %s)", c.Horizontal)
	}
	if len(NormalizeExtensions(c.Extensions)) == 0 {
		return errors.New("at least one image extension is required")
	}

	sub := strings.TrimSpace(c.OutputSubdir)
	if sub == "" {
		return errors.New("output subdir must not be empty")
	}
	if sub == "." || sub == ".." || strings.ContainsAny(sub, `/\`) {
		return fmt.Errorf("output subdir must be a plain folder name (got %q)", c.OutputSubdir)
	}

	if c.CodeColumn < 1 || c.ProductColumn < 1 {
		return errors.New("mapping columns are 1-indexed and must be >= 1")
	}
	if c.CodeColumn == c.ProductColumn {
		return errors.New("code and product columns must differ")
	}
	if c.HeaderRows < 0 {
		return errors.New("header rows must not be negative")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be between 1 and 100 (got %d)", c.JPEGQuality)
	}
	return nil
}
