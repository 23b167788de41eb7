package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imagebatch/imagebatch/internal/config"
	"github.com/imagebatch/imagebatch/internal/mapping"
)

// ErrMissingRoot reports that --root does not name a directory.
var ErrMissingRoot = errors.New("root directory not found")

// options holds raw flag values. They are applied on top of the config file
// and environment only when set on the command line.
type options struct {
	configPath    string
	root          string
	mappingPath   string
	outputSubdir  string
	sheet         string
	codeColumn    int
	productColumn int
	headerRows    int
	reportPath    string
	dryRun        bool
	verbose       bool
}

// bindPersistent registers the flags shared by every command.
func (o *options) bindPersistent(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "YAML file with sizes, extensions and mapping layout")
	f.StringVarP(&o.mappingPath, "mapping", "m", "", "Code to product number mapping file (.xlsx, .csv or .parquet)")
	f.StringVar(&o.sheet, "sheet", "", "Worksheet to read (default: first sheet)")
	f.IntVar(&o.codeColumn, "code-column", defaults.CodeColumn, "1-indexed column holding the directory code")
	f.IntVar(&o.productColumn, "product-column", defaults.ProductColumn, "1-indexed column holding the product number")
	f.IntVar(&o.headerRows, "header-rows", defaults.HeaderRows, "Leading rows to skip in spreadsheet and CSV files")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Verbose logging")
}

// resolve builds the effective config: defaults, then the YAML file, then
// environment variables, then flags that were explicitly set.
func (o *options) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	config.ApplyEnv(&cfg)

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = o.root
	}
	if flags.Changed("mapping") {
		cfg.MappingPath = o.mappingPath
	}
	if flags.Changed("output-subdir") {
		cfg.OutputSubdir = o.outputSubdir
	}
	if flags.Changed("sheet") {
		cfg.Sheet = o.sheet
	}
	if flags.Changed("code-column") {
		cfg.CodeColumn = o.codeColumn
	}
	if flags.Changed("product-column") {
		cfg.ProductColumn = o.productColumn
	}
	if flags.Changed("header-rows") {
		cfg.HeaderRows = o.headerRows
	}
	cfg.ReportPath = o.reportPath
	cfg.DryRun = o.dryRun
	cfg.Verbose = o.verbose
	cfg.Extensions = config.NormalizeExtensions(cfg.Extensions)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadMapping reads the mapping table named by cfg.
func loadMapping(cfg *config.Config) (*mapping.Table, error) {
	if cfg.MappingPath == "" {
		return nil, fmt.Errorf("--mapping is required (or set %s)", config.EnvMapping)
	}
	loader := mapping.NewLoader(cfg.MappingPath, mapping.Options{
		Sheet:         cfg.Sheet,
		CodeColumn:    cfg.CodeColumn,
		ProductColumn: cfg.ProductColumn,
		HeaderRows:    cfg.HeaderRows,
	})
	return loader.Load()
}

// checkRoot fails unless cfg.Root is an existing directory.
func checkRoot(cfg *config.Config) error {
	if cfg.Root == "" {
		return fmt.Errorf("--root is required (or set %s)", config.EnvRoot)
	}
	fi, err := os.Stat(cfg.Root)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingRoot, cfg.Root)
	}
	return nil
}
