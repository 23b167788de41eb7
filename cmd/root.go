package cmd

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/imagebatch/imagebatch/internal/batch"
	"github.com/imagebatch/imagebatch/internal/logging"
	"github.com/imagebatch/imagebatch/internal/report"
)

func NewRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "imagebatch",
		Short: "Resize and rename product photos by directory code",
		Long: `Imagebatch prepares product photography for upload.

Every subdirectory of --root named with exactly four digits is a product
code. Its images are cropped to 1050x1400 (portrait) or 1400x1050
(landscape), renamed to <product number>_<NNN><ext> using the mapping file,
and written to a subfolder of the code directory. Source files are never
modified.`,
		Example: `  # Process every code directory under ./photos
  imagebatch --root ./photos --mapping ./stock.xlsx

  # Write into "web" instead of "resize" and keep a YAML record of the run
  imagebatch -r ./photos -m ./stock.xlsx --output-subdir web --report run.yaml

  # Check what would be written without touching anything
  imagebatch -r ./photos -m ./stock.xlsx --dry-run`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			logging.Setup(cmd.ErrOrStderr(), opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			if err := checkRoot(cfg); err != nil {
				return err
			}

			table, err := loadMapping(cfg)
			if err != nil {
				return err
			}
			slog.Debug("Starting batch", "root", cfg.Root, "mapping", cfg.MappingPath, "codes", table.Len(), "dry_run", cfg.DryRun)

			runner := batch.NewRunner(cfg, table)
			runner.Out = cmd.OutOrStdout()
			runner.Err = cmd.ErrOrStderr()

			summary, runErr := runner.Run(cmd.Context())

			if cfg.ReportPath != "" {
				if err := report.Write(cfg.ReportPath, cfg, summary); err != nil {
					slog.Warn("Unable to write run report", "path", cfg.ReportPath, "err", err)
				} else {
					slog.Info("Run report saved", "path", cfg.ReportPath)
				}
			}

			return runErr
		},
	}

	opts.bindPersistent(cmd)
	cmd.Flags().StringVarP(&opts.root, "root", "r", "", "Working directory containing code subdirectories")
	cmd.Flags().StringVar(&opts.outputSubdir, "output-subdir", "resize", "Name of the per-directory output folder")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Write a YAML summary of the run to this file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "List planned outputs without writing files")

	// Add subcommands
	cmd.AddCommand(newMappingCmd(&opts))

	return cmd
}
