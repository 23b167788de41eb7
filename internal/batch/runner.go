package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/imagebatch/imagebatch/internal/config"
	"github.com/imagebatch/imagebatch/internal/mapping"
	"github.com/imagebatch/imagebatch/internal/output"
	"github.com/imagebatch/imagebatch/internal/scan"
)

// Runner processes code directories. Progress and the completion line go to
// Out; warnings and per-file errors go to Err.
type Runner struct {
	Table        *mapping.Table
	Scanner      *scan.Scanner
	Processor    Processor
	OutputSubdir string
	DryRun       bool

	Out io.Writer
	Err io.Writer
}

// NewRunner wires a runner for cfg writing to the process's stdout and stderr.
func NewRunner(cfg *config.Config, table *mapping.Table) *Runner {
	var p Processor = NewImageProcessor(cfg)
	if cfg.DryRun {
		p = DryRunProcessor{}
	}
	return &Runner{
		Table:        table,
		Scanner:      scan.New(cfg.Root, cfg.ExtensionSet()),
		Processor:    p,
		OutputSubdir: cfg.OutputSubdir,
		DryRun:       cfg.DryRun,
		Out:          os.Stdout,
		Err:          os.Stderr,
	}
}

// Run processes every code directory and prints the completion line. It
// returns an error only if the root cannot be read or ctx is cancelled;
// the summary covers whatever was processed.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	for dir, err := range r.Scanner.CodeDirs() {
		if err != nil {
			return summary, err
		}
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		summary.add(r.ProcessDir(ctx, dir))
	}
	if ctx.Err() != nil {
		return summary, ctx.Err()
	}

	slog.Debug("Batch finished",
		"dirs", summary.Dirs,
		"unmapped", summary.UnmappedDirs,
		"written", summary.Written,
		"failed", summary.Failed)

	fmt.Fprintln(r.Out, "Processing complete.")
	return summary, nil
}

// ProcessDir handles one code directory. The output counter lives here and
// only advances when a file is written.
func (r *Runner) ProcessDir(ctx context.Context, dir scan.CodeDir) DirResult {
	result := DirResult{Code: dir.Code}

	productNo, ok := r.Table.Lookup(dir.Code)
	if !ok {
		fmt.Fprintf(r.Err, "[WARN] code not found in mapping: %s\n", dir.Code)
		result.Unmapped = true
		return result
	}
	result.ProductNo = productNo

	outDir := filepath.Join(dir.Path, r.OutputSubdir)
	if !r.DryRun {
		if err := output.EnsureDir(outDir); err != nil {
			fmt.Fprintf(r.Err, "[ERROR] %s: %v\n", dir.Code, err)
			result.Err = err
			return result
		}
	}

	files, err := r.Scanner.Images(dir.Path)
	if err != nil {
		fmt.Fprintf(r.Err, "[ERROR] %s: %v\n", dir.Code, err)
		result.Err = err
		return result
	}

	slog.Debug("Processing directory", "code", dir.Code, "product_no", productNo, "files", len(files))

	counter := 1
	for _, src := range files {
		if ctx.Err() != nil {
			break
		}

		name := filepath.Base(src)
		outName := output.FileName(productNo, counter, filepath.Ext(src))

		if err := r.Processor.Process(src, filepath.Join(outDir, outName)); err != nil {
			fmt.Fprintf(r.Err, "[ERROR] %s/%s: processing failed: %v\n", dir.Code, name, err)
			result.Files = append(result.Files, FileResult{Source: name, Err: err})
			continue
		}

		fmt.Fprintf(r.Out, "%s/%s → %s/%s\n", dir.Code, name, r.OutputSubdir, outName)
		result.Files = append(result.Files, FileResult{Source: name, Output: outName})
		counter++
	}

	return result
}
