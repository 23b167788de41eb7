package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/imagebatch/imagebatch/internal/mapping"
)

func newMappingCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Print the code to product number table",
		Long: `Loads the mapping file exactly as a batch run would and prints the
resulting table sorted by code. Duplicate codes show the value from the
last row.`,
		Example: `  # Show the table read from the first sheet
  imagebatch mapping --mapping ./stock.xlsx

  # Export it as CSV
  imagebatch mapping -m ./stock.xlsx --format csv > codes.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			table, err := loadMapping(cfg)
			if err != nil {
				return err
			}
			return printMapping(cmd.OutOrStdout(), table, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, yaml or csv")

	return cmd
}

func printMapping(w io.Writer, table *mapping.Table, format string) error {
	entries := table.Entries()

	switch format {
	case "text":
		for _, e := range entries {
			product := e.ProductNo
			if product == "" {
				product = "(empty)"
			}
			fmt.Fprintf(w, "%s\t%s\n", e.Code, product)
		}
		fmt.Fprintf(w, "%d codes\n", len(entries))
		return nil
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(entries)
	case "csv":
		writer := csv.NewWriter(w)
		if err := writer.Write([]string{"code", "product_no"}); err != nil {
			return err
		}
		for _, e := range entries {
			if err := writer.Write([]string{e.Code, e.ProductNo}); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
