// Package mapping loads the code to product number table from a
// spreadsheet, CSV or Parquet file.
package mapping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrFileNotFound reports that the mapping path is not an existing file.
	ErrFileNotFound = errors.New("mapping file not found")
	// ErrFormat reports that the mapping file could not be read as a table
	// holding the designated columns.
	ErrFormat = errors.New("malformed mapping file")
)

// Options selects where the code and product number live in the table.
type Options struct {
	Sheet         string // Worksheet name; empty selects the first sheet.
	CodeColumn    int    // 1-indexed.
	ProductColumn int    // 1-indexed.
	HeaderRows    int    // Leading rows to skip (spreadsheet and CSV only).
}

// Loader reads a mapping file
type Loader struct {
	path string
	opts Options
}

// NewLoader creates a loader for path
func NewLoader(path string, opts Options) *Loader {
	return &Loader{
		path: path,
		opts: opts,
	}
}

// Load reads the whole file and builds the table. The format is chosen by
// file extension.
func (l *Loader) Load() (*Table, error) {
	info, err := os.Stat(l.path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, l.path)
	}

	ext := strings.ToLower(filepath.Ext(l.path))

	var (
		rows  [][]string
		width int
	)
	switch ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		rows, err = l.readSpreadsheet()
		width = widest(rows)
		rows = skipRows(rows, l.opts.HeaderRows)
	case ".csv":
		rows, err = l.readCSV()
		width = widest(rows)
		rows = skipRows(rows, l.opts.HeaderRows)
	case ".parquet":
		rows, width, err = l.readParquet(info.Size())
	default:
		return nil, fmt.Errorf("%w: unsupported file format %q (supported: .xlsx, .csv, .parquet)", ErrFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	if width < l.requiredWidth() {
		return nil, fmt.Errorf("%w: table has %d columns, need %d", ErrFormat, width, l.requiredWidth())
	}

	table := l.build(rows)
	slog.Debug("Loaded mapping", "path", l.path, "rows", len(rows), "codes", table.Len())
	return table, nil
}

// readSpreadsheet returns the cell text of every row of the selected sheet.
func (l *Loader) readSpreadsheet() ([][]string, error) {
	slog.Debug("Opening spreadsheet", "path", l.path, "sheet", l.opts.Sheet)

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open spreadsheet: %v", ErrFormat, err)
	}
	defer f.Close()

	sheet := l.opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("%w: spreadsheet has no sheets", ErrFormat)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", ErrFormat, sheet, err)
	}
	return rows, nil
}

// readCSV returns every record of a CSV file. Records may differ in width.
func (l *Loader) readCSV() ([][]string, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse CSV: %v", ErrFormat, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// readParquet returns every row of a Parquet file, one cell per leaf column
// in schema order. Null cells are empty strings.
func (l *Loader) readParquet(size int64) ([][]string, int, error) {
	slog.Debug("Opening Parquet file", "path", l.path, "size_bytes", size)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	pf, err := parquet.OpenFile(file, size)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to open parquet: %v", ErrFormat, err)
	}

	width := len(pf.Schema().Columns())
	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()), "columns", width)

	var out [][]string
	buf := make([]parquet.Row, 128)

	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				out = append(out, parquetCells(row, width))
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				rows.Close()
				return nil, 0, fmt.Errorf("%w: failed to read parquet rows: %v", ErrFormat, err)
			}
		}
		rows.Close()
	}

	return out, width, nil
}

func parquetCells(row parquet.Row, width int) []string {
	cells := make([]string, width)
	for _, v := range row {
		c := v.Column()
		if c < 0 || c >= width || v.IsNull() {
			continue
		}
		cells[c] = parquetText(v)
	}
	return cells
}

func parquetText(v parquet.Value) string {
	switch v.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	default:
		return ""
	}
}

// requiredWidth is the column count a table needs to hold both designated
// columns. Invalid column numbers make every table too narrow.
func (l *Loader) requiredWidth() int {
	if l.opts.CodeColumn < 1 || l.opts.ProductColumn < 1 {
		return math.MaxInt
	}
	return max(l.opts.CodeColumn, l.opts.ProductColumn)
}

func widest(rows [][]string) int {
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	return w
}

// build turns rows into a table. Missing cells read as empty; rows without
// a code are ignored.
func (l *Loader) build(rows [][]string) *Table {
	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		code := cell(r, l.opts.CodeColumn)
		if code == "" {
			continue
		}
		entries = append(entries, Entry{Code: code, ProductNo: cell(r, l.opts.ProductColumn)})
	}
	return NewTable(entries...)
}

func cell(row []string, col int) string {
	if col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

func skipRows(rows [][]string, n int) [][]string {
	if n <= 0 {
		return rows
	}
	if n >= len(rows) {
		return nil
	}
	return rows[n:]
}
