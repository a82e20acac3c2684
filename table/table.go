package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
	"golang.org/x/exp/slices"
	"golang.org/x/xerrors"
)

// DefaultHeaderRow is the zero-based row holding the column names in a
// Microsoft security release export. The rows above it are a banner.
const DefaultHeaderRow = 3

// Table is an ordered set of rows sharing one header. Every row is exactly
// as wide as Columns; a blank cell is "".
type Table struct {
	Columns []string
	Rows    [][]string
}

// Load reads the first sheet of an xlsx workbook, or a CSV file, from fs.
// The rows above headerRow are skipped.
func Load(fs afero.Fs, path string, headerRow int) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	var records [][]string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(f)
	case ".csv":
		records, err = readCSV(f)
	default:
		return nil, xerrors.Errorf("unsupported input format: %q", ext)
	}
	if err != nil {
		return nil, xerrors.Errorf("failed to read %s: %w", path, err)
	}

	return New(records, headerRow)
}

func readWorkbook(r io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, xerrors.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, xerrors.New("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, xerrors.Errorf("failed to get rows of %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, xerrors.Errorf("failed to parse CSV: %w", err)
	}
	return records, nil
}

// New builds a table from raw records using records[headerRow] as the
// header. Blank header cells are named "Unnamed: <i>". Entirely blank data
// rows are dropped and short rows are padded.
func New(records [][]string, headerRow int) (*Table, error) {
	if headerRow < 0 || headerRow >= len(records) {
		return nil, xerrors.Errorf("header row %d not found: %d rows", headerRow, len(records))
	}

	header := records[headerRow]
	width := len(header)
	var data [][]string
	for _, r := range records[headerRow+1:] {
		if lo.EveryBy(r, isBlank) {
			continue
		}
		data = append(data, r)
		width = max(width, len(r))
	}

	t := &Table{Columns: make([]string, width)}
	for i := range t.Columns {
		if i < len(header) && header[i] != "" {
			t.Columns[i] = header[i]
			continue
		}
		t.Columns[i] = fmt.Sprintf("Unnamed: %d", i)
	}

	for _, r := range data {
		row := make([]string, width)
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isBlank(s string) bool {
	return s == ""
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	return slices.Index(t.Columns, name)
}

// Require fails if any of the named columns is missing.
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if t.Index(name) < 0 {
			return xerrors.Errorf("%q column not found", name)
		}
	}
	return nil
}

// AddColumn appends a blank column and returns its index. An existing
// column is left untouched.
func (t *Table) AddColumn(name string) int {
	if i := t.Index(name); i >= 0 {
		return i
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	return len(t.Columns) - 1
}

// Get returns the cell at row in the named column, or "" if the column does
// not exist.
func (t *Table) Get(row int, name string) string {
	i := t.Index(name)
	if i < 0 {
		return ""
	}
	return t.Rows[row][i]
}

// Set writes a cell, adding the column first if needed.
func (t *Table) Set(row int, name, value string) {
	t.Rows[row][t.AddColumn(name)] = value
}

// ForwardFill replaces every blank cell with the nearest non-blank value
// above it in the same column.
func (t *Table) ForwardFill() {
	for col := range t.Columns {
		var last string
		for _, row := range t.Rows {
			if row[col] == "" {
				row[col] = last
				continue
			}
			last = row[col]
		}
	}
}
