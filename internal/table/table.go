// Package table defines the tabular input contract consumed by the parsers:
// an ordered header row plus rows of cells aligned to it. Readers are provided
// for the two upload formats (xlsx via excelize, csv).
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is one sheet of tabular data. Rows may be shorter than Headers;
// Cell pads missing trailing cells with the empty string.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value at (row, col), blank when the row is short.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Column returns every cell of one column in row order.
func (t *Table) Column(col int) []string {
	values := make([]string, len(t.Rows))
	for i := range t.Rows {
		values[i] = t.Cell(i, col)
	}
	return values
}

// Empty reports whether the table holds no data rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// ReadWorkbook reads the first sheet that contains data from an .xlsx stream.
// The first non-empty row becomes the header; fully blank rows are dropped.
func ReadWorkbook(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		if tbl := fromRows(rows); tbl != nil {
			return tbl, nil
		}
	}
	return nil, fmt.Errorf("workbook contains no data sheet")
}

// ReadCSV reads CSV data into a Table. A UTF-8 BOM is stripped and ragged
// rows are tolerated.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	tbl := fromRows(rows)
	if tbl == nil {
		return nil, fmt.Errorf("csv contains no data rows")
	}
	return tbl, nil
}

// fromRows picks the first non-empty row as the header and keeps every
// following row that has at least one non-blank cell. Returns nil when no
// header row exists.
func fromRows(rows [][]string) *Table {
	headerIdx := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil
	}

	tbl := &Table{Headers: rows[headerIdx]}
	for _, row := range rows[headerIdx+1:] {
		if blankRow(row) {
			continue
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
