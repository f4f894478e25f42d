// Package exporter writes the missing-stations report to its two artifact
// formats: a single-sheet xlsx workbook and a CSV file. Zero rows is not an
// error; the artifact then carries the header row only.
package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"stationrecon/internal/report"
	"stationrecon/pkg/contracts/domain"
)

// SheetName is the single sheet of the missing-stations workbook.
const SheetName = "Missing Stations"

// ExcelWriter renders missing-station rows as an xlsx workbook.
type ExcelWriter struct{}

// NewExcelWriter creates a new Excel writer instance.
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

// WriteMissingStations streams the workbook to w: a fixed header row followed
// by one row per station, in the order given.
func (e *ExcelWriter) WriteMissingStations(rows []domain.MissingStationRow, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(report.ExportHeaders))
	for i, h := range report.ExportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		cells := report.RowCells(row)
		values := make([]any, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(SheetName, axis, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveMissingStations writes the workbook to a file, creating the parent
// directory when needed.
func (e *ExcelWriter) SaveMissingStations(rows []domain.MissingStationRow, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	slog.Info("writing missing-stations workbook",
		slog.String("path", path),
		slog.Int("row_count", len(rows)))

	return e.WriteMissingStations(rows, file)
}
