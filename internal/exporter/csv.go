package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"stationrecon/internal/report"
	"stationrecon/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality.
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteMissingStationsCSV writes the missing-stations rows as CSV.
func (w *CSVWriter) WriteMissingStationsCSV(rows []domain.MissingStationRow, path string) error {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = report.RowCells(row)
	}
	return w.WriteCSV(path, report.ExportHeaders, records)
}

// WriteCSV writes headers and records to path, prefixed with a UTF-8 BOM so
// Excel opens the file correctly.
func (w *CSVWriter) WriteCSV(path string, headers []string, records [][]string) error {
	slog.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return writer.Error()
}
