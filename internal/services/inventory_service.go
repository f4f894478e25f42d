// Package services implements the application operations behind the HTTP and
// CLI surfaces: uploads, comparison, missing-stations reporting and session
// lifecycle.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"stationrecon/internal/compare"
	"stationrecon/internal/config"
	"stationrecon/internal/exporter"
	"stationrecon/internal/infrastructure"
	"stationrecon/internal/parser"
	"stationrecon/internal/report"
	"stationrecon/internal/session"
	"stationrecon/internal/table"
	"stationrecon/internal/validation"
	"stationrecon/pkg/contracts"
	"stationrecon/pkg/contracts/domain"
)

// InventoryService owns the upload-parse-store-compare pipeline.
type InventoryService struct {
	store     *session.Store
	paths     *config.PathsConfig
	validator *validation.FileValidator
	excel     *exporter.ExcelWriter
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewInventoryService creates the inventory service. metrics may be nil when
// telemetry is disabled.
func NewInventoryService(store *session.Store, paths *config.PathsConfig, maxFileSize int64, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *InventoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryService{
		store:     store,
		paths:     paths,
		validator: validation.NewFileValidator(maxFileSize),
		excel:     exporter.NewExcelWriter(),
		metrics:   metrics,
		logger:    logger,
	}
}

// Upload validates, parses and stores one spreadsheet into its session slot.
// The asset_inventory slot runs the station-centric parser, the hydex slot the
// asset-centric one. A successful upload replaces the slot wholesale.
func (s *InventoryService) Upload(ctx context.Context, source domain.Source, filename string, size int64, r io.Reader) (*domain.Inventory, error) {
	if !source.Valid() {
		return nil, ErrInvalidSource
	}
	if result := s.validator.Validate(filename, size); !result.Valid {
		s.countUpload(ctx, source, "rejected")
		return nil, &UploadValidationError{Reason: result.Error()}
	}

	tbl, err := s.readTable(filename, r)
	if err != nil {
		s.countUpload(ctx, source, "unreadable")
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	start := time.Now()
	inv, err := s.parse(source, tbl)
	if s.metrics != nil {
		s.metrics.ParseDuration.Record(ctx, time.Since(start).Seconds(), infrastructure.SourceAttr(string(source)))
	}
	if err != nil {
		s.countUpload(ctx, source, "schema_error")
		s.logger.WarnContext(ctx, "upload failed to parse",
			slog.String("source", string(source)),
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.store.Put(inv)
	s.persistSnapshot(ctx, inv)
	s.countUpload(ctx, source, "success")
	if s.metrics != nil {
		s.metrics.StationsParsed.Add(ctx, int64(len(inv.Stations)), infrastructure.SourceAttr(string(source)))
		if skipped := len(tbl.Rows) - len(inv.Stations); skipped > 0 && source == domain.SourceAssetInventory {
			s.metrics.RowsSkippedTotal.Add(ctx, int64(skipped), infrastructure.SourceAttr(string(source)))
		}
	}

	s.logger.InfoContext(ctx, "inventory uploaded",
		slog.String("source", string(source)),
		slog.String("filename", filename),
		slog.Int("stations", len(inv.Stations)))

	return inv, nil
}

// Inventory returns the stored inventory for one source.
func (s *InventoryService) Inventory(ctx context.Context, source domain.Source) (*domain.Inventory, error) {
	if !source.Valid() {
		return nil, ErrInvalidSource
	}
	inv := s.store.Get(source)
	if inv == nil {
		return nil, ErrInventoryNotFound
	}
	return inv, nil
}

// Compare diffs asset presence across the stations both sources know. Both
// slots must be populated.
func (s *InventoryService) Compare(ctx context.Context) (*domain.ComparisonResult, error) {
	assetInv, hydex := s.store.Snapshot()
	if assetInv == nil || hydex == nil {
		return nil, ErrSessionIncomplete
	}

	result := compare.Compare(assetInv, hydex)
	if s.metrics != nil {
		s.metrics.ComparisonsTotal.Add(ctx, 1)
	}
	s.logger.InfoContext(ctx, "comparison computed",
		slog.Int("stations_compared", result.Summary.StationsCompared),
		slog.Int("with_discrepancies", result.Summary.StationsWithDiscrepancies))
	return result, nil
}

// MissingStations lists hydex stations absent from the asset inventory. Both
// slots must be populated.
func (s *InventoryService) MissingStations(ctx context.Context) ([]domain.MissingStationRow, error) {
	assetInv, hydex := s.store.Snapshot()
	if assetInv == nil || hydex == nil {
		return nil, ErrSessionIncomplete
	}
	return report.MissingStations(assetInv, hydex), nil
}

// ExportMissingStations writes the missing-stations workbook to w and returns
// a timestamped download filename.
func (s *InventoryService) ExportMissingStations(ctx context.Context, w io.Writer) (string, error) {
	rows, err := s.MissingStations(ctx)
	if err != nil {
		return "", err
	}
	if err := s.excel.WriteMissingStations(rows, w); err != nil {
		return "", fmt.Errorf("writing workbook: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ExportsTotal.Add(ctx, 1)
	}
	s.logger.InfoContext(ctx, "missing stations exported", slog.Int("rows", len(rows)))
	return fmt.Sprintf("missing_stations_%s.xlsx", time.Now().UTC().Format("20060102_150405")), nil
}

// Reset clears both session slots and removes their snapshots.
func (s *InventoryService) Reset(ctx context.Context) error {
	s.store.Reset()
	for _, source := range []domain.Source{domain.SourceAssetInventory, domain.SourceHydex} {
		path := s.paths.SnapshotPath(string(source))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "failed to remove snapshot",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}
	s.logger.InfoContext(ctx, "session reset")
	return nil
}

// readTable materializes the upload into a header-plus-rows table, choosing
// the CSV or workbook reader by extension.
func (s *InventoryService) readTable(filename string, r io.Reader) (*table.Table, error) {
	if validation.IsCSV(filename) {
		return table.ReadCSV(r)
	}
	return table.ReadWorkbook(r)
}

func (s *InventoryService) parse(source domain.Source, tbl *table.Table) (*domain.Inventory, error) {
	switch source {
	case domain.SourceAssetInventory:
		return parser.ParseStationCentric(tbl)
	case domain.SourceHydex:
		return parser.ParseAssetCentric(tbl)
	default:
		return nil, ErrInvalidSource
	}
}

func (s *InventoryService) countUpload(ctx context.Context, source domain.Source, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.UploadsTotal.Add(ctx, 1, infrastructure.OutcomeAttr(string(source), outcome))
}

// snapshotEnvelope is the on-disk form of a stored inventory.
type snapshotEnvelope struct {
	DataFormat string            `json:"data_format"`
	SavedAt    time.Time         `json:"saved_at"`
	Inventory  *domain.Inventory `json:"inventory"`
}

// persistSnapshot writes the inventory to the snapshots directory for audit
// and debugging. Failures are logged, not surfaced: the session slot is the
// source of truth.
func (s *InventoryService) persistSnapshot(ctx context.Context, inv *domain.Inventory) {
	if s.paths == nil {
		return
	}
	env := snapshotEnvelope{
		DataFormat: contracts.DataFormatVersion,
		SavedAt:    time.Now().UTC(),
		Inventory:  inv,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode snapshot", slog.String("error", err.Error()))
		return
	}
	path := s.paths.SnapshotPath(string(inv.Source))
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.logger.WarnContext(ctx, "failed to write snapshot",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}
