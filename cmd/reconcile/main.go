// Command reconcile compares two inventory spreadsheets from the command line
// and writes the missing-stations report without running the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"stationrecon/internal/compare"
	"stationrecon/internal/exporter"
	"stationrecon/internal/parser"
	"stationrecon/internal/report"
	"stationrecon/internal/table"
	"stationrecon/internal/validation"
	"stationrecon/pkg/contracts"
	"stationrecon/pkg/contracts/domain"
)

func main() {
	var (
		inventoryPath = flag.String("inventory", "", "station-centric asset inventory spreadsheet (.xlsx or .csv)")
		hydexPath     = flag.String("hydex", "", "asset-centric hydex export (.xlsx or .csv)")
		outDir        = flag.String("out", ".", "directory for the missing-stations report")
		format        = flag.String("format", "xlsx", "report format: xlsx or csv")
		verbose       = flag.Bool("v", false, "verbose logging")
		showVersion   = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *inventoryPath == "" || *hydexPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *format != "xlsx" && *format != "csv" {
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		os.Exit(2)
	}

	if err := run(*inventoryPath, *hydexPath, *outDir, *format, logger); err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		os.Exit(1)
	}
}

func run(inventoryPath, hydexPath, outDir, format string, logger *slog.Logger) error {
	var stationInv, hydexInv *domain.Inventory

	// The two files are independent, so parse them concurrently.
	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		inv, err := parseFile(inventoryPath, domain.SourceAssetInventory)
		if err != nil {
			return fmt.Errorf("asset inventory %s: %w", inventoryPath, err)
		}
		stationInv = inv
		return nil
	})
	g.Go(func() error {
		inv, err := parseFile(hydexPath, domain.SourceHydex)
		if err != nil {
			return fmt.Errorf("hydex export %s: %w", hydexPath, err)
		}
		hydexInv = inv
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("inventories parsed",
		slog.Int("asset_inventory_stations", len(stationInv.Stations)),
		slog.Int("hydex_stations", len(hydexInv.Stations)))

	result := compare.Compare(stationInv, hydexInv)
	printComparison(result)

	rows := report.MissingStations(stationInv, hydexInv)
	outPath, err := writeReport(rows, outDir, format)
	if err != nil {
		return err
	}

	fmt.Printf("\nMissing stations: %d (hydex stations absent from the asset inventory)\n", len(rows))
	fmt.Printf("Report written to %s\n", outPath)
	return nil
}

// parseFile reads one spreadsheet and runs the parser matching its source.
func parseFile(path string, source domain.Source) (*domain.Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tbl *table.Table
	if validation.IsCSV(path) {
		tbl, err = table.ReadCSV(f)
	} else {
		tbl, err = table.ReadWorkbook(f)
	}
	if err != nil {
		return nil, err
	}

	if source == domain.SourceAssetInventory {
		return parser.ParseStationCentric(tbl)
	}
	return parser.ParseAssetCentric(tbl)
}

func printComparison(result *domain.ComparisonResult) {
	fmt.Printf("Stations compared: %d\n", result.Summary.StationsCompared)
	fmt.Printf("Stations with discrepancies: %d\n", result.Summary.StationsWithDiscrepancies)
	for _, d := range result.Details {
		fmt.Printf("\n%s", d.StationID)
		if d.StationNameLeft != "" {
			fmt.Printf(" (%s)", d.StationNameLeft)
		}
		fmt.Println()
		if len(d.MissingInLeft) > 0 {
			fmt.Printf("  missing in %s: %s\n", d.SourceLeft, strings.Join(d.MissingInLeft, ", "))
		}
		if len(d.MissingInRight) > 0 {
			fmt.Printf("  missing in %s: %s\n", d.SourceRight, strings.Join(d.MissingInRight, ", "))
		}
	}
}

func writeReport(rows []domain.MissingStationRow, outDir, format string) (string, error) {
	outPath := filepath.Join(outDir, "missing_stations."+format)
	if format == "csv" {
		if err := exporter.NewCSVWriter().WriteMissingStationsCSV(rows, outPath); err != nil {
			return "", err
		}
		return outPath, nil
	}
	if err := exporter.NewExcelWriter().SaveMissingStations(rows, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
