// =============================================================================
// Cookie Audit - Reconcile Command
// =============================================================================
//
// This file defines the 'reconcile' command, the main command of the tool.
// It orchestrates the full pipeline for each discovered export:
//
//   1. Load the season configuration and reference data
//   2. Parse the export file (CSV or XLSX)
//   3. Validate the export's shape against the season vocabulary
//   4. Normalize every row into a canonical audit record
//   5. Run the reconciliation engine
//   6. Write the report and archive the export
//
// On a validation failure the export stays in place, an error log is
// written next to the reports, and processing continues with the next
// export.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/troop1303/cookie-audit/internal/config"
	"github.com/troop1303/cookie-audit/internal/csvparser"
	"github.com/troop1303/cookie-audit/internal/match"
	"github.com/troop1303/cookie-audit/internal/normalize"
	"github.com/troop1303/cookie-audit/internal/reconcile"
	"github.com/troop1303/cookie-audit/internal/refdata"
	"github.com/troop1303/cookie-audit/internal/reportwriter"
	"github.com/troop1303/cookie-audit/internal/types"
	"github.com/troop1303/cookie-audit/internal/validation"
	"github.com/troop1303/cookie-audit/internal/xlsxparser"
	"github.com/troop1303/cookie-audit/pkg/utils"
)

// exportPath limits the run to a single export file.
var exportPath string

// dataDir overrides the reference-data directory from the config.
var dataDir string

// reportFormat overrides the report format from the config.
var reportFormat string

// dryRun reconciles and prints the summary without writing or archiving.
var dryRun bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile vendor exports against the troop's internal records",
	Long: `The reconcile command parses each vendor export, normalizes its rows,
matches them against the troop's internal transactions, and writes a
reconciliation report per export.

Each report lists perfect matches, partial matches with their match
percentage, and unmatched rows, in a deterministic order suitable for
side-by-side review across runs.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile()
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&exportPath, "export", "", "Reconcile a single export file instead of scanning the exports directory")
	reconcileCmd.Flags().StringVar(&dataDir, "data-dir", "", "Override the reference-data directory")
	reconcileCmd.Flags().StringVar(&reportFormat, "format", "", "Report format: xml or json (overrides config)")
	reconcileCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Reconcile and print the summary without writing reports or archiving")
}

func runReconcile() error {
	startTime := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg)

	fm := utils.NewFileManager(cfg.ExportsDir, cfg.ReportsDir, cfg.ArchiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	exports, err := resolveExports(fm)
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		fmt.Println("No export files found.")
		return nil
	}

	bundle, err := refdata.Load(cfg.DataDir)
	if err != nil {
		return err
	}

	engine := reconcile.New(engineOptions(cfg))

	fmt.Println("=== Cookie Audit ===")
	fmt.Printf("Found %d export(s) to reconcile\n", len(exports))

	var processed, failed int
	for _, path := range exports {
		if err := reconcileExport(path, cfg, bundle, engine, fm); err != nil {
			failed++
			fmt.Printf("  x %s: %v\n", filepath.Base(path), err)
			continue
		}
		processed++
	}

	fmt.Println("\n=== Reconciliation Complete ===")
	fmt.Printf("Exports processed: %d\n", processed)
	fmt.Printf("Exports failed:    %d\n", failed)
	fmt.Printf("Time elapsed:      %s\n", time.Since(startTime))

	if failed > 0 {
		return fmt.Errorf("%d export(s) failed", failed)
	}
	return nil
}

// reconcileExport runs the pipeline for one export file.
func reconcileExport(path string, cfg *config.Config, bundle *refdata.Bundle, engine *reconcile.Engine, fm *utils.FileManager) error {
	log.Info().Str("export", path).Msg("Reconciling export")

	export, err := parseExport(path, cfg.CSV)
	if err != nil {
		return err
	}

	result := validation.ValidateExport(export, bundle.Cookies, cfg.Matching.MaxRows)
	for _, w := range result.Warnings() {
		log.Warn().Str("export", path).Msg(w.Error())
	}
	if !result.Valid {
		errs := make([]error, len(result.Errors))
		for i, e := range result.Errors {
			errs[i] = e
		}
		if !dryRun {
			if logPath, logErr := fm.WriteErrorLog(path, errs); logErr == nil {
				log.Info().Str("log", logPath).Msg("Wrote validation error log")
			}
		}
		return fmt.Errorf("export failed validation with %d error(s)", len(result.Errors)-len(result.Warnings()))
	}

	records := normalize.BuildRecords(export, bundle.Cookies)
	report := engine.Reconcile(path, records, bundle.Transactions, bundle.Sellers, bundle.Cookies)

	printReportSummary(path, report)

	if dryRun {
		return nil
	}

	content, err := reportwriter.Generate(report, cfg.Report.Format, reportwriter.Options{
		Indent:                cfg.Report.Indent,
		IncludeXMLDeclaration: true,
	})
	if err != nil {
		return err
	}

	reportPath, err := fm.WriteReport(report.RunID, cfg.Report.Format, content)
	if err != nil {
		return err
	}
	fmt.Printf("  report: %s\n", reportPath)

	archived, err := fm.ArchiveExport(path)
	if err != nil {
		// The report is already written; a failed archive only means the
		// export will be picked up again next run.
		log.Warn().Err(err).Str("export", path).Msg("Failed to archive export")
		return nil
	}
	log.Debug().Str("archived", archived).Msg("Archived export")
	return nil
}

// printReportSummary prints the per-export outcome lines.
func printReportSummary(path string, report *types.Report) {
	perfect := 0
	partial := 0
	for _, m := range report.Matches {
		switch m.Kind {
		case types.MatchPerfect:
			perfect++
		case types.MatchPartial:
			partial++
		}
	}
	fmt.Printf("  ok %s\n", filepath.Base(path))
	fmt.Printf("     rows: %d  orders: %d  perfect: %d  partial: %d  unmatched: %d\n",
		report.TotalAuditRows, report.TotalOrders, perfect, partial, report.UnmatchedCount())
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// applyOverrides folds command-line overrides into the loaded config.
func applyOverrides(cfg *config.Config) {
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if reportFormat != "" {
		cfg.Report.Format = strings.ToLower(reportFormat)
	}
}

// resolveExports returns the export files for this run.
func resolveExports(fm *utils.FileManager) ([]string, error) {
	if exportPath != "" {
		return []string{exportPath}, nil
	}
	return fm.DiscoverExports()
}

// parseExport dispatches on the export's file extension.
func parseExport(path string, settings config.CSVSettings) (*types.ExportData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return xlsxparser.Parse(path, settings)
	case ".csv":
		return csvparser.Parse(path, settings)
	default:
		return nil, fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}
}

// engineOptions maps the season config onto engine options.
func engineOptions(cfg *config.Config) reconcile.Options {
	return reconcile.Options{
		MaxNameDistance: cfg.Matching.MaxNameDistance,
		Tolerances: match.Tolerances{
			Quantity:   cfg.Matching.QuantityTolerance,
			SingleSide: cfg.Matching.SingleSideTolerance,
			DateDays:   cfg.Matching.DateToleranceDays,
		},
		PartialThresholdPct: cfg.Matching.PartialThresholdPct,
	}
}
