// =============================================================================
// Cookie Audit - Preview Command
// =============================================================================
//
// This file defines the 'preview' command, a single-row dry run. An auditor
// investigating one suspicious export row can see how it normalizes and how
// the engine would classify it, without producing a report or touching the
// archive.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/troop1303/cookie-audit/internal/normalize"
	"github.com/troop1303/cookie-audit/internal/reconcile"
	"github.com/troop1303/cookie-audit/internal/refdata"
	"github.com/troop1303/cookie-audit/internal/types"
)

// previewExport is the export file containing the row to preview.
var previewExport string

// previewRow is the 1-based data row number to preview.
var previewRow int

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show how one export row normalizes and classifies",
	Long: `The preview command parses a single export, normalizes the requested
data row, and classifies it against the troop's internal transactions. It
prints the canonical record and every classification the engine would
report, but writes nothing.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview()
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewExport, "export", "", "Export file containing the row (required)")
	previewCmd.Flags().IntVar(&previewRow, "row", 0, "Data row number to preview, first data row is 1 (required)")
	previewCmd.Flags().StringVar(&dataDir, "data-dir", "", "Override the reference-data directory")
	previewCmd.MarkFlagRequired("export")
	previewCmd.MarkFlagRequired("row")
}

func runPreview() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg)

	bundle, err := refdata.Load(cfg.DataDir)
	if err != nil {
		return err
	}

	export, err := parseExport(previewExport, cfg.CSV)
	if err != nil {
		return err
	}
	if previewRow < 1 || previewRow > len(export.Rows) {
		return fmt.Errorf("row %d out of range: export has %d data row(s)", previewRow, len(export.Rows))
	}

	records := normalize.BuildRecords(export, bundle.Cookies)
	record := &records[previewRow-1]

	printRecord(record)

	if !record.Matchable() {
		fmt.Println("\nRow could not be normalized; it would be excluded from matching.")
		return nil
	}

	engine := reconcile.New(engineOptions(cfg))
	results := engine.Preview(record, bundle.Transactions, bundle.Sellers, bundle.Cookies)

	fmt.Printf("\nClassification (%d result(s)):\n", len(results))
	for _, r := range results {
		fmt.Printf("  %s\n", r)
		for _, reason := range r.Reasons {
			fmt.Printf("    - %s\n", reason)
		}
	}
	return nil
}

// printRecord prints the canonical form of one audit record.
func printRecord(record *types.AuditRecord) {
	fmt.Printf("Row %d\n", record.RowNumber)
	fmt.Printf("  date:  %s\n", record.Date)
	fmt.Printf("  type:  %s\n", record.Type)
	fmt.Printf("  order: %s\n", record.OrderNumber)
	if record.From != nil {
		fmt.Printf("  from:  %s\n", *record.From)
	}
	if record.To != nil {
		fmt.Printf("  to:    %s\n", *record.To)
	}
	if len(record.Quantities) > 0 {
		fmt.Println("  cookies:")
		for abbr, qty := range record.Quantities {
			fmt.Printf("    %-8s %d\n", abbr, qty)
		}
	}
}
