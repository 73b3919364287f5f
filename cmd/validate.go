// =============================================================================
// Cookie Audit - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It checks the season
// configuration, the reference data, and every discovered export's shape,
// without reconciling anything. Useful right after downloading a new export
// or editing config.yaml.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/troop1303/cookie-audit/internal/refdata"
	"github.com/troop1303/cookie-audit/internal/validation"
	"github.com/troop1303/cookie-audit/pkg/utils"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check exports, configuration, and reference data without reconciling",
	Long: `The validate command loads the season configuration and reference data,
then checks the shape of every discovered export: required columns, cookie
columns against the season vocabulary, and the row ceiling. Nothing is
reconciled, written, or archived.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&exportPath, "export", "", "Validate a single export file instead of scanning the exports directory")
	validateCmd.Flags().StringVar(&dataDir, "data-dir", "", "Override the reference-data directory")
}

func runValidate() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg)
	fmt.Printf("config ok (season %q)\n", cfg.SeasonName)

	bundle, err := refdata.Load(cfg.DataDir)
	if err != nil {
		return err
	}
	fmt.Printf("reference data ok (%d transactions, %d sellers, %d cookie types)\n",
		len(bundle.Transactions), len(bundle.Sellers), len(bundle.Cookies))

	fm := utils.NewFileManager(cfg.ExportsDir, cfg.ReportsDir, cfg.ArchiveDir)
	exports, err := resolveExports(fm)
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		fmt.Println("No export files found.")
		return nil
	}

	invalid := 0
	for _, path := range exports {
		export, err := parseExport(path, cfg.CSV)
		if err != nil {
			invalid++
			fmt.Printf("  x %s: %v\n", filepath.Base(path), err)
			continue
		}

		result := validation.ValidateExport(export, bundle.Cookies, cfg.Matching.MaxRows)
		if result.Valid {
			fmt.Printf("  ok %s (%d rows, %d cookie columns)\n",
				filepath.Base(path), len(export.Rows), len(result.CookieColumns))
		} else {
			invalid++
			fmt.Printf("  x %s\n", filepath.Base(path))
		}
		for _, e := range result.Errors {
			fmt.Printf("     %s\n", e)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d export(s) failed validation", invalid)
	}
	return nil
}
