// =============================================================================
// Cookie Audit - Configuration Module
// =============================================================================
//
// This module loads and validates the season configuration file. One YAML
// file describes a cookie season: where exports and reference data live,
// how the vendor's CSV exports are shaped, and which tolerances the
// reconciliation engine applies.
//
// CONFIGURATION FILES:
//   config.yaml - season settings, loaded once per invocation
//
// Defaults are applied after parsing so a minimal file stays minimal, and
// the loaded configuration is validated before any processing starts.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the full season configuration.
type Config struct {
	// SeasonName identifies the season in logs and report headers.
	SeasonName string `yaml:"season_name"`

	// ExportsDir is the directory scanned for vendor export files.
	// Default: "./exports"
	ExportsDir string `yaml:"exports_dir"`

	// ReportsDir is the directory reconciliation reports are written to.
	// Default: "./reports"
	ReportsDir string `yaml:"reports_dir"`

	// ArchiveDir is the directory processed exports are moved to.
	// Default: "./archive"
	ArchiveDir string `yaml:"archive_dir"`

	// DataDir is the directory holding the reference-data JSON exports
	// (transactions.json, sellers.json, cookies.json).
	// Default: "./data"
	DataDir string `yaml:"data_dir"`

	// CSV contains settings for parsing the vendor CSV exports.
	CSV CSVSettings `yaml:"csv_settings"`

	// Matching contains the reconciliation tolerances.
	Matching MatchingSettings `yaml:"matching"`

	// Report contains output settings.
	Report ReportSettings `yaml:"report"`
}

// CSVSettings contains settings for parsing CSV export files.
type CSVSettings struct {
	// Delimiter is the field separator. Accepts "," "|" ";" or "tab".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows at the top of the export.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the 1-based row number where data begins.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row"`
}

// MatchingSettings contains the reconciliation engine tolerances. The
// defaults reflect how the vendor's processing lag and volunteer data entry
// behave in practice; seasons can tighten or loosen them.
type MatchingSettings struct {
	// MaxNameDistance is the Levenshtein tolerance of the fuzzy seller
	// resolution tier.
	// Default: 2
	MaxNameDistance int `yaml:"max_name_distance"`

	// DateToleranceDays is the calendar-day window within which two dates
	// still count as the same sale.
	// Default: 2
	DateToleranceDays int `yaml:"date_tolerance_days"`

	// QuantityTolerance is the package-count difference tolerated when
	// both sides recorded a quantity.
	// Default: 2
	QuantityTolerance int `yaml:"quantity_tolerance"`

	// SingleSideTolerance is the difference tolerated when only one side
	// recorded a quantity.
	// Default: 1
	SingleSideTolerance int `yaml:"single_side_tolerance"`

	// PartialThresholdPct is the minimum match percentage for a partial
	// match to be reported instead of unmatched.
	// Default: 50
	PartialThresholdPct float64 `yaml:"partial_threshold_pct"`

	// MaxRows caps the number of export rows accepted for one run. The
	// match pass is O(rows x transactions x cookie types), so the cap
	// keeps the cross product tractable.
	// Default: 5000
	MaxRows int `yaml:"max_rows"`
}

// ReportSettings contains output settings.
type ReportSettings struct {
	// Format selects the report file format: "xml" or "json".
	// Default: "xml"
	Format string `yaml:"format"`

	// Indent is the indentation unit of the report file.
	// Default: "  "
	Indent string `yaml:"indent"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a season configuration from a YAML file, applies defaults and
// validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for any unset options.
func applyDefaults(cfg *Config) {
	if cfg.ExportsDir == "" {
		cfg.ExportsDir = "./exports"
	}
	if cfg.ReportsDir == "" {
		cfg.ReportsDir = "./reports"
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = "./archive"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}

	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}
	if cfg.CSV.HeaderRows == 0 {
		cfg.CSV.HeaderRows = 1
	}
	if cfg.CSV.DataStartRow == 0 {
		cfg.CSV.DataStartRow = cfg.CSV.HeaderRows + 1
	}

	if cfg.Matching.MaxNameDistance == 0 {
		cfg.Matching.MaxNameDistance = 2
	}
	if cfg.Matching.DateToleranceDays == 0 {
		cfg.Matching.DateToleranceDays = 2
	}
	if cfg.Matching.QuantityTolerance == 0 {
		cfg.Matching.QuantityTolerance = 2
	}
	if cfg.Matching.SingleSideTolerance == 0 {
		cfg.Matching.SingleSideTolerance = 1
	}
	if cfg.Matching.PartialThresholdPct == 0 {
		cfg.Matching.PartialThresholdPct = 50
	}
	if cfg.Matching.MaxRows == 0 {
		cfg.Matching.MaxRows = 5000
	}

	if cfg.Report.Format == "" {
		cfg.Report.Format = "xml"
	}
	if cfg.Report.Indent == "" {
		cfg.Report.Indent = "  "
	}
}

// validate rejects configurations the pipeline cannot run with.
func validate(cfg *Config) error {
	if cfg.CSV.HeaderRows < 1 {
		return fmt.Errorf("csv_settings.header_rows must be at least 1")
	}
	if cfg.CSV.DataStartRow <= cfg.CSV.HeaderRows {
		return fmt.Errorf("csv_settings.data_start_row must be after the header rows")
	}
	if cfg.Matching.PartialThresholdPct < 0 || cfg.Matching.PartialThresholdPct > 100 {
		return fmt.Errorf("matching.partial_threshold_pct must be between 0 and 100")
	}
	if cfg.Matching.MaxRows < 1 {
		return fmt.Errorf("matching.max_rows must be positive")
	}
	switch cfg.Report.Format {
	case "xml", "json":
	default:
		return fmt.Errorf("report.format must be \"xml\" or \"json\", got %q", cfg.Report.Format)
	}
	return nil
}
