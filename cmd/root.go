// =============================================================================
// Cookie Audit - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI and the logging
// setup shared by every subcommand.
//
// COMMAND STRUCTURE:
//   cookie-audit (root)
//   ├── reconcile   - reconcile vendor exports against internal records
//   ├── preview     - classify a single export row without a full run
//   ├── validate    - check exports and configuration without reconciling
//   └── version     - display the application version
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/troop1303/cookie-audit/internal/config"
)

// cfgFile holds the path to the season configuration file.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cookie-audit",
	Short: "Reconcile cookie-sale platform exports against the troop's records",
	Long: `cookie-audit reconciles a transaction export downloaded from the
third-party cookie-sale platform against the troop's internally recorded
transactions, and reports perfect matches, partial matches, and unmatched
rows for a human auditor.

Matching is tolerant where volunteer data entry is noisy: dates may lag by
a couple of days, names may carry typos, and package counts may be off by
a box or two. Every classification in the report says why it was made.

Example Usage:
  cookie-audit reconcile                        # Reconcile all discovered exports
  cookie-audit reconcile --export dc_jan.csv    # Reconcile one export file
  cookie-audit preview --export dc_jan.csv --row 7
  cookie-audit validate`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the season configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// setupLogging loads .env if present and configures zerolog output and
// level. The --verbose flag wins over LOGLEVEL.
func setupLogging() {
	envErr := godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		switch strings.ToLower(os.Getenv("LOGLEVEL")) {
		case "debug":
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		case "info":
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		case "error":
			zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		default:
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		}
	}

	if envErr == nil {
		log.Debug().Msg("Loaded environment variables from .env file")
	}
}

// loadConfig reads the season configuration. A missing file at the default
// path falls back to defaults so the tool runs out of the box; an explicit
// --config path must exist.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if cfgFile == "config.yaml" {
			log.Debug().Msg("No config.yaml found; using default configuration")
			return config.Default(), nil
		}
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}
	return config.Load(cfgFile)
}
