// =============================================================================
// Cookie Audit - Reference Data Loader
// =============================================================================
//
// This module loads the troop application's backend exports: the internal
// transactions, the seller roster, and the season's cookie list. The web
// application owns that data; this tool consumes read-only JSON snapshots
// of it, one file per collection:
//
//   transactions.json   internal transaction records
//   sellers.json        seller roster (id, first_name, last_name)
//   cookies.json        cookie varieties with their abbreviations
//
// Missing or unreadable reference data is a caller precondition failure
// and is surfaced before the reconciliation engine ever runs.
//
// =============================================================================

package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/troop1303/cookie-audit/internal/types"
)

// File names expected under the data directory.
const (
	TransactionsFile = "transactions.json"
	SellersFile      = "sellers.json"
	CookiesFile      = "cookies.json"
)

// Bundle is the full reference-data set for one reconciliation run.
type Bundle struct {
	Transactions []types.Transaction
	Sellers      []types.Seller
	Cookies      []types.Cookie
}

// Load reads all three reference collections from dataDir.
func Load(dataDir string) (*Bundle, error) {
	bundle := &Bundle{}

	if err := loadJSON(filepath.Join(dataDir, TransactionsFile), &bundle.Transactions); err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if err := loadJSON(filepath.Join(dataDir, SellersFile), &bundle.Sellers); err != nil {
		return nil, fmt.Errorf("failed to load sellers: %w", err)
	}
	if err := loadJSON(filepath.Join(dataDir, CookiesFile), &bundle.Cookies); err != nil {
		return nil, fmt.Errorf("failed to load cookies: %w", err)
	}

	if len(bundle.Cookies) == 0 {
		return nil, fmt.Errorf("cookie reference list is empty; cannot identify cookie columns")
	}

	log.Debug().
		Int("transactions", len(bundle.Transactions)).
		Int("sellers", len(bundle.Sellers)).
		Int("cookies", len(bundle.Cookies)).
		Str("data_dir", dataDir).
		Msg("Loaded reference data")

	return bundle, nil
}

// Abbreviations returns the season's cookie short codes in list order.
func (b *Bundle) Abbreviations() []string {
	abbrs := make([]string, len(b.Cookies))
	for i, c := range b.Cookies {
		abbrs[i] = c.Abbreviation
	}
	return abbrs
}

func loadJSON(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
