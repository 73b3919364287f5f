// =============================================================================
// Cookie Audit - Shared Types
// =============================================================================
//
// This package contains the shared domain types used across multiple modules
// to avoid import cycles. Types defined here are used by:
//   - normalize
//   - match
//   - reconcile
//   - reportwriter
//
// =============================================================================

package types

import "fmt"

// =============================================================================
// TRANSACTION TYPE VOCABULARY
// =============================================================================

// Canonical transaction-type codes. The troop's internal records and the
// normalized audit records share this vocabulary; vendor-specific synonyms
// are remapped onto it by the normalizer.
const (
	// TypeGirlToTroop covers cookies moving from a girl's inventory to the
	// troop. Booth and virtual-booth sale channels carry a suffix.
	TypeGirlToTroop             = "T2G"
	TypeGirlToTroopBooth        = "T2G(B)"
	TypeGirlToTroopVirtualBooth = "T2G(VB)"

	// TypeTroopToGirl covers cookies moving from the troop to a girl.
	TypeTroopToGirl = "G2T"

	// TypeTroopToTroop covers transfers between troops.
	TypeTroopToTroop = "T2T"

	// TypeCookieToTroop is the initial order delivery from the council
	// cupboard to the troop.
	TypeCookieToTroop = "C2T"

	// TypeDirectShip covers online orders shipped directly to the customer.
	TypeDirectShip = "DIRECT SHIP"
)

// =============================================================================
// RAW EXPORT DATA
// =============================================================================

// RawRow is one data row of an uploaded vendor export: its 1-based position
// in the source file plus the ordered cell values. Headers are shared across
// all rows of an export and live on ExportData.
type RawRow struct {
	Number int
	Cells  []string
}

// ExportData is a parsed vendor export file. It is immutable once created;
// the normalizer never writes back into it.
type ExportData struct {
	// Headers contains the column headers, in file order.
	Headers []string

	// Rows contains the data rows (headers excluded).
	Rows []RawRow

	// SourceFile is the path to the source export file.
	SourceFile string
}

// =============================================================================
// NORMALIZED AUDIT RECORD
// =============================================================================

// AuditRecord is the canonical form of one vendor export row after
// normalization. A record is eligible for matching only when it carries a
// valid Date, a Type, and a counterparty; everything else is excluded from
// the match pass but still counted in the raw-row total.
type AuditRecord struct {
	// RowNumber is the 1-based row position in the source export.
	RowNumber int

	// Date is the canonical YYYY-MM-DD sale date, empty when the source
	// cell did not parse as a calendar date.
	Date string

	// OrderNumber is the normalized external order identifier: trimmed,
	// internal whitespace stripped, lower-cased. Empty when absent.
	OrderNumber string

	// Type is the canonical transaction type after vendor remapping.
	Type string

	// From is the counterparty the cookies came from, nil when the type
	// has no "from" party.
	From *string

	// To is the counterparty the cookies went to, nil when the type has
	// no "to" party.
	To *string

	// Quantities holds the per-cookie signed package counts, keyed by
	// cookie abbreviation. Quantities of inverted types are recorded from
	// the troop's receiving perspective; an exact zero removed during
	// inversion is simply absent from the map.
	Quantities map[string]int

	// Cells preserves the original label-to-cell mapping of the row for
	// auditor display.
	Cells map[string]string
}

// Counterparty returns the record's relevant counterparty name: the "from"
// party when present, otherwise the "to" party. The boolean is false when
// the record carries neither.
func (r *AuditRecord) Counterparty() (string, bool) {
	if r.From != nil && *r.From != "" {
		return *r.From, true
	}
	if r.To != nil && *r.To != "" {
		return *r.To, true
	}
	return "", false
}

// Matchable reports whether the record carries enough normalized data to
// participate in matching.
func (r *AuditRecord) Matchable() bool {
	if r.Date == "" || r.Type == "" {
		return false
	}
	_, ok := r.Counterparty()
	return ok
}

// =============================================================================
// INTERNAL REFERENCE DATA
// =============================================================================

// Transaction is one internally recorded cookie movement, consumed read-only
// from the troop application's backend export.
type Transaction struct {
	ID          int64          `json:"id"`
	Date        string         `json:"date"`
	Type        string         `json:"type"`
	From        *int64         `json:"from"`
	To          *int64         `json:"to"`
	Cookies     map[string]int `json:"cookies"`
	OrderNumber string         `json:"order_num"`
}

// Seller is one scout participating in the sale.
type Seller struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName returns the display name used to resolve counterparties.
func (s Seller) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Cookie is one cookie variety of the season. The abbreviation doubles as
// the export column header for that variety's quantities.
type Cookie struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// =============================================================================
// MATCH RESULTS
// =============================================================================

// MatchKind is the three-tier confidence classification of a reconciliation
// outcome.
type MatchKind string

const (
	MatchPerfect   MatchKind = "perfect"
	MatchPartial   MatchKind = "partial"
	MatchUnmatched MatchKind = "unmatched"
)

// MatchResult classifies one audit record against the internal transaction
// set. Results are a pure projection of the inputs and are recomputed fresh
// on every reconciliation run, never persisted or mutated.
type MatchResult struct {
	Kind MatchKind `json:"kind"`

	// Record is the audit record this result classifies. Always set.
	Record *AuditRecord `json:"record"`

	// Transaction and Seller are set for perfect and partial matches.
	Transaction *Transaction `json:"transaction,omitempty"`
	Seller      *Seller      `json:"seller,omitempty"`

	// Partial-match evidence. NumberMatched of TotalCookieTypes compared
	// cookie varieties aligned within tolerance.
	NumberMatched    int     `json:"number_matched,omitempty"`
	TotalCookieTypes int     `json:"total_cookie_types,omitempty"`
	MatchPercentage  float64 `json:"match_percentage,omitempty"`

	// Reasons explains the classification to the auditor.
	Reasons []string `json:"reasons,omitempty"`
}

// String renders a one-line summary for logs and console output.
func (m *MatchResult) String() string {
	switch m.Kind {
	case MatchPerfect:
		return fmt.Sprintf("row %d: perfect match against transaction %d", m.Record.RowNumber, m.Transaction.ID)
	case MatchPartial:
		return fmt.Sprintf("row %d: partial match (%.0f%%) against transaction %d", m.Record.RowNumber, m.MatchPercentage, m.Transaction.ID)
	default:
		return fmt.Sprintf("row %d: unmatched", m.Record.RowNumber)
	}
}

// =============================================================================
// RECONCILIATION REPORT
// =============================================================================

// Report is the outcome of one reconciliation run. Matches appear in
// audit-row iteration order, then transaction-scan order, so two runs over
// identical inputs produce identical reports.
type Report struct {
	// RunID identifies this reconciliation run in logs and file names.
	RunID string `json:"run_id"`

	// GeneratedAt is the run timestamp in RFC 3339 form.
	GeneratedAt string `json:"generated_at"`

	// SourceFile is the vendor export the report was produced from.
	SourceFile string `json:"source_file"`

	Matches []*MatchResult `json:"matches"`

	// TotalAuditRows counts every raw row of the export, including rows
	// excluded from matching by failed normalization.
	TotalAuditRows int `json:"total_audit_rows"`

	// TotalOrders counts the internal transactions scanned.
	TotalOrders int `json:"total_orders"`

	// MatchCount counts perfect and partial matches.
	MatchCount int `json:"match_count"`
}

// UnmatchedCount counts the results classified as unmatched.
func (r *Report) UnmatchedCount() int {
	n := 0
	for _, m := range r.Matches {
		if m.Kind == MatchUnmatched {
			n++
		}
	}
	return n
}
