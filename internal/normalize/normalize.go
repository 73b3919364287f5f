// =============================================================================
// Cookie Audit - Row Normalizer
// =============================================================================
//
// This module converts raw vendor export rows into canonical audit records.
// The vendor's export and the troop's internal records disagree on date
// formats, transaction-type taxonomy, and the perspective quantities are
// recorded from; normalization settles all three before any matching runs.
//
// NORMALIZATION STEPS (per row):
//   1. Canonicalize the sale date to YYYY-MM-DD
//   2. Normalize the order number (trim, strip whitespace, lower-case)
//   3. Remap vendor transaction-type synonyms onto the canonical vocabulary
//   4. Derive the from/to counterparties the type actually has
//   5. Invert cookie quantities for types the vendor records from the
//      selling girl's perspective
//
// Rows that fail structurally or semantically are not errors: they become
// records excluded from matching, which the engine counts but never
// classifies. Third-party export quality makes that routine.
//
// =============================================================================

package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/troop1303/cookie-audit/internal/types"
)

// =============================================================================
// EXPORT HEADER CONTRACT
// =============================================================================

// Fixed headers of the vendor export. Every other column is a candidate
// cookie-quantity column.
const (
	HeaderDate        = "DATE"
	HeaderOrderNumber = "ORDER #"
	HeaderType        = "TYPE"
	HeaderFrom        = "FROM"
	HeaderTo          = "TO"
	HeaderStatus      = "STATUS"
	HeaderTotal       = "TOTAL"
	HeaderTotalValue  = "TOTAL $"
)

// FixedHeaders lists the headers every export must carry.
func FixedHeaders() []string {
	return []string{
		HeaderDate,
		HeaderOrderNumber,
		HeaderType,
		HeaderFrom,
		HeaderTo,
		HeaderStatus,
		HeaderTotal,
		HeaderTotalValue,
	}
}

// dateLayouts are tried in order when canonicalizing a date cell. The
// vendor exports US-style M/D/YYYY; the troop's backend stores ISO dates.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
	"2006/1/2",
	"Jan 2, 2006",
	"January 2, 2006",
}

// typeRemap translates the vendor's taxonomy onto the canonical vocabulary.
// Types already in the canonical vocabulary pass through untouched.
var typeRemap = map[string]string{
	"COOKIE_SHARE":     types.TypeGirlToTroop,
	"COOKIE_SHARE(B)":  types.TypeGirlToTroopBooth,
	"COOKIE_SHARE(VB)": types.TypeGirlToTroopVirtualBooth,
	"INITIAL":          types.TypeCookieToTroop,
}

// =============================================================================
// FIELD NORMALIZERS
// =============================================================================

// Date parses a calendar-date cell and returns the canonical YYYY-MM-DD
// form, or the empty string when the cell does not parse.
func Date(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// OrderNumber normalizes an external order identifier so comparison is
// insensitive to the spacing and casing noise spreadsheet editors
// introduce. Absent input yields the empty string.
func OrderNumber(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	input = strings.Join(strings.Fields(input), "")
	return strings.ToLower(input)
}

// RemapType translates a vendor transaction type to the canonical
// vocabulary. Remapping an already-canonical type is a no-op.
func RemapType(input string) string {
	input = strings.TrimSpace(input)
	if mapped, ok := typeRemap[input]; ok {
		return mapped
	}
	return input
}

// =============================================================================
// ROW SHAPING
// =============================================================================

// RowToObject zips a row's positional cells with the shared header list
// into a label-to-value map. The boolean is false for structurally
// malformed rows (no headers or no cells), which downstream code must skip.
func RowToObject(row types.RawRow, headers []string) (map[string]string, bool) {
	if len(headers) == 0 || len(row.Cells) == 0 {
		return nil, false
	}
	obj := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(row.Cells) {
			obj[header] = strings.TrimSpace(row.Cells[i])
		} else {
			obj[header] = ""
		}
	}
	return obj, true
}

// =============================================================================
// AUDIT RECORD CONSTRUCTION
// =============================================================================

// ProcessAuditRow builds a canonical audit record from a labeled row and
// the season's cookie vocabulary. Inputs are never mutated; the record owns
// fresh copies of everything it keeps.
func ProcessAuditRow(rowNumber int, cells map[string]string, cookies []types.Cookie) types.AuditRecord {
	record := types.AuditRecord{
		RowNumber:   rowNumber,
		Date:        Date(cells[HeaderDate]),
		OrderNumber: OrderNumber(cells[HeaderOrderNumber]),
		Type:        RemapType(cells[HeaderType]),
		Quantities:  make(map[string]int, len(cookies)),
		Cells:       make(map[string]string, len(cells)),
	}
	for k, v := range cells {
		record.Cells[k] = v
	}

	// A type only carries the parties it semantically has. Girl-to-troop
	// and direct-ship movements have no meaningful "to" or "from" beyond
	// the troop itself; the initial cupboard delivery has neither.
	if !hasNoFromParty(record.Type) {
		if from := strings.TrimSpace(cells[HeaderFrom]); from != "" {
			record.From = &from
		}
	}
	if !hasNoToParty(record.Type) {
		if to := strings.TrimSpace(cells[HeaderTo]); to != "" {
			record.To = &to
		}
	}

	invert := isInvertedType(record.Type)
	for _, cookie := range cookies {
		cell, ok := cells[cookie.Abbreviation]
		if !ok {
			continue
		}
		qty, ok := parseQuantity(cell)
		if !ok {
			continue
		}
		if invert {
			// The vendor records these types from the selling girl's
			// perspective; the troop records the same movement from its
			// receiving side. A zero has nothing to flip and drops out.
			if qty == 0 {
				continue
			}
			qty = -qty
		}
		record.Quantities[cookie.Abbreviation] = qty
	}

	return record
}

// BuildRecords normalizes every row of an export. The result has one record
// per raw row; structurally malformed rows yield records that are excluded
// from matching but still counted in report totals.
func BuildRecords(export *types.ExportData, cookies []types.Cookie) []types.AuditRecord {
	records := make([]types.AuditRecord, 0, len(export.Rows))
	for _, row := range export.Rows {
		cells, ok := RowToObject(row, export.Headers)
		if !ok {
			records = append(records, types.AuditRecord{RowNumber: row.Number})
			continue
		}
		records = append(records, ProcessAuditRow(row.Number, cells, cookies))
	}
	return records
}

// =============================================================================
// TYPE PREDICATES
// =============================================================================

func hasNoFromParty(t string) bool {
	return strings.HasPrefix(t, types.TypeTroopToGirl) ||
		t == types.TypeDirectShip ||
		t == types.TypeCookieToTroop
}

func hasNoToParty(t string) bool {
	return strings.HasPrefix(t, types.TypeGirlToTroop) ||
		t == types.TypeCookieToTroop
}

// isInvertedType reports whether the vendor records this type's quantities
// from the opposite party's perspective.
func isInvertedType(t string) bool {
	switch t {
	case types.TypeGirlToTroop, types.TypeGirlToTroopBooth, types.TypeGirlToTroopVirtualBooth, types.TypeDirectShip:
		return true
	}
	return false
}

// parseQuantity reads a cookie-quantity cell. Empty and non-numeric cells
// carry no information and are distinct from an explicit zero.
func parseQuantity(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	qty, err := strconv.Atoi(cell)
	if err != nil {
		return 0, false
	}
	return qty, true
}
