// =============================================================================
// Cookie Audit - Export Validation
// =============================================================================
//
// This module validates a parsed vendor export before reconciliation runs.
// Validation covers the export's shape, never its content: content problems
// (bad dates, unknown types, missing counterparties) are expected in
// third-party data and are handled by normalization, not rejected here.
//
// Checks:
//   - Every fixed header the normalizer relies on is present
//   - At least one column maps onto the season's cookie vocabulary
//   - The row count stays under the configured ceiling, which bounds the
//     engine's rows x transactions x cookie-types cross product
//
// Errors are collected rather than returned one at a time, so a volunteer
// fixing an export sees everything wrong with it at once.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/troop1303/cookie-audit/internal/normalize"
	"github.com/troop1303/cookie-audit/internal/types"
)

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

// Severity levels. An "error" blocks reconciliation; a "warning" is
// reported and processing continues.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError describes one problem with an export's shape.
type ValidationError struct {
	Severity string
	Rule     string
	Message  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), e.Rule, e.Message)
}

// Result contains the outcome of validating one export.
type Result struct {
	// Valid is true when no blocking errors were found.
	Valid bool

	Errors []*ValidationError

	// CookieColumns are the export columns recognized as cookie
	// quantities, in export column order.
	CookieColumns []string
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateExport checks an export's shape against the season's cookie
// vocabulary and the configured row ceiling.
func ValidateExport(export *types.ExportData, cookies []types.Cookie, maxRows int) *Result {
	result := &Result{Valid: true}

	present := make(map[string]bool, len(export.Headers))
	for _, h := range export.Headers {
		present[h] = true
	}

	for _, required := range normalize.FixedHeaders() {
		if !present[required] {
			result.add(SeverityError, "required_header",
				fmt.Sprintf("export is missing the %q column", required))
		}
	}

	known := make(map[string]bool, len(cookies))
	for _, c := range cookies {
		known[c.Abbreviation] = true
	}

	fixed := make(map[string]bool)
	for _, h := range normalize.FixedHeaders() {
		fixed[h] = true
	}

	// Every non-fixed column is a candidate cookie column; only those in
	// the season vocabulary are used for matching.
	for _, h := range export.Headers {
		if fixed[h] {
			continue
		}
		if known[h] {
			result.CookieColumns = append(result.CookieColumns, h)
		} else {
			result.add(SeverityWarning, "unknown_column",
				fmt.Sprintf("column %q is neither a fixed header nor a season cookie; it will be ignored", h))
		}
	}

	if len(result.CookieColumns) == 0 {
		result.add(SeverityError, "cookie_columns",
			"no export column matches the season's cookie abbreviations")
	}

	if maxRows > 0 && len(export.Rows) > maxRows {
		result.add(SeverityError, "row_ceiling",
			fmt.Sprintf("export has %d rows, above the configured ceiling of %d", len(export.Rows), maxRows))
	}

	return result
}

func (r *Result) add(severity, rule, message string) {
	r.Errors = append(r.Errors, &ValidationError{
		Severity: severity,
		Rule:     rule,
		Message:  message,
	})
	if severity == SeverityError {
		r.Valid = false
	}
}

// Warnings returns only the non-blocking problems.
func (r *Result) Warnings() []*ValidationError {
	var warnings []*ValidationError
	for _, e := range r.Errors {
		if e.Severity == SeverityWarning {
			warnings = append(warnings, e)
		}
	}
	return warnings
}
