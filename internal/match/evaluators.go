// =============================================================================
// Cookie Audit - Match Evaluators
// =============================================================================
//
// Pure pairwise comparisons between one normalized audit record and one
// internal transaction. The reconciliation engine tiers these from strict
// to loose; none of them touch any state outside their arguments, so they
// are independently invokable for unit testing and for single-row previews.
//
// =============================================================================

package match

import (
	"time"

	"github.com/troop1303/cookie-audit/internal/types"
)

// Tolerances bundles the looseness knobs of the partial tier.
type Tolerances struct {
	// Quantity is the package-count difference tolerated when both sides
	// recorded a quantity.
	Quantity int

	// SingleSide is the difference tolerated when exactly one side
	// recorded a quantity.
	SingleSide int

	// DateDays is the calendar-day window for the date-tolerant tier.
	DateDays int
}

// DefaultTolerances matches the behavior auditors expect out of the box:
// a couple of miscounted packages, one stray package against an empty cell,
// and two days of processing lag.
func DefaultTolerances() Tolerances {
	return Tolerances{Quantity: 2, SingleSide: 1, DateDays: 2}
}

// PartialResult is the evidence the partial tier produces for one pair.
type PartialResult struct {
	// NumberMatched counts compared cookie types that aligned within
	// tolerance.
	NumberMatched int

	// TotalCookieTypes counts cookie types where at least one side
	// recorded a quantity. Types both sides left at zero carry no
	// evidence and are not counted.
	TotalCookieTypes int

	// MatchPercentage is 100 * NumberMatched / TotalCookieTypes, and 0
	// when nothing was comparable. Never NaN.
	MatchPercentage float64
}

// =============================================================================
// STRICT TIER
// =============================================================================

// CookiesEqual reports whether every cookie variety's quantity agrees
// exactly between the audit record and the transaction. An absent quantity
// counts as zero on either side.
func CookiesEqual(record *types.AuditRecord, tx *types.Transaction, cookies []types.Cookie) bool {
	for _, cookie := range cookies {
		if record.Quantities[cookie.Abbreviation] != tx.Cookies[cookie.Abbreviation] {
			return false
		}
	}
	return true
}

// =============================================================================
// LOOSE TIER
// =============================================================================

// PartialCookies scores how closely the cookie quantities of a pair align
// under the given tolerances. Two non-zero sides also count as matched when
// their absolute values agree, which absorbs a sign-flip data-entry error
// on one side.
func PartialCookies(record *types.AuditRecord, tx *types.Transaction, cookies []types.Cookie, tol Tolerances) PartialResult {
	var result PartialResult

	for _, cookie := range cookies {
		auditQty := record.Quantities[cookie.Abbreviation]
		orderQty := tx.Cookies[cookie.Abbreviation]

		switch {
		case auditQty != 0 && orderQty != 0:
			result.TotalCookieTypes++
			if absInt(auditQty-orderQty) <= tol.Quantity || absInt(auditQty) == absInt(orderQty) {
				result.NumberMatched++
			}
		case auditQty != 0 || orderQty != 0:
			result.TotalCookieTypes++
			if absInt(auditQty-orderQty) <= tol.SingleSide {
				result.NumberMatched++
			}
		}
	}

	if result.TotalCookieTypes > 0 {
		result.MatchPercentage = 100 * float64(result.NumberMatched) / float64(result.TotalCookieTypes)
	}
	return result
}

// DatesWithinTolerance reports whether two canonical YYYY-MM-DD dates fall
// within days of each other. Unparseable or empty dates never match.
func DatesWithinTolerance(date1, date2 string, days int) bool {
	t1, err := time.Parse("2006-01-02", date1)
	if err != nil {
		return false
	}
	t2, err := time.Parse("2006-01-02", date2)
	if err != nil {
		return false
	}
	diff := t1.Sub(t2)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(days)*24*time.Hour
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
