// =============================================================================
// Cookie Audit - Reconciliation Engine
// =============================================================================
//
// This module orchestrates the multi-tier matching pass between the
// normalized audit records of one vendor export and the troop's internal
// transaction set. Per audit record the classification is terminal:
//
//   Unprocessed -> PerfectMatch | PartialMatch | Unmatched
//
// Tiering, strict to loose:
//   1. Exact date, exact type, exact counterparty full name, exact cookie
//      quantities -> PerfectMatch (ties are all reported; disambiguation
//      belongs to the human auditor)
//   2. Exact type, date within tolerance, counterparty within edit-distance
//      tolerance, cookie quantities mostly aligned -> PartialMatch
//   3. Otherwise -> Unmatched
//
// The engine performs no I/O, holds no state between runs, and never fails
// on data quality: malformed records carry no information and are excluded
// from matching while still counted in the report totals. Output order is
// audit-row iteration order, then transaction-scan order, so a report never
// reorders between runs over the same inputs.
//
// =============================================================================

package reconcile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/troop1303/cookie-audit/internal/match"
	"github.com/troop1303/cookie-audit/internal/normalize"
	"github.com/troop1303/cookie-audit/internal/similarity"
	"github.com/troop1303/cookie-audit/internal/types"
)

// =============================================================================
// ENGINE
// =============================================================================

// Options are the engine's matching tolerances.
type Options struct {
	// MaxNameDistance is the Levenshtein tolerance of the fuzzy
	// counterparty tier.
	MaxNameDistance int

	// Tolerances are the partial tier's quantity and date windows.
	Tolerances match.Tolerances

	// PartialThresholdPct is the minimum usefulness threshold a partial
	// candidate must clear to be reported as a PartialMatch.
	PartialThresholdPct float64
}

// DefaultOptions returns the stock tolerances.
func DefaultOptions() Options {
	return Options{
		MaxNameDistance:     similarity.DefaultMaxDistance,
		Tolerances:          match.DefaultTolerances(),
		PartialThresholdPct: 50,
	}
}

// Engine runs reconciliation passes. It is safe to reuse across runs; each
// run builds its own indexes from the inputs it is handed.
type Engine struct {
	opts Options
}

// New creates an engine with the given options.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// =============================================================================
// RECONCILIATION PASS
// =============================================================================

// Reconcile classifies every matchable audit record against the internal
// transaction set and returns the auditor-facing report.
func (e *Engine) Reconcile(sourceFile string, records []types.AuditRecord, transactions []types.Transaction, sellers []types.Seller, cookies []types.Cookie) *types.Report {
	report := &types.Report{
		RunID:          uuid.New().String(),
		GeneratedAt:    time.Now().Format(time.RFC3339),
		SourceFile:     sourceFile,
		TotalAuditRows: len(records),
		TotalOrders:    len(transactions),
	}

	idx := buildIndexes(transactions, sellers)

	log.Debug().
		Str("run_id", report.RunID).
		Int("audit_rows", len(records)).
		Int("transactions", len(transactions)).
		Int("sellers", len(sellers)).
		Msg("Starting reconciliation pass")

	skipped := 0
	for i := range records {
		record := &records[i]
		if !record.Matchable() {
			// Data-quality exclusion, not an error. Counted in the
			// raw-row total only.
			skipped++
			continue
		}
		report.Matches = append(report.Matches, e.classify(record, idx, cookies)...)
	}

	for _, m := range report.Matches {
		if m.Kind != types.MatchUnmatched {
			report.MatchCount++
		}
	}

	log.Debug().
		Str("run_id", report.RunID).
		Int("matches", report.MatchCount).
		Int("unmatched", report.UnmatchedCount()).
		Int("excluded", skipped).
		Msg("Finished reconciliation pass")

	return report
}

// classify runs the tiers for one audit record. It returns one result per
// perfect-match tie, or exactly one partial/unmatched result.
func (e *Engine) classify(record *types.AuditRecord, idx *indexes, cookies []types.Cookie) []*types.MatchResult {
	name, _ := record.Counterparty()

	// Strict tier: exact date, type, and counterparty name.
	var perfect []*types.MatchResult
	for _, cand := range idx.candidates {
		if cand.date != record.Date || cand.tx.Type != record.Type {
			continue
		}
		if cand.seller == nil || cand.seller.FullName() != name {
			continue
		}
		if match.CookiesEqual(record, cand.tx, cookies) {
			perfect = append(perfect, &types.MatchResult{
				Kind:        types.MatchPerfect,
				Record:      record,
				Transaction: cand.tx,
				Seller:      cand.seller,
				Reasons:     []string{"date, type, counterparty and all cookie quantities equal"},
			})
		}
	}
	if len(perfect) > 0 {
		return perfect
	}

	// Loose tier: same type, date within tolerance, counterparty within
	// edit distance. The best percentage wins; an equal percentage keeps
	// the earlier candidate so output stays deterministic.
	var (
		best       *candidate
		bestResult match.PartialResult
		bestFuzzy  bool
	)
	for _, cand := range idx.candidates {
		if cand.tx.Type != record.Type || cand.seller == nil {
			continue
		}
		if !match.DatesWithinTolerance(record.Date, cand.date, e.opts.Tolerances.DateDays) {
			continue
		}
		sellerName := cand.seller.FullName()
		fuzzy := false
		if sellerName != name {
			if !similarity.FuzzyMatch(&name, &sellerName, e.opts.MaxNameDistance) {
				continue
			}
			fuzzy = true
		}
		partial := match.PartialCookies(record, cand.tx, cookies, e.opts.Tolerances)
		if best == nil || partial.MatchPercentage > bestResult.MatchPercentage {
			best = cand
			bestResult = partial
			bestFuzzy = fuzzy
		}
	}

	if best != nil && bestResult.MatchPercentage >= e.opts.PartialThresholdPct {
		reasons := []string{
			fmt.Sprintf("%d of %d cookie types within tolerance", bestResult.NumberMatched, bestResult.TotalCookieTypes),
		}
		if best.date != record.Date {
			reasons = append(reasons, fmt.Sprintf("dates differ (%s vs %s) within tolerance", record.Date, best.date))
		}
		if bestFuzzy {
			reasons = append(reasons, fmt.Sprintf("counterparty resolved fuzzily (%q vs %q)", name, best.seller.FullName()))
		}
		return []*types.MatchResult{{
			Kind:             types.MatchPartial,
			Record:           record,
			Transaction:      best.tx,
			Seller:           best.seller,
			NumberMatched:    bestResult.NumberMatched,
			TotalCookieTypes: bestResult.TotalCookieTypes,
			MatchPercentage:  bestResult.MatchPercentage,
			Reasons:          reasons,
		}}
	}

	reason := "no transaction passed the date/type/counterparty filter"
	if best != nil {
		reason = fmt.Sprintf("best candidate scored %.0f%%, below the %.0f%% threshold", bestResult.MatchPercentage, e.opts.PartialThresholdPct)
	}
	return []*types.MatchResult{{
		Kind:    types.MatchUnmatched,
		Record:  record,
		Reasons: []string{reason},
	}}
}

// =============================================================================
// SINGLE-ROW PREVIEW
// =============================================================================

// Preview classifies a single audit record without assembling a report.
// The CLI uses it to show an auditor what one export row would do before
// running the full pass.
func (e *Engine) Preview(record *types.AuditRecord, transactions []types.Transaction, sellers []types.Seller, cookies []types.Cookie) []*types.MatchResult {
	if !record.Matchable() {
		return nil
	}
	idx := buildIndexes(transactions, sellers)
	return e.classify(record, idx, cookies)
}

// =============================================================================
// TRANSACTION INDEXES
// =============================================================================

// candidate is one internal transaction with its comparison fields
// precomputed: the normalized date and the counterparty seller on the side
// the transaction actually has.
type candidate struct {
	tx     *types.Transaction
	date   string
	seller *types.Seller
}

type indexes struct {
	candidates []*candidate
}

// buildIndexes precomputes per-transaction comparison data once per run.
// Candidate order follows transaction-scan order.
func buildIndexes(transactions []types.Transaction, sellers []types.Seller) *indexes {
	byID := make(map[int64]*types.Seller, len(sellers))
	for i := range sellers {
		byID[sellers[i].ID] = &sellers[i]
	}

	idx := &indexes{candidates: make([]*candidate, 0, len(transactions))}
	for i := range transactions {
		tx := &transactions[i]
		cand := &candidate{tx: tx, date: normalize.Date(tx.Date)}
		// A transaction's counterparty is whichever seller reference it
		// carries; troop-centric records carry none.
		if tx.From != nil {
			cand.seller = byID[*tx.From]
		} else if tx.To != nil {
			cand.seller = byID[*tx.To]
		}
		idx.candidates = append(idx.candidates, cand)
	}
	return idx
}
