package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/troop1303/cookie-audit/internal/normalize"
	"github.com/troop1303/cookie-audit/internal/types"
)

func strPtr(s string) *string { return &s }
func idPtr(v int64) *int64    { return &v }

func seasonCookies() []types.Cookie {
	return []types.Cookie{
		{ID: 1, Name: "Adventurefuls", Abbreviation: "ABC"},
		{ID: 2, Name: "Do-si-dos", Abbreviation: "DEF"},
		{ID: 3, Name: "Thin Mints", Abbreviation: "GHI"},
	}
}

func roster() []types.Seller {
	return []types.Seller{
		{ID: 3, FirstName: "Jane", LastName: "Doe"},
		{ID: 4, FirstName: "Mary", LastName: "Smith"},
	}
}

func auditRecord(row int, date string, from string, quantities map[string]int) types.AuditRecord {
	return types.AuditRecord{
		RowNumber:  row,
		Date:       date,
		Type:       types.TypeGirlToTroop,
		From:       strPtr(from),
		Quantities: quantities,
	}
}

func TestReconcilePerfectMatch(t *testing.T) {
	records := []types.AuditRecord{
		auditRecord(2, "2024-01-15", "Jane Doe", map[string]int{"ABC": -5}),
	}
	transactions := []types.Transaction{
		{ID: 34, Date: "2024-01-15", Type: types.TypeGirlToTroop, From: idPtr(3), Cookies: map[string]int{"ABC": -5}, OrderNumber: "da103"},
	}

	report := New(DefaultOptions()).Reconcile("export.csv", records, transactions, roster(), seasonCookies())

	require.Len(t, report.Matches, 1)
	m := report.Matches[0]
	assert.Equal(t, types.MatchPerfect, m.Kind)
	assert.Equal(t, int64(34), m.Transaction.ID)
	assert.Equal(t, "Jane Doe", m.Seller.FullName())
	assert.Equal(t, 1, report.MatchCount)
	assert.Equal(t, 0, report.UnmatchedCount())
}

func TestReconcilePerfectTiesAllReported(t *testing.T) {
	records := []types.AuditRecord{
		auditRecord(2, "2024-01-15", "Jane Doe", map[string]int{"ABC": -5}),
	}
	transactions := []types.Transaction{
		{ID: 34, Date: "2024-01-15", Type: types.TypeGirlToTroop, From: idPtr(3), Cookies: map[string]int{"ABC": -5}},
		{ID: 35, Date: "2024-01-15", Type: types.TypeGirlToTroop, From: idPtr(3), Cookies: map[string]int{"ABC": -5}},
	}

	report := New(DefaultOptions()).Reconcile("export.csv", records, transactions, roster(), seasonCookies())

	require.Len(t, report.Matches, 2, "ambiguous perfect matches all go to the auditor")
	assert.Equal(t, int64(34), report.Matches[0].Transaction.ID)
	assert.Equal(t, int64(35), report.Matches[1].Transaction.ID)
	for _, m := range report.Matches {
		assert.Equal(t, types.MatchPerfect, m.Kind)
	}
}

func TestReconcilePartialMatch(t *testing.T) {
	// One package off and a typo in the counterparty name: still the same
	// sale to a human auditor.
	records := []types.AuditRecord{
		auditRecord(2, "2024-01-15", "Jane Doh", map[string]int{"ABC": -5}),
	}
	transactions := []types.Transaction{
		{ID: 34, Date: "2024-01-16", Type: types.TypeGirlToTroop, From: idPtr(3), Cookies: map[string]int{"ABC": -4}},
	}

	report := New(DefaultOptions()).Reconcile("export.csv", records, transactions, roster(), seasonCookies())

	require.Len(t, report.Matches, 1)
	m := report.Matches[0]
	assert.Equal(t, types.MatchPartial, m.Kind)
	assert.Equal(t, int64(34), m.Transaction.ID)
	assert.Equal(t, 1, m.NumberMatched)
	assert.Equal(t, 1, m.TotalCookieTypes)
	assert.Equal(t, 100.0, m.MatchPercentage)
	assert.NotEmpty(t, m.Reasons)
}

func TestReconcileBelowThresholdIsUnmatched(t *testing.T) {
	records := []types.AuditRecord{
		auditRecord(2, "2024-01-15", "Jane Doe", map[string]int{"ABC": -5}),
	}
	transactions := []types.Transaction{
		{ID: 34, Date: "2024-01-15", Type: types.TypeGirlToTroop, From: idPtr(3), Cookies: map[string]int{"ABC": -2}},
	}

	report := New(DefaultOptions()).Reconcile("export.csv", records, transactions, roster(), seasonCookies())

	require.Len(t, report.Matches, 1)
	m := report.Matches[0]
	assert.Equal(t, types.MatchUnmatched, m.Kind)
	assert.Nil(t, m.Transaction)
	assert.Equal(t, 0, report.MatchCount)
	assert.Equal(t, 1, report.UnmatchedCount())
}

func TestReconcilePartialTieKeepsEarlierCandidate(t *testing.T) {
	records := []types.AuditRecord{
		auditRecord(2, "2024-01-15", "Jane Doe", map[string]int{"ABC": -5}),
	}
	transactions := []types.Transaction{
		{ID: 10, Date: "2024-01-15", Type: types.TypeGirlToTroop, From: idPtr(3), Cookies: map[string]int{"ABC": -4}},
		{ID: 11, Date: "2024-01-15", Type: types.TypeGirlToTroop, From: idPtr(3), Cookies: map[string]int{"ABC": -6}},
	}

	report := New(DefaultOptions()).Reconcile("export.csv", records, transactions, roster(), seasonCookies())

	require.Len(t, report.Matches, 1)
	m := report.Matches[0]
	assert.Equal(t, types.MatchPartial, m.Kind)
	assert.Equal(t, int64(10), m.Transaction.ID, "equal scores keep transaction-scan order")
}

func TestReconcileExcludesUnmatchableRows(t *testing.T) {
	records := []types.AuditRecord{
		{RowNumber: 2},
		auditRecord(3, "2024-01-15", "Jane Doe", map[string]int{"ABC": -5}),
	}
	transactions := []types.Transaction{
		{ID: 34, Date: "2024-01-15", Type: types.TypeGirlToTroop, From: idPtr(3), Cookies: map[string]int{"ABC": -5}},
	}

	report := New(DefaultOptions()).Reconcile("export.csv", records, transactions, roster(), seasonCookies())

	assert.Equal(t, 2, report.TotalAuditRows, "excluded rows still count in the raw total")
	require.Len(t, report.Matches, 1)
	assert.Equal(t, 3, report.Matches[0].Record.RowNumber)
}

func TestReconcileSkipsTroopCentricTransactions(t *testing.T) {
	records := []types.AuditRecord{
		auditRecord(2, "2024-01-15", "Jane Doe", map[string]int{"ABC": -5}),
	}
	// A troop-to-troop transfer carries no seller reference and can never
	// resolve a counterparty.
	transactions := []types.Transaction{
		{ID: 50, Date: "2024-01-15", Type: types.TypeGirlToTroop, Cookies: map[string]int{"ABC": -5}},
	}

	report := New(DefaultOptions()).Reconcile("export.csv", records, transactions, roster(), seasonCookies())

	require.Len(t, report.Matches, 1)
	assert.Equal(t, types.MatchUnmatched, report.Matches[0].Kind)
}

func TestReconcileDeterministicAcrossRuns(t *testing.T) {
	records := []types.AuditRecord{
		auditRecord(2, "2024-01-15", "Jane Doe", map[string]int{"ABC": -5}),
		auditRecord(3, "2024-01-16", "Mary Smith", map[string]int{"DEF": 3}),
	}
	transactions := []types.Transaction{
		{ID: 34, Date: "2024-01-15", Type: types.TypeGirlToTroop, From: idPtr(3), Cookies: map[string]int{"ABC": -5}},
		{ID: 35, Date: "2024-01-16", Type: types.TypeGirlToTroop, From: idPtr(4), Cookies: map[string]int{"DEF": 3}},
	}

	engine := New(DefaultOptions())
	first := engine.Reconcile("export.csv", records, transactions, roster(), seasonCookies())
	second := engine.Reconcile("export.csv", records, transactions, roster(), seasonCookies())

	require.Equal(t, len(first.Matches), len(second.Matches))
	for i := range first.Matches {
		assert.Equal(t, first.Matches[i].Kind, second.Matches[i].Kind)
		assert.Equal(t, first.Matches[i].Record.RowNumber, second.Matches[i].Record.RowNumber)
	}
}

func TestPreview(t *testing.T) {
	engine := New(DefaultOptions())

	t.Run("classifies one record", func(t *testing.T) {
		record := auditRecord(2, "2024-01-15", "Jane Doe", map[string]int{"ABC": -5})
		transactions := []types.Transaction{
			{ID: 34, Date: "2024-01-15", Type: types.TypeGirlToTroop, From: idPtr(3), Cookies: map[string]int{"ABC": -5}},
		}

		results := engine.Preview(&record, transactions, roster(), seasonCookies())
		require.Len(t, results, 1)
		assert.Equal(t, types.MatchPerfect, results[0].Kind)
	})

	t.Run("unmatchable record yields nothing", func(t *testing.T) {
		record := types.AuditRecord{RowNumber: 2}
		results := engine.Preview(&record, nil, roster(), seasonCookies())
		assert.Nil(t, results)
	})
}

// Exercises the full path from raw export cells to a classification, the
// way the reconcile command strings the packages together.
func TestReconcileFromRawExport(t *testing.T) {
	export := &types.ExportData{
		Headers: append(normalize.FixedHeaders(), "ABC", "DEF", "GHI"),
		Rows: []types.RawRow{
			{Number: 2, Cells: []string{"1/15/2024", "DA103", "COOKIE_SHARE", "Jane Doe", "", "DELIVERED", "5", "$30.00", "5", "", ""}},
		},
		SourceFile: "export.csv",
	}
	transactions := []types.Transaction{
		{ID: 34, Date: "2024-01-15", Type: types.TypeGirlToTroop, From: idPtr(3), Cookies: map[string]int{"ABC": -5}, OrderNumber: "da103"},
	}

	records := normalize.BuildRecords(export, seasonCookies())
	report := New(DefaultOptions()).Reconcile(export.SourceFile, records, transactions, roster(), seasonCookies())

	require.Len(t, report.Matches, 1)
	assert.Equal(t, types.MatchPerfect, report.Matches[0].Kind)
	assert.Equal(t, 1, report.TotalAuditRows)
	assert.Equal(t, 1, report.TotalOrders)
	assert.Equal(t, "export.csv", report.SourceFile)
}
