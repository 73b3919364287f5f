package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCounterparty(t *testing.T) {
	tests := []struct {
		name   string
		record AuditRecord
		want   string
		wantOK bool
	}{
		{"from preferred", AuditRecord{From: strPtr("Jane Doe"), To: strPtr("Troop 1303")}, "Jane Doe", true},
		{"falls back to to", AuditRecord{To: strPtr("Jane Doe")}, "Jane Doe", true},
		{"empty from is absent", AuditRecord{From: strPtr(""), To: strPtr("Jane Doe")}, "Jane Doe", true},
		{"neither party", AuditRecord{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.record.Counterparty()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestMatchable(t *testing.T) {
	full := AuditRecord{Date: "2024-01-15", Type: TypeGirlToTroop, From: strPtr("Jane Doe")}
	assert.True(t, full.Matchable())

	noDate := AuditRecord{Type: TypeGirlToTroop, From: strPtr("Jane Doe")}
	assert.False(t, noDate.Matchable())

	noType := AuditRecord{Date: "2024-01-15", From: strPtr("Jane Doe")}
	assert.False(t, noType.Matchable())

	noParty := AuditRecord{Date: "2024-01-15", Type: TypeCookieToTroop}
	assert.False(t, noParty.Matchable())
}

func TestSellerFullName(t *testing.T) {
	s := Seller{ID: 3, FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Jane Doe", s.FullName())
}

func TestMatchResultString(t *testing.T) {
	record := &AuditRecord{RowNumber: 7}
	tx := &Transaction{ID: 34}

	perfect := &MatchResult{Kind: MatchPerfect, Record: record, Transaction: tx}
	assert.Equal(t, "row 7: perfect match against transaction 34", perfect.String())

	partial := &MatchResult{Kind: MatchPartial, Record: record, Transaction: tx, MatchPercentage: 66.7}
	assert.Equal(t, "row 7: partial match (67%) against transaction 34", partial.String())

	unmatched := &MatchResult{Kind: MatchUnmatched, Record: record}
	assert.Equal(t, "row 7: unmatched", unmatched.String())
}

func TestReportUnmatchedCount(t *testing.T) {
	report := Report{
		Matches: []*MatchResult{
			{Kind: MatchPerfect},
			{Kind: MatchUnmatched},
			{Kind: MatchPartial},
			{Kind: MatchUnmatched},
		},
	}
	assert.Equal(t, 2, report.UnmatchedCount())
}
