// =============================================================================
// Cookie Audit - String Similarity
// =============================================================================
//
// Edit-distance matching for counterparty names. Vendor exports record the
// selling girl's name as typed by a parent volunteer, so the troop's records
// and the vendor's records routinely disagree by a typo or a nickname
// suffix. The tolerance here absorbs that noise without conflating distinct
// sellers.
//
// =============================================================================

package similarity

import "strings"

// DefaultMaxDistance is the edit-distance tolerance used when callers have
// no season-specific override.
const DefaultMaxDistance = 2

// Levenshtein computes the edit distance between two strings, case folded
// before comparison. Deletions, insertions and substitutions all cost 1.
// The full cost matrix is computed; names are short enough that banding or
// early termination would buy nothing.
func Levenshtein(a, b string) int {
	r1 := []rune(strings.ToLower(a))
	r2 := []rune(strings.ToLower(b))
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}
	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len1][len2]
}

// FuzzyMatch reports whether two optional strings are equal within
// maxDistance edits. Two absent values compare equal; an absent value never
// matches a present one. A maxDistance below zero falls back to
// DefaultMaxDistance.
func FuzzyMatch(a, b *string, maxDistance int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if maxDistance < 0 {
		maxDistance = DefaultMaxDistance
	}
	return Levenshtein(*a, *b) <= maxDistance
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
