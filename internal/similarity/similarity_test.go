package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "Jane Doe", "Jane Doe", 0},
		{"case folded", "JANE DOE", "jane doe", 0},
		{"classic kitten sitting", "kitten", "sitting", 3},
		{"empty left", "", "hello", 5},
		{"empty right", "hello", "", 5},
		{"both empty", "", "", 0},
		{"single substitution", "hello", "hallo", 1},
		{"single insertion", "Jane Doe", "Jane Does", 1},
		{"transposed letters", "Jnae Doe", "Jane Doe", 2},
		{"unrelated names", "Jane Doe", "Mary Smith", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "distance must be symmetric")
		})
	}
}

func TestFuzzyMatch(t *testing.T) {
	jane := "Jane Doe"
	janeTypo := "Jnae Doe"
	mary := "Mary Smith"

	t.Run("both absent match", func(t *testing.T) {
		assert.True(t, FuzzyMatch(nil, nil, 2))
	})

	t.Run("absent never matches present", func(t *testing.T) {
		assert.False(t, FuzzyMatch(&jane, nil, 2))
		assert.False(t, FuzzyMatch(nil, &jane, 2))
	})

	t.Run("within tolerance", func(t *testing.T) {
		assert.True(t, FuzzyMatch(&jane, &janeTypo, 2))
	})

	t.Run("beyond tolerance", func(t *testing.T) {
		assert.False(t, FuzzyMatch(&jane, &mary, 2))
	})

	t.Run("exact only at zero tolerance", func(t *testing.T) {
		assert.True(t, FuzzyMatch(&jane, &jane, 0))
		assert.False(t, FuzzyMatch(&jane, &janeTypo, 0))
	})

	t.Run("negative tolerance uses default", func(t *testing.T) {
		assert.True(t, FuzzyMatch(&jane, &janeTypo, -1))
		assert.False(t, FuzzyMatch(&jane, &mary, -1))
	})
}
