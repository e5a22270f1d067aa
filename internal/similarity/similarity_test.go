package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"N12345678", "N12345678", 0},
		{"N12345678", "N12345679", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a), "distance must be symmetric")
		})
	}
}

func TestDistanceZeroOnlyForEqualStrings(t *testing.T) {
	pairs := [][2]string{{"USA", "USA"}, {"USA", "usa"}, {"DOE", "DOE "}, {"", "a"}}
	for _, p := range pairs {
		assert.Equal(t, p[0] == p[1], Distance(p[0], p[1]) == 0, "%q vs %q", p[0], p[1])
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 1.0, Similarity("GBR", "GBR"))
	assert.Equal(t, 1.0, Similarity("gbr", "GBR"))
	assert.InDelta(t, 0.5, Similarity("abcd", "abxy"), 1e-9)
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}

func TestConfidenceWithExpectation(t *testing.T) {
	// 9 chars -> base 45, exact match -> +30.
	assert.Equal(t, 75, Confidence("N12345678", "n12345678"))
	// One substitution in 9 chars: 45 + 30*8/9 = 71.67.
	assert.Equal(t, 72, Confidence("N12345678", "N12345679"))
	// Long values hit the base ceiling.
	assert.Equal(t, 100, Confidence("ABCDEFGHIJKLMNOP", "ABCDEFGHIJKLMNOP"))
}

func TestConfidenceWithoutExpectationIsDeterministic(t *testing.T) {
	first := Confidence("1985-01-01", "")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Confidence("1985-01-01", ""))
	}
	// 10 plausible chars: 50 + 30.
	assert.Equal(t, 80, first)
	// Blank expectations count as absent.
	assert.Equal(t, first, Confidence("1985-01-01", "   "))
	// Noise lowers the score: 4 chars, half of them plausible -> 20 + 15.
	assert.Equal(t, 35, Confidence("A#B$", ""))
}

func TestConfidenceBounds(t *testing.T) {
	inputs := []string{"", "a", "USA", "%%%%%%%%", "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"}
	for _, extracted := range inputs {
		for _, expected := range inputs {
			c := Confidence(extracted, expected)
			assert.GreaterOrEqual(t, c, 0)
			assert.LessOrEqual(t, c, 100)
		}
	}
	assert.Equal(t, 0, Confidence("", "USA"))
}
