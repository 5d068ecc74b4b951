// internal/match/similarity_test.go
package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{
			name:     "identical names",
			a:        "Marcel Barosanu",
			b:        "Marcel Barosanu",
			expected: 1.0,
		},
		{
			name:     "identical after case and whitespace normalization",
			a:        "  MARCEL BAROSANU ",
			b:        "marcel barosanu",
			expected: 1.0,
		},
		{
			name:     "one contains the other",
			a:        "Marcel",
			b:        "Marcel Barosanu",
			expected: 0.8,
		},
		{
			name:     "word overlap uses jaccard",
			a:        "Marcel Ion Barosanu",
			b:        "Barosanu Vasile",
			expected: 0.25, // 1 shared word / 4 unique words
		},
		{
			name:     "no overlap",
			a:        "Ana Pop",
			b:        "George Enescu",
			expected: 0.0,
		},
		{
			name:     "empty left side",
			a:        "",
			b:        "anything",
			expected: 0.0,
		},
		{
			name:     "empty right side",
			a:        "anything",
			b:        "",
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NameSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestNameSimilarity_Symmetry(t *testing.T) {
	pairs := [][2]string{
		{"Marcel Barosanu", "Barosanu Marcel"},
		{"Ana", "Ana Maria Pop"},
		{"John Smith", "Jane Smith"},
		{"", "x"},
	}
	for _, p := range pairs {
		assert.Equal(t, NameSimilarity(p[0], p[1]), NameSimilarity(p[1], p[0]),
			"similarity must be symmetric for %q / %q", p[0], p[1])
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		strategy  Strategy
		claimed   string
		reference string
		expected  bool
	}{
		{"exact case-insensitive", Exact, "Sibiu", "sibiu", true},
		{"exact mismatch", Exact, "Sibiu", "Cluj", false},
		{"substring claim in reference", Substring, "Nicolae Iancu", "street Nicolae Iancu 12", true},
		{"substring reference in claim", Substring, "street Nicolae Iancu 12", "Nicolae Iancu", true},
		{"substring empty side never matches", Substring, "", "anything", false},
		{"similar above threshold", Similar, "Marcel", "Marcel Barosanu", true},
		{"similar below threshold", Similar, "Marcel Ion Barosanu", "Barosanu Vasile", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compare(tt.strategy, tt.claimed, tt.reference))
		})
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Orange Romania", "orange"))
	assert.True(t, ContainsFold("orange", "Orange Romania SA"))
	assert.False(t, ContainsFold("Orange", "Vodafone"))
	assert.False(t, ContainsFold("", "Orange"))
}
