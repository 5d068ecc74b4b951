// internal/match/similarity.go

// Package match provides the string-comparison primitives shared by the
// verification components: name similarity and the comparison strategies
// used by the declarative KYC field table.
package match

import "strings"

// NameSimilarity scores how alike two personal names are, in [0,1].
// Exact match (after lowercasing and trimming) is 1.0, containment either
// way is 0.8, otherwise the Jaccard overlap of the word sets. Empty input
// on either side is 0.0. The function is symmetric.
func NameSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	overlap := 0
	for w := range wordsA {
		if wordsB[w] {
			overlap++
		}
	}
	union := len(wordsA) + len(wordsB) - overlap
	if union == 0 {
		return 0.0
	}
	return float64(overlap) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// Strategy selects how a claimed value is compared against a reference value.
type Strategy int

const (
	// Exact matches after lowercasing and trimming.
	Exact Strategy = iota
	// Substring matches when either normalized value contains the other.
	Substring
	// Similar matches when NameSimilarity reaches SimilarityThreshold.
	Similar
)

// SimilarityThreshold is the cutoff used by the Similar strategy.
const SimilarityThreshold = 0.8

// Compare applies a strategy to a claimed/reference value pair.
func Compare(strategy Strategy, claimed, reference string) bool {
	c := strings.ToLower(strings.TrimSpace(claimed))
	r := strings.ToLower(strings.TrimSpace(reference))

	switch strategy {
	case Exact:
		return c == r
	case Substring:
		if c == "" || r == "" {
			return false
		}
		return strings.Contains(c, r) || strings.Contains(r, c)
	case Similar:
		return NameSimilarity(c, r) >= SimilarityThreshold
	default:
		return false
	}
}

// ContainsFold reports whether either string contains the other,
// case-insensitively. Both must be non-empty.
func ContainsFold(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
