// Package suggest finds the closest known name for a misspelled one.
package suggest

import "strings"

// DefaultCutoff is the minimum similarity for a candidate to be suggested.
const DefaultCutoff = 0.8

// Closest returns the candidate most similar to input, compared
// case-insensitively. Candidates scoring below cutoff are ignored; ties keep
// the earlier candidate. Returns "" and false when nothing qualifies.
func Closest(input string, candidates []string, cutoff float64) (string, bool) {
	best := ""
	bestScore := -1.0
	for _, candidate := range candidates {
		score := Similarity(input, candidate)
		if score < cutoff || score <= bestScore {
			continue
		}
		best, bestScore = candidate, score
	}
	return best, bestScore >= 0
}

// Similarity returns 1 - distance/maxLen for the case-folded inputs, so 1
// means identical and 0 means nothing in common.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(s1, s2 []rune) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Two rows of the distance matrix are enough
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
