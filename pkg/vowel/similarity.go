package vowel

import "math"

// Levenshtein returns the token edit distance between expected and detected
// with unit insertion, deletion and substitution costs.
func Levenshtein(expected, detected []string) int {
	if len(expected) == 0 {
		return len(detected)
	}
	if len(detected) == 0 {
		return len(expected)
	}

	prev := make([]int, len(detected)+1)
	curr := make([]int, len(detected)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(expected); i++ {
		curr[0] = i
		for j := 1; j <= len(detected); j++ {
			cost := 1
			if expected[i-1] == detected[j-1] {
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
	return prev[len(detected)]
}

// Similarity returns the edit distance and its normalization into [0,1]:
// 1 - distance/max(len(expected), len(detected), 1), floored at 0.
func Similarity(expected, detected []string) (int, float64) {
	distance := Levenshtein(expected, detected)
	baseline := max(len(expected), len(detected), 1)
	return distance, math.Max(0, 1-float64(distance)/float64(baseline))
}
