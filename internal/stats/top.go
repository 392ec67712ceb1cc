package stats

import (
	"sort"

	"github.com/verte-zerg/bolo/internal/model"
)

// TopVowelsByFrequency returns the n most practiced vowels.
func TopVowelsByFrequency(aggs []model.VowelAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := append([]model.VowelAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		ti := sorted[i].Matched + sorted[i].Missed
		tj := sorted[j].Matched + sorted[j].Missed
		if ti == tj {
			return sorted[i].Vowel < sorted[j].Vowel
		}
		return ti > tj
	})
	n = min(n, len(sorted))
	out := make([]string, n)
	for i := range out {
		out[i] = sorted[i].Vowel
	}
	return out
}
