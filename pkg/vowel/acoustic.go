package vowel

import (
	"fmt"
	"math"
)

// AcousticScorer rates how acoustically close a cluster is to the expected
// vowel, typically from formant measurements. ok=false means no score.
type AcousticScorer interface {
	ScoreVowel(cluster DetectedPhonemeCluster, vowel string, entry VowelMappingEntry) (score float64, ok bool, err error)
}

// AcousticScorerFunc adapts a plain function to [AcousticScorer].
type AcousticScorerFunc func(cluster DetectedPhonemeCluster, vowel string, entry VowelMappingEntry) (float64, bool, error)

// ScoreVowel implements [AcousticScorer].
func (f AcousticScorerFunc) ScoreVowel(cluster DetectedPhonemeCluster, vowel string, entry VowelMappingEntry) (float64, bool, error) {
	return f(cluster, vowel, entry)
}

// callScorer runs s and converts panics into errors. NaN is reported as no
// score; anything else is clamped into [0,1].
func callScorer(s AcousticScorer, cluster DetectedPhonemeCluster, vowel string, entry VowelMappingEntry) (score *float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score = nil
			err = fmt.Errorf("acoustic scorer panicked: %v", r)
		}
	}()
	v, ok, err := s.ScoreVowel(cluster, vowel, entry)
	if err != nil {
		return nil, err
	}
	if !ok || math.IsNaN(v) {
		return nil, nil
	}
	return float64Ptr(clamp01(v)), nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
