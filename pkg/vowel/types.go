package vowel

// PhonemePrediction is one timestamped phoneme emitted by a recognizer.
// Times are in seconds. Nil fields mean the recognizer did not report them.
type PhonemePrediction struct {
	Phoneme    string   `json:"phoneme"`
	Start      *float64 `json:"start"`
	End        *float64 `json:"end"`
	Confidence *float64 `json:"confidence"`
}

// VowelMappingEntry is the reference configuration for one vowel.
//
// The first phoneme sequence is the canonical realization used for edit
// distance. Every sequence, canonical or alternate, feeds the phoneme lookup
// used when collapsing predictions into clusters.
type VowelMappingEntry struct {
	PhonemeSequences  [][]string         `json:"phoneme_sequences" yaml:"phonemes"`
	AverageDurationMs *float64           `json:"average_duration_ms" yaml:"average_duration_ms,omitempty"`
	FormantTargets    map[string]float64 `json:"formant_targets" yaml:"formant_targets,omitempty"`
}

// Canonical returns the primary phoneme sequence, or nil when none is set.
func (e VowelMappingEntry) Canonical() []string {
	if len(e.PhonemeSequences) == 0 {
		return nil
	}
	return e.PhonemeSequences[0]
}

// DetectedPhonemeCluster summarizes a contiguous run of predictions
// attributed to one vowel.
type DetectedPhonemeCluster struct {
	Phonemes          []string `json:"phonemes"`
	Start             *float64 `json:"start"`
	End               *float64 `json:"end"`
	DurationMs        *float64 `json:"duration_ms"`
	AverageConfidence *float64 `json:"average_confidence"`
}

// VowelScoreDetails breaks an assessment down into its sub-scores.
// A nil field means the signal was unavailable.
type VowelScoreDetails struct {
	LevenshteinDistance  *int     `json:"levenshtein_distance"`
	PhonemeSimilarity    *float64 `json:"phoneme_similarity"`
	DurationScore        *float64 `json:"duration_score"`
	DurationDifferenceMs *float64 `json:"duration_difference_ms"`
	FormantSimilarity    *float64 `json:"formant_similarity"`
	OverallScore         *float64 `json:"overall_score"`
}

// VowelAssessment is the verdict for one expected vowel occurrence.
type VowelAssessment struct {
	ExpectedVowel   string                  `json:"expected_vowel"`
	DetectedCluster *DetectedPhonemeCluster `json:"detected_cluster"`
	Confidence      float64                 `json:"confidence"`
	Match           bool                    `json:"match"`
	Scores          VowelScoreDetails       `json:"scores"`
}

// VowelFeedback is the report for one utterance.
//
// Assessments is keyed by vowel symbol; when a symbol repeats in the expected
// list the later occurrence wins. Sequence keeps every assessment in expected
// order, so repeated vowels stay visible.
type VowelFeedback struct {
	Assessments map[string]VowelAssessment `json:"assessments"`
	Sequence    []VowelAssessment          `json:"sequence"`
}

// FeedbackSummary aggregates a feedback report over its positional sequence.
type FeedbackSummary struct {
	Total          int
	Matched        int
	Detected       int
	ConfidenceSum  float64
	MeanConfidence float64
}

// Summary counts matches and averages confidence over every occurrence.
func (f VowelFeedback) Summary() FeedbackSummary {
	var s FeedbackSummary
	for _, a := range f.Sequence {
		s.Total++
		s.ConfidenceSum += a.Confidence
		if a.Match {
			s.Matched++
		}
		if a.DetectedCluster != nil {
			s.Detected++
		}
	}
	if s.Total > 0 {
		s.MeanConfidence = s.ConfidenceSum / float64(s.Total)
	}
	return s
}
