// Package vowel scores a learner's vowel pronunciation from a recognizer's
// phoneme stream.
//
// An [Analyzer] works in three stages:
//
//  1. Collapse: the time-ordered predictions are partitioned into maximal
//     runs of phonemes that map to the same vowel in the [MappingTable].
//     Unmapped phonemes (consonants, fillers, silence) separate runs and are
//     discarded.
//
//  2. Align: the expected vowels are walked in order with a single forward
//     cursor over the clusters. Each expected vowel consumes clusters until it
//     finds one with its own label; skipped clusters are never revisited.
//
//  3. Score: a matched cluster is compared to the vowel's canonical phoneme
//     sequence (edit distance), its canonical duration, and an optional
//     [AcousticScorer]. Present sub-scores are combined with weights
//     0.6/0.2/0.2, renormalized over the components that are available.
//
// Analysis is pure and synchronous. An Analyzer is read-only after
// construction and safe for concurrent use.
package vowel

import (
	"go.uber.org/zap"
)

const (
	// DefaultMatchThreshold is the confidence needed for a match.
	DefaultMatchThreshold = 0.6

	similarityWeight = 0.6
	durationWeight   = 0.2
	acousticWeight   = 0.2
)

// Option configures an [Analyzer].
type Option func(*Analyzer)

// WithThreshold sets the minimum overall score for a match. Default: 0.6.
func WithThreshold(threshold float64) Option {
	return func(a *Analyzer) {
		a.threshold = threshold
	}
}

// WithAcousticScorer installs an acoustic scoring hook.
func WithAcousticScorer(s AcousticScorer) Option {
	return func(a *Analyzer) {
		a.acoustic = s
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Analyzer scores phoneme predictions against expected vowels.
type Analyzer struct {
	table     *MappingTable
	threshold float64
	acoustic  AcousticScorer
	logger    *zap.Logger
}

// New returns an Analyzer over table. A nil table selects
// [DefaultMappingTable].
func New(table *MappingTable, opts ...Option) *Analyzer {
	if table == nil {
		table = DefaultMappingTable()
	}
	a := &Analyzer{
		table:     table,
		threshold: DefaultMatchThreshold,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Table returns the mapping table the analyzer scores against.
func (a *Analyzer) Table() *MappingTable {
	return a.table
}

// Threshold returns the configured match threshold.
func (a *Analyzer) Threshold() float64 {
	return a.threshold
}

// Collapse groups predictions into vowel clusters using the analyzer's table.
func (a *Analyzer) Collapse(predictions []PhonemePrediction) []Cluster {
	return a.table.Collapse(predictions)
}

// Analyze produces one assessment per expected vowel occurrence.
func (a *Analyzer) Analyze(expected []string, predictions []PhonemePrediction) VowelFeedback {
	clusters := a.table.Collapse(predictions)
	a.logger.Debug("collapsed phoneme stream",
		zap.Int("predictions", len(predictions)),
		zap.Int("clusters", len(clusters)),
		zap.Int("expected", len(expected)))

	feedback := VowelFeedback{
		Assessments: make(map[string]VowelAssessment, len(expected)),
		Sequence:    make([]VowelAssessment, 0, len(expected)),
	}
	cursor := 0
	for i, want := range expected {
		var found []PhonemePrediction
		for cursor < len(clusters) {
			c := clusters[cursor]
			cursor++
			if c.Vowel == want {
				found = c.Predictions
				break
			}
			a.logger.Debug("skipping cluster",
				zap.Int("position", i),
				zap.String("expected", want),
				zap.String("cluster_vowel", c.Vowel))
		}

		assessment := a.assess(want, found)
		feedback.Assessments[want] = assessment
		feedback.Sequence = append(feedback.Sequence, assessment)
	}
	return feedback
}

func (a *Analyzer) assess(want string, predictions []PhonemePrediction) VowelAssessment {
	if len(predictions) == 0 {
		a.logger.Debug("no cluster for vowel", zap.String("vowel", want))
		return VowelAssessment{
			ExpectedVowel: want,
			Confidence:    0,
			Match:         false,
		}
	}

	cluster := BuildCluster(predictions)
	entry, known := a.table.Entry(want)

	distance, similarity := Similarity(entry.Canonical(), cluster.Phonemes)
	scores := VowelScoreDetails{
		LevenshteinDistance: intPtr(distance),
		PhonemeSimilarity:   float64Ptr(similarity),
	}
	if known {
		scores.DurationScore, scores.DurationDifferenceMs = DurationScore(cluster.DurationMs, entry.AverageDurationMs)
		if a.acoustic != nil {
			acoustic, err := callScorer(a.acoustic, cluster, want, entry)
			if err != nil {
				a.logger.Warn("acoustic scorer failed; continuing without it",
					zap.String("vowel", want),
					zap.Error(err))
			}
			scores.FormantSimilarity = acoustic
		}
	}

	overall := aggregate(similarity, scores.DurationScore, scores.FormantSimilarity)
	scores.OverallScore = float64Ptr(overall)

	a.logger.Debug("assessed vowel",
		zap.String("vowel", want),
		zap.Strings("phonemes", cluster.Phonemes),
		zap.Int("distance", distance),
		zap.Float64("overall", overall))

	return VowelAssessment{
		ExpectedVowel:   want,
		DetectedCluster: &cluster,
		Confidence:      overall,
		Match:           overall >= a.threshold,
		Scores:          scores,
	}
}

// aggregate combines the present sub-scores with fixed weights, dividing by
// the total weight actually used.
func aggregate(similarity float64, duration, acoustic *float64) float64 {
	sum := similarity * similarityWeight
	weight := similarityWeight
	if duration != nil {
		sum += *duration * durationWeight
		weight += durationWeight
	}
	if acoustic != nil {
		sum += *acoustic * acousticWeight
		weight += acousticWeight
	}
	if weight == 0 {
		return 0
	}
	return clamp01(sum / weight)
}
