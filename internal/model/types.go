// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	List       string
	Words      int
	Inherent   bool
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Vowels      string
}

// AttemptStats captures one analyzed utterance.
type AttemptStats struct {
	Ref           string
	CreatedAt     time.Time
	Prompt        string
	Expected      []string
	Threshold     float64
	Matched       int
	Missed        int
	ConfidenceSum float64
	DurationMs    int64
}

// VowelStats stores per-vowel results for an attempt.
type VowelStats struct {
	Vowel          string
	Matched        int
	Missed         int
	ConfidenceSum  float64
	Assessed       int
	DeviationSumMs float64
	DeviationCount int64
}

// VowelAggregate aggregates vowel stats across attempts.
type VowelAggregate struct {
	Vowel          string
	Matched        int
	Missed         int
	ConfidenceSum  float64
	Assessed       int
	DeviationSumMs float64
	DeviationCount int64
}

// AttemptAggregate summarizes an attempt for reporting.
type AttemptAggregate struct {
	AttemptID     int64
	Ref           string
	CreatedAt     time.Time
	Matched       int
	Missed        int
	ConfidenceSum float64
	DurationMs    int64
}
