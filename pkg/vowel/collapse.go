package vowel

// Cluster is a maximal run of consecutive predictions mapped to one vowel.
type Cluster struct {
	Vowel       string
	Predictions []PhonemePrediction
}

// Collapse partitions predictions into vowel-labelled clusters in input
// order. Phonemes absent from the table end the current run and are dropped.
func (t *MappingTable) Collapse(predictions []PhonemePrediction) []Cluster {
	var clusters []Cluster
	var current Cluster

	flush := func() {
		if len(current.Predictions) > 0 {
			clusters = append(clusters, current)
		}
		current = Cluster{}
	}

	for _, p := range predictions {
		v, ok := t.lookup[p.Phoneme]
		if !ok {
			flush()
			continue
		}
		if len(current.Predictions) > 0 && current.Vowel != v {
			flush()
		}
		current.Vowel = v
		current.Predictions = append(current.Predictions, p)
	}
	flush()
	return clusters
}

// BuildCluster summarizes predictions: min start, max end, duration in
// milliseconds when both ends are known, and mean confidence over the
// predictions that report one.
func BuildCluster(predictions []PhonemePrediction) DetectedPhonemeCluster {
	c := DetectedPhonemeCluster{Phonemes: make([]string, 0, len(predictions))}
	var confSum float64
	var confCount int
	for _, p := range predictions {
		c.Phonemes = append(c.Phonemes, p.Phoneme)
		if p.Start != nil && (c.Start == nil || *p.Start < *c.Start) {
			c.Start = float64Ptr(*p.Start)
		}
		if p.End != nil && (c.End == nil || *p.End > *c.End) {
			c.End = float64Ptr(*p.End)
		}
		if p.Confidence != nil {
			confSum += *p.Confidence
			confCount++
		}
	}
	if c.Start != nil && c.End != nil {
		// end < start is malformed input; report a zero-length cluster.
		d := (*c.End - *c.Start) * 1000
		if d < 0 {
			d = 0
		}
		c.DurationMs = &d
	}
	if confCount > 0 {
		c.AverageConfidence = float64Ptr(confSum / float64(confCount))
	}
	return c
}

func float64Ptr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}
