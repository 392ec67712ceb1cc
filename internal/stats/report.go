package stats

import (
	"context"

	"github.com/verte-zerg/bolo/internal/model"
	"github.com/verte-zerg/bolo/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Attempts         []model.AttemptAggregate
	WindowAttemptIDs []int64
	VowelAggsAll     []model.VowelAggregate
	VowelAggsWindow  []model.VowelAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	attempts, err := st.ListAttempts(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(attempts) > cfg.Last {
		attempts = attempts[len(attempts)-cfg.Last:]
	}

	windowIDs := attemptIDs(attempts)
	if cfg.CurveWindow > 0 && len(attempts) > cfg.CurveWindow {
		windowIDs = attemptIDs(attempts[len(attempts)-cfg.CurveWindow:])
	}
	all, err := st.ListVowelAggregatesForAttempts(ctx, attemptIDs(attempts))
	if err != nil {
		return Report{}, err
	}
	window, err := st.ListVowelAggregatesForAttempts(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Attempts:         attempts,
		WindowAttemptIDs: windowIDs,
		VowelAggsAll:     all,
		VowelAggsWindow:  window,
	}, nil
}

// AttemptIDs returns the ids of the report's attempts in order.
func (r Report) AttemptIDs() []int64 {
	return attemptIDs(r.Attempts)
}

func attemptIDs(attempts []model.AttemptAggregate) []int64 {
	ids := make([]int64, len(attempts))
	for i, a := range attempts {
		ids[i] = a.AttemptID
	}
	return ids
}
