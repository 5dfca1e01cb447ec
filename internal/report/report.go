// Package report renders parse summaries and run history.
package report

import (
	"context"

	"github.com/verte-zerg/holdsplit/internal/model"
	"github.com/verte-zerg/holdsplit/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Runs     []model.Run
	Patterns []model.PatternCount
}

// BuildReport loads runs matching filter and their pattern totals.
func BuildReport(ctx context.Context, st *store.Store, filter model.HistoryFilter) (Report, error) {
	runs, err := st.ListRuns(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	patterns, err := st.ListPatternCounts(ctx, runIDs(runs))
	if err != nil {
		return Report{}, err
	}
	return Report{Runs: runs, Patterns: patterns}, nil
}

func runIDs(runs []model.Run) []string {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	return ids
}
