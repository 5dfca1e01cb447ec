package batch

import (
	"fmt"

	"github.com/verte-zerg/holdsplit/internal/chron"
	"github.com/verte-zerg/holdsplit/internal/descparse"
	"github.com/verte-zerg/holdsplit/internal/model"
)

// Result summarizes one pass over a record set.
type Result struct {
	Total         int
	Unmatched     int
	Unresolved    int
	PatternCounts []model.PatternCount
}

// Message is the one-line parse summary shown to the user.
func (r Result) Message() string {
	switch r.Unmatched {
	case 0:
		return "All item descriptions parsed successfully"
	case 1:
		return "Could not parse 1 item description"
	default:
		return fmt.Sprintf("Could not parse %d item descriptions", r.Unmatched)
	}
}

// Run orders records, parses every description with lib, repairs short
// years and canonicalizes month names. records is reordered in place and
// must not be re-sorted afterwards.
func Run(records []*model.Record, lib *descparse.Library) Result {
	if lib == nil {
		lib = descparse.DefaultLibrary()
	}
	Order(records)

	counts := make(map[string]int)
	res := Result{Total: len(records)}
	for _, rec := range records {
		ext, ok := lib.Match(rec.Description)
		if !ok {
			rec.MatchLabel = model.Unmatched
			res.Unmatched++
			counts[model.Unmatched]++
			continue
		}
		ext.Apply(rec)
		counts[ext.Pattern]++
	}

	res.Unresolved = chron.ResolveYears(records)
	chron.NormalizeMonths(records)

	for _, name := range lib.Names() {
		res.PatternCounts = append(res.PatternCounts, model.PatternCount{Pattern: name, Count: counts[name]})
	}
	if res.Unmatched > 0 {
		res.PatternCounts = append(res.PatternCounts, model.PatternCount{Pattern: model.Unmatched, Count: res.Unmatched})
	}
	return res
}
