// Package batch drives description parsing and chronology repair over a
// whole set of holdings records.
package batch

import (
	"sort"
	"strconv"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/verte-zerg/holdsplit/internal/model"
)

var volumePattern = func() *regexp2.Regexp {
	re := regexp2.MustCompile(`^(?:ser\.?\s*)?([0-9]+)?\s*(?:vo?l?\.?\s*)([0-9]+)`, regexp2.IgnoreCase)
	re.MatchTimeout = time.Second
	return re
}()

// VolumeKey extracts the numeric series and volume from a description.
// A component that is absent is 0.
func VolumeKey(desc string) (series, volume int) {
	m, err := volumePattern.FindStringMatch(desc)
	if err != nil || m == nil {
		return 0, 0
	}
	return groupInt(m, 1), groupInt(m, 2)
}

func groupInt(m *regexp2.Match, n int) int {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return 0
	}
	v, err := strconv.Atoi(g.String())
	if err != nil {
		return 0
	}
	return v
}

type orderKey struct {
	title  string
	series int
	volume int
	desc   string
}

func keyOf(r *model.Record) orderKey {
	series, volume := VolumeKey(r.Description)
	return orderKey{title: r.TitleID, series: series, volume: volume, desc: r.Description}
}

func (a orderKey) less(b orderKey) bool {
	if a.title != b.title {
		return a.title < b.title
	}
	if a.series != b.series {
		return a.series < b.series
	}
	if a.volume != b.volume {
		return a.volume < b.volume
	}
	return a.desc < b.desc
}

// Order sorts records in place by title, then series, volume and full
// description. Equal keys keep their input order.
func Order(records []*model.Record) {
	keys := make(map[*model.Record]orderKey, len(records))
	for _, r := range records {
		keys[r] = keyOf(r)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return keys[records[i]].less(keys[records[j]])
	})
}
