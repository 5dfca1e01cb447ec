// Package chron repairs chronology fields after description parsing.
package chron

import (
	"fmt"
	"math"
	"strconv"

	"github.com/verte-zerg/holdsplit/internal/model"
)

// UnresolvedNote is appended to a record whose short year has no anchor.
const UnresolvedNote = "Err: Problem interpreting Chron I"

const (
	fullYearWidth = 4
	centurySize   = 100
)

// Window is the context used to expand one abbreviated year. Prev and Next
// are the nearest four-digit years in the same title, or "" when unknown.
type Window struct {
	Prev     string
	Fragment string
	Next     string
}

// ResolveYears expands abbreviated years in ChronI using the nearest
// four-digit years of neighbouring records with the same TitleID.
//
// Records must already be in title-local order. Each title group is walked
// front to back and repaired in place, so a resolved record anchors the ones
// after it. It returns the number of records that could not be resolved.
func ResolveYears(records []*model.Record) int {
	unresolved := 0
	for start := 0; start < len(records); {
		end := start + 1
		for end < len(records) && records[end].TitleID == records[start].TitleID {
			end++
		}
		unresolved += resolveGroup(records[start:end])
		start = end
	}
	return unresolved
}

func resolveGroup(group []*model.Record) int {
	// Records after the cursor are still untouched, so their anchors can be
	// indexed up front. Anchors before the cursor are tracked as we go.
	next := make([]int, len(group))
	after := -1
	for i := len(group) - 1; i >= 0; i-- {
		next[i] = after
		if isFullYear(group[i].ChronI) {
			after = i
		}
	}

	unresolved := 0
	prev := -1
	for i, rec := range group {
		fragment, rest, ok := SplitYear(rec.ChronI)
		if ok && len(fragment) < fullYearWidth {
			w := Window{Fragment: fragment}
			if prev >= 0 {
				w.Prev, _, _ = SplitYear(group[prev].ChronI)
			}
			if next[i] >= 0 {
				w.Next, _, _ = SplitYear(group[next[i]].ChronI)
			}
			if year, ok := w.Resolve(); ok {
				rec.ChronI = year + rest
			} else {
				rec.AppendNote(UnresolvedNote)
				unresolved++
			}
		}
		if isFullYear(rec.ChronI) {
			prev = i
		}
	}
	return unresolved
}

// SplitYear splits s into its leading ASCII digits and the remainder.
func SplitYear(s string) (digits, rest string, ok bool) {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 {
		return "", s, false
	}
	return s[:n], s[n:], true
}

func isFullYear(s string) bool {
	digits, _, ok := SplitYear(s)
	return ok && len(digits) == fullYearWidth
}

// Resolve returns the four-digit year the fragment most likely stands for.
// It reports false when neither neighbour is known.
func (w Window) Resolve() (string, bool) {
	if w.Fragment == "" || len(w.Fragment) >= fullYearWidth {
		return "", false
	}
	frag, err := strconv.Atoi(w.Fragment)
	if err != nil {
		return "", false
	}

	switch {
	case w.Prev != "" && w.Next != "":
		return w.between(frag), true
	case w.Prev != "":
		prev, _ := strconv.Atoi(w.Prev)
		prevDigits := prev % centurySize
		if frag < prevDigits {
			// 1998 < '03
			return formatYear(prev - prevDigits + centurySize + frag), true
		}
		return formatYear(prev - prevDigits + frag), true
	case w.Next != "":
		next, _ := strconv.Atoi(w.Next)
		nextDigits := next % centurySize
		if frag > nextDigits {
			// '98 < 2003
			return formatYear(next - nextDigits - centurySize + frag), true
		}
		return formatYear(next - nextDigits + frag), true
	}
	return "", false
}

func (w Window) between(frag int) string {
	prev, _ := strconv.Atoi(w.Prev)
	next, _ := strconv.Atoi(w.Next)
	keep := fullYearWidth - len(w.Fragment)

	for _, anchor := range []string{w.Prev, w.Next} {
		candidate, err := strconv.Atoi(anchor[:keep] + w.Fragment)
		if err == nil && prev <= candidate && candidate <= next {
			return formatYear(candidate)
		}
	}

	// Neither anchor's leading digits fit: try the previous year's century
	// and its two neighbours, in the fixed order -1, 0, +1.
	mean := float64(prev+next) / 2
	century := prev / centurySize
	best := -1
	bestDiff := math.Inf(1)
	for _, offset := range []int{-1, 0, 1} {
		candidate := (century+offset)*centurySize + frag
		if candidate < 0 {
			continue
		}
		if diff := math.Abs(mean - float64(candidate)); diff < bestDiff {
			best = candidate
			bestDiff = diff
		}
	}
	return formatYear(best)
}

func formatYear(year int) string {
	return fmt.Sprintf("%04d", year)
}
