package descparse

import (
	"strings"

	"github.com/verte-zerg/holdsplit/internal/model"
)

// Library is an ordered list of patterns tried first-match-wins.
type Library struct {
	patterns []Pattern
}

// NewLibrary builds a library that tries patterns in the given order.
func NewLibrary(patterns ...Pattern) *Library {
	return &Library{patterns: append([]Pattern(nil), patterns...)}
}

// DefaultLibrary returns the built-in serial description patterns.
func DefaultLibrary() *Library {
	return NewLibrary(defaultPatterns...)
}

// Patterns returns the library's patterns in match order.
func (l *Library) Patterns() []Pattern {
	return append([]Pattern(nil), l.patterns...)
}

// Names returns pattern names in match order.
func (l *Library) Names() []string {
	names := make([]string, len(l.patterns))
	for i, p := range l.patterns {
		names[i] = p.name
	}
	return names
}

// Extraction is the result of a successful match.
type Extraction struct {
	Pattern string
	Slots   map[string]string
}

// Match tries each pattern against desc and returns the first full match.
// A pattern that errors (match timeout) is treated as not matching.
func (l *Library) Match(desc string) (Extraction, bool) {
	for _, p := range l.patterns {
		m, err := p.re.FindStringMatch(desc)
		if err != nil || m == nil {
			continue
		}
		slots := make(map[string]string, len(p.slots))
		for _, slot := range p.slots {
			g := m.GroupByName(slot)
			if g == nil || len(g.Captures) == 0 {
				continue
			}
			slots[slot] = g.String()
		}
		return Extraction{Pattern: p.name, Slots: slots}, true
	}
	return Extraction{}, false
}

// Apply writes the extraction into r. Slots that were not captured leave
// the corresponding field untouched.
func (e Extraction) Apply(r *model.Record) {
	prefix, hasPrefix := e.Slots[SlotEnumAType]
	num, hasNum := e.Slots[SlotEnumANum]
	if hasPrefix || hasNum {
		r.EnumA = prefix + num
	}
	if v, ok := e.Slots[SlotEnumB]; ok {
		r.EnumB = strings.TrimSpace(v)
	}
	if v, ok := e.single(SlotChronI, SlotChronIPart1, SlotChronIPart2); ok {
		r.ChronI = v
	}
	if v, ok := e.single(SlotChronJ, SlotChronJPart1, SlotChronJPart2); ok {
		r.ChronJ = v
	}
	r.MatchLabel = e.Pattern
}

// single prefers the single capture; otherwise it joins the split pair.
func (e Extraction) single(one, part1, part2 string) (string, bool) {
	if v, ok := e.Slots[one]; ok {
		return strings.TrimSpace(v), true
	}
	p1, ok1 := e.Slots[part1]
	p2, ok2 := e.Slots[part2]
	switch {
	case ok1 && ok2:
		return strings.TrimSpace(p1) + "-" + strings.TrimSpace(p2), true
	case ok1:
		return strings.TrimSpace(p1), true
	case ok2:
		return strings.TrimSpace(p2), true
	}
	return "", false
}
