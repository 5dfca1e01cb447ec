// Package descparse extracts enumeration and chronology from holdings descriptions.
package descparse

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dlclark/regexp2"
)

// Capture slot names. A pattern may only name groups from this set.
const (
	SlotEnumAType   = "enumAType"
	SlotEnumANum    = "enumANum"
	SlotEnumB       = "enumB"
	SlotChronI      = "chronI"
	SlotChronJ      = "chronJ"
	SlotChronIPart1 = "chronIpart1"
	SlotChronIPart2 = "chronIpart2"
	SlotChronJPart1 = "chronJpart1"
	SlotChronJPart2 = "chronJpart2"
)

var knownSlots = map[string]struct{}{
	SlotEnumAType:   {},
	SlotEnumANum:    {},
	SlotEnumB:       {},
	SlotChronI:      {},
	SlotChronJ:      {},
	SlotChronIPart1: {},
	SlotChronIPart2: {},
	SlotChronJPart1: {},
	SlotChronJPart2: {},
}

const matchTimeout = time.Second

// Building blocks shared by the default patterns.
const (
	month = `JAN?[A-Z]*|FE[A-Z]*|MA?R[CH]*|AP[RIL]*|MA?Y|JU?[NE]E?|JU?[LY]Y?|AU?G[UST]*|SE[PTEMBR]*|O[A-Z]*|NO?V[A-Z]*|D[A-Z]*|SP[RING]*|SU[MER]*|AUT[UMN]*|FA[L]*|W[A-Z]*`

	enumPrefix = `^\s*(?<enumAType>(?:SER\.?\s*[0-9]+\s*)?VO?L?\s*[\.:]?\s?)\s*` +
		`(?<enumANum>[0-9]+[-/]?[0-9]*)\s*` +
		`(?<enumB>(?:(?:\s+NO?S?|\s+P[PTG]?)\s*\.?\s*[0-9]+[-/]?[0-9]*)*)\s*`

	apostrophe = `['’]?`
	tail       = `\s*\)?\s*$`
)

// Pattern is a named, case-insensitive description matcher.
type Pattern struct {
	name  string
	re    *regexp2.Regexp
	slots []string
}

// NewPattern compiles expr. Every named group must be a known capture slot.
func NewPattern(name, expr string) (Pattern, error) {
	if name == "" {
		return Pattern{}, fmt.Errorf("pattern name is empty")
	}
	re, err := regexp2.Compile(expr, regexp2.IgnoreCase)
	if err != nil {
		return Pattern{}, fmt.Errorf("compile pattern %s: %w", name, err)
	}
	re.MatchTimeout = matchTimeout
	var slots []string
	for _, group := range re.GetGroupNames() {
		if _, err := strconv.Atoi(group); err == nil {
			continue
		}
		if _, ok := knownSlots[group]; !ok {
			return Pattern{}, fmt.Errorf("pattern %s: unknown capture slot %q", name, group)
		}
		slots = append(slots, group)
	}
	return Pattern{name: name, re: re, slots: slots}, nil
}

// MustPattern is NewPattern for patterns known at compile time.
func MustPattern(name, expr string) Pattern {
	p, err := NewPattern(name, expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the label recorded on records this pattern matches.
func (p Pattern) Name() string {
	return p.name
}

// Slots returns the capture slots the pattern can populate.
func (p Pattern) Slots() []string {
	return append([]string(nil), p.slots...)
}

// Broad patterns come first; irregular ones are appended after them.
var defaultPatterns = []Pattern{
	// v.10 no.1-6 (Jan-Jun 1998): only the opening month lands in chronJ.
	MustPattern("StdMatch", enumPrefix+
		`(?:\(?\s*(?:(?<chronJ>`+month+`)\.?(?:\s*[-/]?\s*(?:`+month+`)\.?)?)?\s*`+
		apostrophe+`(?<chronI>(?<![0-9])[0-9]{2,4}(?:[-/][0-9]{1,4})?)\s*\)?)?\s*$`),
	// v.3 (1998 Jan-Feb)
	MustPattern("YearBeforeMonth", enumPrefix+
		`\(?\s*`+apostrophe+`(?<chronI>(?<![0-9])[0-9]{4}(?:[-/][0-9]{1,4})?)\s*`+
		`(?<chronJ>(?:(?:`+month+`)\.?\s*[-/]?\s*){1,2})`+tail),
	// v.5 (Dec 1998-Jan 1999)
	MustPattern("SplitYears", enumPrefix+
		`\(?\s*(?<chronJpart1>`+month+`)\.?\s*`+apostrophe+`(?<chronIpart1>(?<![0-9])[0-9]{2,4})\s*[-/]\s*`+
		`(?<chronJpart2>`+month+`)\.?\s*`+apostrophe+`(?<chronIpart2>(?<![0-9])[0-9]{2,4})`+tail),
}
