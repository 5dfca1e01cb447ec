package chron

import (
	"time"

	"github.com/dlclark/regexp2"

	"github.com/verte-zerg/holdsplit/internal/model"
)

const matchTimeout = time.Second

type monthRule struct {
	label string
	re    *regexp2.Regexp
}

// Rules run in order over the same text, so each one sees the output of the
// ones before it. The autumn rule must not swallow "Aug..." or "author".
var monthRules = []monthRule{
	newMonthRule("Jan", `ja\w*`),
	newMonthRule("Feb", `fe\w*`),
	newMonthRule("Mar", `ma*r\w*`),
	newMonthRule("Apr", `ap\w*`),
	newMonthRule("May", `ma*y`),
	newMonthRule("Jun", `j(?:une|un|n|e)`),
	newMonthRule("Jul", `j(?:uly|ul|l|y)`),
	newMonthRule("Aug", `au?g\w*`),
	newMonthRule("Sep", `se\w*`),
	newMonthRule("Oct", `oc\w*`),
	newMonthRule("Nov", `no?v\w*`),
	newMonthRule("Dec", `de\w*`),
	newMonthRule("Spr", `spr\w*`),
	newMonthRule("Sum", `su\w*`),
	newMonthRule("Fal", `fa\w*|au(?!thor|g)\w*`),
	newMonthRule("Win", `wi\w*`),
}

func newMonthRule(label, expr string) monthRule {
	re := regexp2.MustCompile(expr, regexp2.IgnoreCase)
	re.MatchTimeout = matchTimeout
	return monthRule{label: label, re: re}
}

// CanonicalizeMonths rewrites month and season words in text to their
// three-letter labels. Text no rule recognizes is left alone.
func CanonicalizeMonths(text string) string {
	for _, rule := range monthRules {
		out, err := rule.re.Replace(text, rule.label, -1, -1)
		if err != nil {
			continue
		}
		text = out
	}
	return text
}

// NormalizeMonths canonicalizes ChronJ on every record.
func NormalizeMonths(records []*model.Record) {
	for _, rec := range records {
		rec.ChronJ = CanonicalizeMonths(rec.ChronJ)
	}
}
