package descparse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/holdsplit/internal/model"
)

func TestMatchExtractsFields(t *testing.T) {
	cases := []struct {
		desc    string
		pattern string
		want    model.Record
	}{
		{
			desc:    "v.1 (1998)",
			pattern: "StdMatch",
			want:    model.Record{EnumA: "v.1", ChronI: "1998"},
		},
		{
			desc:    "v.2 ('99)",
			pattern: "StdMatch",
			want:    model.Record{EnumA: "v.2", ChronI: "99"},
		},
		{
			desc:    "v.1 (Jan-Mar 2002)",
			pattern: "StdMatch",
			want:    model.Record{EnumA: "v.1", ChronI: "2002", ChronJ: "Jan"},
		},
		{
			desc:    "  v.10 no.1-6 (Jun 1998)  ",
			pattern: "StdMatch",
			want:    model.Record{EnumA: "v.10", EnumB: "no.1-6", ChronI: "1998", ChronJ: "Jun"},
		},
		{
			desc:    "ser.3 v.2 pt.4 (1987-88)",
			pattern: "StdMatch",
			want:    model.Record{EnumA: "ser.3 v.2", EnumB: "pt.4", ChronI: "1987-88"},
		},
		{
			desc:    "VOL 12-13",
			pattern: "StdMatch",
			want:    model.Record{EnumA: "VOL 12-13"},
		},
		{
			desc:    "v.3 (1998 Jan-Feb)",
			pattern: "YearBeforeMonth",
			want:    model.Record{EnumA: "v.3", ChronI: "1998", ChronJ: "Jan-Feb"},
		},
		{
			desc:    "v.5 (Dec 1998-Jan 1999)",
			pattern: "SplitYears",
			want:    model.Record{EnumA: "v.5", ChronI: "1998-1999", ChronJ: "Dec-Jan"},
		},
		{
			desc:    "v.7 no.2 (Nov. '01 - Feb. '02)",
			pattern: "SplitYears",
			want:    model.Record{EnumA: "v.7", EnumB: "no.2", ChronI: "01-02", ChronJ: "Nov-Feb"},
		},
	}

	lib := DefaultLibrary()
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			ext, ok := lib.Match(tc.desc)
			require.True(t, ok, "expected %q to match", tc.desc)
			require.Equal(t, tc.pattern, ext.Pattern)

			var rec model.Record
			ext.Apply(&rec)
			tc.want.MatchLabel = tc.pattern
			require.Equal(t, tc.want, rec)
		})
	}
}

func TestMatchRejectsPartialDescriptions(t *testing.T) {
	lib := DefaultLibrary()
	for _, desc := range []string{
		"xyz unparseable",
		"",
		"v.1 (1998) index",
		"supplement v.2",
	} {
		_, ok := lib.Match(desc)
		require.False(t, ok, "expected %q not to match", desc)
	}
}

func TestMatchRequiresASCIIDigits(t *testing.T) {
	lib := DefaultLibrary()
	for _, desc := range []string{
		"v.1 (\u0669\u0669)",
		"v.\u0661 (1998)",
		"v.1 (Dec \u0661\u0669\u0669\u0668-Jan 1999)",
	} {
		_, ok := lib.Match(desc)
		require.False(t, ok, "expected %q not to match", desc)
	}
}

func TestMatchToleratesUnclosedParenthesis(t *testing.T) {
	ext, ok := DefaultLibrary().Match("v.1 (1998")
	require.True(t, ok)
	require.Equal(t, "1998", ext.Slots[SlotChronI])
}

func TestMatchFirstPatternWins(t *testing.T) {
	broad := MustPattern("Broad", `^\s*(?<enumAType>v\.)(?<enumANum>\d+).*$`)
	narrow := MustPattern("Narrow", `^\s*(?<enumAType>v\.)(?<enumANum>\d+)\s*\((?<chronI>\d{4})\)\s*$`)

	ext, ok := NewLibrary(broad, narrow).Match("v.4 (2004)")
	require.True(t, ok)
	require.Equal(t, "Broad", ext.Pattern)
	_, hasYear := ext.Slots[SlotChronI]
	require.False(t, hasYear)

	ext, ok = NewLibrary(narrow, broad).Match("v.4 (2004)")
	require.True(t, ok)
	require.Equal(t, "Narrow", ext.Pattern)
	require.Equal(t, "2004", ext.Slots[SlotChronI])
}

func TestApplyLeavesUncapturedFields(t *testing.T) {
	rec := model.Record{EnumA: "old", ChronI: "1990", ChronJ: "Win", Notes: "keep"}
	ext, ok := DefaultLibrary().Match("v.9")
	require.True(t, ok)
	ext.Apply(&rec)

	require.Equal(t, "v.9", rec.EnumA)
	require.Equal(t, "1990", rec.ChronI)
	require.Equal(t, "Win", rec.ChronJ)
	require.Equal(t, "keep", rec.Notes)
	require.Equal(t, "StdMatch", rec.MatchLabel)
}

func TestApplyPrefersSingleOverSplitCaptures(t *testing.T) {
	ext := Extraction{
		Pattern: "Mixed",
		Slots: map[string]string{
			SlotChronI:      "2001",
			SlotChronIPart1: "1999",
			SlotChronIPart2: "2000",
			SlotChronJPart1: "Spr",
			SlotChronJPart2: "Sum",
		},
	}
	var rec model.Record
	ext.Apply(&rec)
	require.Equal(t, "2001", rec.ChronI)
	require.Equal(t, "Spr-Sum", rec.ChronJ)
}

func TestNewPatternRejectsUnknownSlot(t *testing.T) {
	_, err := NewPattern("Bad", `^(?<volume>\d+)$`)
	require.Error(t, err)

	p, err := NewPattern("Good", `^(?<enumANum>\d+)(?<enumB>x)?$`)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{SlotEnumANum, SlotEnumB}, p.Slots())
}

func TestDefaultLibraryOrder(t *testing.T) {
	require.Equal(t, []string{"StdMatch", "YearBeforeMonth", "SplitYears"}, DefaultLibrary().Names())
}
