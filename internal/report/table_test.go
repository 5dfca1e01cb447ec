package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Pattern", "Rows", "Share"}
	rows := [][]string{
		{"StdMatch", "12", "92.3%"},
		{"unmatched", "1", "7.7%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Pattern    Rows  Share" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "StdMatch     12  92.3%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "unmatched     1   7.7%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Title", "N"}, [][]string{{"雑誌", "1"}, {"Journal", "2"}}, nil)
	if lines[1] != "雑誌     1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("holdings.csv", 6); got != "holdi…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncate("a.csv", 6); got != "a.csv" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
