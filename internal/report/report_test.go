package report

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/holdsplit/internal/batch"
	"github.com/verte-zerg/holdsplit/internal/model"
	"github.com/verte-zerg/holdsplit/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "holdsplit.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		run := model.Run{
			Kind:      model.RunSplit,
			InputPath: "items.csv",
			StartedAt: start,
			EndedAt:   start.Add(30 * time.Second),
			Total:     10,
			Unmatched: 1,
		}
		id, err := st.InsertRun(ctx, run, []model.PatternCount{
			{Pattern: "StdMatch", Count: 9},
			{Pattern: model.Unmatched, Count: 1},
		})
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	rep, err := BuildReport(ctx, st, model.HistoryFilter{Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(rep.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(rep.Runs))
	}
	if rep.Runs[0].ID != ids[1] || rep.Runs[1].ID != ids[2] {
		t.Fatalf("unexpected run ids: %+v", rep.Runs)
	}
	if len(rep.Patterns) != 2 || rep.Patterns[0].Pattern != "StdMatch" || rep.Patterns[0].Count != 18 {
		t.Fatalf("unexpected pattern totals: %+v", rep.Patterns)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 5, 10}); got != " +@" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{3, 3}); got != "++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
}

func TestRenderSplitSummary(t *testing.T) {
	res := batch.Result{
		Total:      4,
		Unmatched:  1,
		Unresolved: 1,
		PatternCounts: []model.PatternCount{
			{Pattern: "StdMatch", Count: 3},
			{Pattern: model.Unmatched, Count: 1},
		},
	}
	var buf bytes.Buffer
	if err := RenderSplitSummary(&buf, res, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Patterns\n",
		"StdMatch      3  75.0%",
		"unmatched     1  25.0%",
		"Could not interpret 1 short year(s)",
		"Could not parse 1 item description\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, Report{}, 0, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No runs found.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderHistory(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rep := Report{
		Runs: []model.Run{
			{Kind: model.RunSplit, InputPath: "items.csv", StartedAt: start, EndedAt: start.Add(time.Second), Total: 10, Unmatched: 2},
			{Kind: model.RunUpdate, InputPath: "s_items.csv", StartedAt: start, EndedAt: start.Add(time.Minute), Total: 8, Failed: 1},
			{Kind: model.RunSplit, InputPath: "items.csv", StartedAt: start, EndedAt: start.Add(time.Second), Total: 10},
		},
		Patterns: []model.PatternCount{{Pattern: "StdMatch", Count: 18}, {Pattern: model.Unmatched, Count: 2}},
	}
	var buf bytes.Buffer
	if err := RenderHistory(&buf, rep, 2, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Runs\n", "s_items.csv", "1m0s", "StdMatch", "Unmatched rate\n", "latest 0.0%, avg(2) 10.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
