package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/holdsplit/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "holdsplit.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i, kind := range []model.RunKind{model.RunSplit, model.RunUpdate, model.RunSplit} {
		start := base.Add(time.Duration(i) * time.Hour)
		run := model.Run{
			Kind:       kind,
			InputPath:  "items.csv",
			OutputPath: "s_items.csv",
			StartedAt:  start,
			EndedAt:    start.Add(2 * time.Second),
			Total:      10,
			Unmatched:  i,
		}
		id, err := st.InsertRun(ctx, run, []model.PatternCount{{Pattern: "StdMatch", Count: 10 - i}, {Pattern: model.Unmatched, Count: i}})
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		if id == "" {
			t.Fatalf("expected generated run id")
		}
		ids = append(ids, id)
	}

	runs, err := st.ListRuns(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, run := range runs {
		if run.ID != ids[i] {
			t.Fatalf("run %d: expected id %s, got %s", i, ids[i], run.ID)
		}
	}
	if !runs[0].StartedAt.Equal(base) || runs[1].Kind != model.RunUpdate || runs[2].Unmatched != 2 {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	splits, err := st.ListRuns(ctx, model.HistoryFilter{Kind: model.RunSplit, Last: 1})
	if err != nil {
		t.Fatalf("list split runs: %v", err)
	}
	if len(splits) != 1 || splits[0].ID != ids[2] {
		t.Fatalf("expected only the latest split run, got %+v", splits)
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListRuns(ctx, model.HistoryFilter{Since: &since})
	if err != nil {
		t.Fatalf("list recent runs: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != ids[2] {
		t.Fatalf("expected one run since %s, got %+v", since, recent)
	}

	counts, err := st.ListPatternCounts(ctx, ids[:2])
	if err != nil {
		t.Fatalf("list pattern counts: %v", err)
	}
	want := []model.PatternCount{{Pattern: "StdMatch", Count: 19}, {Pattern: model.Unmatched, Count: 1}}
	if len(counts) != len(want) {
		t.Fatalf("expected %d counts, got %+v", len(want), counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("count %d: expected %+v, got %+v", i, want[i], counts[i])
		}
	}
}

func TestInsertRunKeepsID(t *testing.T) {
	st := openTestStore(t)
	now := time.Now()
	id, err := st.InsertRun(context.Background(), model.Run{ID: "fixed", Kind: model.RunFormat, StartedAt: now, EndedAt: now}, nil)
	if err != nil {
		t.Fatalf("insert run: %v", err)
	}
	if id != "fixed" {
		t.Fatalf("expected id fixed, got %s", id)
	}
	if _, err := st.InsertRun(context.Background(), model.Run{ID: "fixed", Kind: model.RunFormat, StartedAt: now, EndedAt: now}, nil); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
}

func TestListPatternCountsEmpty(t *testing.T) {
	st := openTestStore(t)
	counts, err := st.ListPatternCounts(context.Background(), nil)
	if err != nil || counts != nil {
		t.Fatalf("expected no counts, got %+v, %v", counts, err)
	}
}
