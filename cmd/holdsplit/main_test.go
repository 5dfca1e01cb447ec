package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/holdsplit/internal/config"
	"github.com/verte-zerg/holdsplit/internal/model"
)

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	if cfg.Columns.ItemPolicy == nil || *cfg.Columns.ItemPolicy != defaultItemPolicy {
		t.Fatalf("unexpected item policy: %v", cfg.Columns.ItemPolicy)
	}
	if cfg.Catalog.TimeoutSeconds == nil || *cfg.Catalog.TimeoutSeconds != defaultTimeoutSeconds {
		t.Fatalf("unexpected timeout: %v", cfg.Catalog.TimeoutSeconds)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != defaultLogLevel {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestHistoryFilter(t *testing.T) {
	filter, err := historyFilter("split", "2024-03-01", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.Kind != model.RunSplit || filter.Last != 5 || filter.Since == nil {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if got := filter.Since.Format("2006-01-02"); got != "2024-03-01" {
		t.Fatalf("unexpected since: %s", got)
	}

	if _, err := historyFilter("parse", "", 0); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := historyFilter("", "March", 0); err == nil {
		t.Fatalf("expected error for bad date")
	}
	if _, err := historyFilter("", "", -1); err == nil {
		t.Fatalf("expected error for negative last")
	}
}

type scriptedPrompter struct {
	answers []string
	asked   int
}

func (p *scriptedPrompter) Prompt(string) (string, error) {
	answer := p.answers[p.asked]
	p.asked++
	return answer, nil
}

func TestConfirmRepromptsUntilYesOrNo(t *testing.T) {
	p := &scriptedPrompter{answers: []string{"maybe", "", "y"}}
	ok, err := confirm(p)
	if err != nil || !ok {
		t.Fatalf("expected confirmation, got %v %v", ok, err)
	}
	if p.asked != 3 {
		t.Fatalf("expected 3 prompts, got %d", p.asked)
	}

	ok, err = confirm(&scriptedPrompter{answers: []string{" N "}})
	if err != nil || ok {
		t.Fatalf("expected refusal, got %v %v", ok, err)
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger("debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := newLogger("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
