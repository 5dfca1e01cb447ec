package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/holdsplit/internal/batch"
	"github.com/verte-zerg/holdsplit/internal/model"
)

const (
	sparkChars     = " .:-=+*#%@"
	timeLayout     = "2006-01-02 15:04"
	inputColWidth  = 32
	defaultTrendSz = 5
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// ShouldUseColor reports whether w is a terminal and NO_COLOR is unset.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func paint(style lipgloss.Style, text string, useColor bool) string {
	if !useColor {
		return text
	}
	return style.Render(text)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := range values {
		sum += values[i]
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// UnmatchedRate is the share of a run's rows that matched no pattern.
func UnmatchedRate(run model.Run) float64 {
	if run.Total <= 0 {
		return 0
	}
	return float64(run.Unmatched) / float64(run.Total)
}

func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func patternRows(counts []model.PatternCount) [][]string {
	total := 0
	for _, pc := range counts {
		total += pc.Count
	}
	rows := make([][]string, 0, len(counts))
	for _, pc := range counts {
		share := 0.0
		if total > 0 {
			share = float64(pc.Count) / float64(total) * 100
		}
		rows = append(rows, []string{pc.Pattern, fmt.Sprintf("%d", pc.Count), fmt.Sprintf("%.1f%%", share)})
	}
	return rows
}

// RenderSplitSummary prints pattern counts for one split and the parse message.
func RenderSplitSummary(w io.Writer, res batch.Result, useColor bool) error {
	if err := writeLines(w, paint(headingStyle, "Patterns", useColor)); err != nil {
		return err
	}
	lines := formatTable([]string{"Pattern", "Rows", "Share"}, patternRows(res.PatternCounts), map[int]bool{1: true, 2: true})
	if err := writeLines(w, lines...); err != nil {
		return err
	}
	if err := writeLines(w, ""); err != nil {
		return err
	}
	if res.Unresolved > 0 {
		if err := writeLines(w, fmt.Sprintf("Could not interpret %d short year(s)", res.Unresolved)); err != nil {
			return err
		}
	}
	style := okStyle
	if res.Unmatched > 0 {
		style = warnStyle
	}
	return writeLines(w, paint(style, res.Message(), useColor))
}

// RenderHistory prints recorded runs, pattern totals and the unmatched
// rate trend smoothed over window runs.
func RenderHistory(w io.Writer, rep Report, window int, useColor bool) error {
	if len(rep.Runs) == 0 {
		return writeLines(w, "No runs found.")
	}
	if window <= 0 {
		window = defaultTrendSz
	}

	rows := make([][]string, 0, len(rep.Runs))
	for _, r := range rep.Runs {
		rows = append(rows, []string{
			r.StartedAt.Local().Format(timeLayout),
			string(r.Kind),
			truncate(r.InputPath, inputColWidth),
			fmt.Sprintf("%d", r.Total),
			fmt.Sprintf("%d", r.Unmatched),
			fmt.Sprintf("%d", r.Unresolved),
			fmt.Sprintf("%d", r.Failed),
			r.EndedAt.Sub(r.StartedAt).Round(10 * time.Millisecond).String(),
		})
	}
	headers := []string{"Started", "Kind", "Input", "Rows", "Unmatched", "Unresolved", "Failed", "Took"}
	if err := writeLines(w, paint(headingStyle, "Runs", useColor)); err != nil {
		return err
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true})...); err != nil {
		return err
	}

	if len(rep.Patterns) > 0 {
		if err := writeLines(w, "", paint(headingStyle, "Patterns", useColor)); err != nil {
			return err
		}
		lines := formatTable([]string{"Pattern", "Rows", "Share"}, patternRows(rep.Patterns), map[int]bool{1: true, 2: true})
		if err := writeLines(w, lines...); err != nil {
			return err
		}
	}

	var rates []float64
	for _, r := range rep.Runs {
		if r.Kind == model.RunSplit {
			rates = append(rates, UnmatchedRate(r)*100)
		}
	}
	if len(rates) == 0 {
		return nil
	}
	smoothed := MovingAverage(rates, window)
	return writeLines(w,
		"",
		paint(headingStyle, "Unmatched rate", useColor),
		fmt.Sprintf("[%s] latest %.1f%%, avg(%d) %.1f%%", Sparkline(smoothed), rates[len(rates)-1], window, smoothed[len(smoothed)-1]),
	)
}
