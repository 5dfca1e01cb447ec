// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Unmatched is the match label of a record whose description fit no pattern.
const Unmatched = "unmatched"

// ErrPrefix marks a note that should keep a row out of a catalog update.
const ErrPrefix = "Err"

// Record is one holdings row as seen by the description parser.
type Record struct {
	Row         int
	TitleID     string
	Description string
	EnumA       string
	EnumB       string
	ChronI      string
	ChronJ      string
	MatchLabel  string
	Notes       string
}

// AppendNote adds a diagnostic to Notes, joined with "; ". A note already
// present is not added again.
func (r *Record) AppendNote(note string) {
	r.Notes = AppendNote(r.Notes, note)
}

// AppendNote returns notes with note added, joined with "; ".
func AppendNote(notes, note string) string {
	if note == "" || HasNote(notes, note) {
		return notes
	}
	if notes == "" {
		return note
	}
	return notes + "; " + note
}

// HasNote reports whether notes already contains note as one of its parts.
func HasNote(notes, note string) bool {
	for _, part := range strings.Split(notes, ";") {
		if strings.TrimSpace(part) == note {
			return true
		}
	}
	return false
}

// Flagged reports whether a row carries an error note or an unmatched description.
func Flagged(notes, matchLabel string) bool {
	return strings.Contains(notes, ErrPrefix) || matchLabel == Unmatched
}

// RunKind names the workflow step that produced a run.
type RunKind string

const (
	RunFormat RunKind = "format"
	RunSplit  RunKind = "split"
	RunUpdate RunKind = "update"
)

// Run captures one completed workflow step.
type Run struct {
	ID         string
	Kind       RunKind
	InputPath  string
	OutputPath string
	StartedAt  time.Time
	EndedAt    time.Time
	Total      int
	Unmatched  int
	Unresolved int
	Failed     int
}

// PatternCount is the number of rows a pattern matched in a run.
type PatternCount struct {
	Pattern string
	Count   int
}

// HistoryFilter narrows the runs listed by the history report.
type HistoryFilter struct {
	Kind  RunKind
	Since *time.Time
	Last  int
}
