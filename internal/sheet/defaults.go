package sheet

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/holdsplit/internal/codetable"
)

// Prompter asks the user for a column value.
type Prompter interface {
	Prompt(message string) (string, error)
}

// LinePrompter reads one line per prompt.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter prompts on out and reads answers from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Prompt writes message and returns the trimmed answer.
func (p *LinePrompter) Prompt(message string) (string, error) {
	if _, err := fmt.Fprint(p.out, message); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// FillDefaults fills non-derived columns with their default values.
//
// Optional columns present in the table only get blank cells filled; add
// columns are overwritten in every row. A column without a default is
// prompted for. Values of coded columns are checked against their code
// table and prompted for again until accepted.
func FillDefaults(t *Table, ix *Index, s Schema, p Prompter) error {
	for _, c := range s.Optional {
		if c.Derived || !ix.Has(c.Name) {
			continue
		}
		msg := fmt.Sprintf("How should '%s' be filled in?  *blank* --> ", c.Name)
		value, err := columnValue(c, msg, p)
		if err != nil {
			return err
		}
		for _, row := range t.Rows {
			if ix.Get(row, c.Name) == "" {
				ix.Set(row, c.Name, value)
			}
		}
	}
	for _, c := range s.Add {
		if c.Derived || !ix.Has(c.Name) {
			continue
		}
		msg := fmt.Sprintf("How should all items in '%s' be filled in? ", c.Name)
		value, err := columnValue(c, msg, p)
		if err != nil {
			return err
		}
		for _, row := range t.Rows {
			ix.Set(row, c.Name, value)
		}
	}
	return nil
}

func columnValue(c Column, msg string, p Prompter) (string, error) {
	value := c.Default
	if !c.HasDefault {
		if p == nil {
			return "", fmt.Errorf("no default for column %q", c.Name)
		}
		v, err := p.Prompt(msg)
		if err != nil {
			return "", err
		}
		value = v
	}
	table, ok := codetable.ForColumn(c.Name)
	if !ok {
		return value, nil
	}
	for {
		entry, err := table.Lookup(value)
		if err == nil {
			return entry.Label, nil
		}
		if p == nil {
			return "", err
		}
		retry := fmt.Sprintf("Value '%s' for column '%s' is not possible. Possible options are: '%s'.\n%s",
			value, c.Name, strings.Join(table.Labels(), "', '"), msg)
		if value, err = p.Prompt(retry); err != nil {
			return "", err
		}
	}
}
