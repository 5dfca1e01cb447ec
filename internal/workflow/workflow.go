// Package workflow runs the format, split and update steps over files.
package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/holdsplit/internal/descparse"
	"github.com/verte-zerg/holdsplit/internal/model"
	"github.com/verte-zerg/holdsplit/internal/sheet"
)

// Recorder stores finished runs.
type Recorder interface {
	InsertRun(ctx context.Context, run model.Run, patterns []model.PatternCount) (string, error)
}

// Options are shared by every step. The zero value uses the default schema
// and library, never prompts and records nothing.
type Options struct {
	Schema   *sheet.Schema
	Library  *descparse.Library
	Prompter sheet.Prompter
	Recorder Recorder
	Logger   *zap.Logger
	Now      func() time.Time
}

func (o Options) schema() sheet.Schema {
	if o.Schema != nil {
		return *o.Schema
	}
	return sheet.DefaultSchema()
}

func (o Options) library() *descparse.Library {
	if o.Library != nil {
		return o.Library
	}
	return descparse.DefaultLibrary()
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// record stores run when a recorder is configured. Failing to record does
// not fail the step. An interrupted step is still recorded.
func (o Options) record(ctx context.Context, run model.Run, patterns []model.PatternCount) {
	if o.Recorder == nil {
		return
	}
	run.EndedAt = o.now()
	id, err := o.Recorder.InsertRun(context.WithoutCancel(ctx), run, patterns)
	if err != nil {
		o.logger().Warn("failed to record run", zap.String("kind", string(run.Kind)), zap.Error(err))
		return
	}
	o.logger().Debug("recorded run", zap.String("id", id), zap.String("kind", string(run.Kind)))
}

// FormatResult describes a finished format step.
type FormatResult struct {
	Out  string
	Rows int
}

// Format keeps only the schema's columns and protects numeric identifiers.
func Format(ctx context.Context, in string, opts Options) (FormatResult, error) {
	started := opts.now()
	log := opts.logger()
	log.Info("formatting", zap.String("input", in))

	t, err := sheet.ReadFile(in)
	if err != nil {
		return FormatResult{}, err
	}
	ix, err := sheet.Resolve(t, opts.schema())
	if err != nil {
		return FormatResult{}, err
	}
	out := sheet.OutputPath(in, sheet.PrefixFormat)
	if err := sheet.Project(t, ix).WriteFile(out); err != nil {
		return FormatResult{}, err
	}
	log.Info("formatted data written", zap.String("output", out), zap.Int("rows", len(t.Rows)))

	opts.record(ctx, model.Run{
		Kind:       model.RunFormat,
		InputPath:  in,
		OutputPath: out,
		StartedAt:  started,
		Total:      len(t.Rows),
	}, nil)
	return FormatResult{Out: out, Rows: len(t.Rows)}, nil
}
